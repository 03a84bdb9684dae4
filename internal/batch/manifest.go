package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one job in the output manifest.
type ManifestEntry struct {
	Name    string   `json:"name"`
	Script  string   `json:"script"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Applied int      `json:"applied"`
	Failed  int      `json:"failed"`
	Outputs []string `json:"outputs,omitempty"`
}

// WriteManifest writes the results as indented JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:    r.Name,
			Script:  r.Script,
			Success: r.Success,
			Error:   r.Error,
			Applied: r.Applied,
			Failed:  r.Failed,
			Outputs: r.Outputs,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
