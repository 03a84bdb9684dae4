package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"inkpaint/internal/composite"
	"inkpaint/internal/texture"
)

const script = `{
  "materials": [{"name": "Body"}],
  "channels": {"color": true, "normal": true, "height": false},
  "brushes": {"red": {"scale": 0.3, "tint": "#ff0000"}},
  "ops": [{"action": "paint", "brush": "red", "uv": [0.5, 0.5]}]
}`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunWritesOutputs(t *testing.T) {
	strokes := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(strokes, "b_paint.json"), script)
	writeFile(t, filepath.Join(strokes, "a_broken.json"), "{")
	writeFile(t, filepath.Join(strokes, "notes.txt"), "ignored")

	jobs, err := FindJobs(strokes)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2 || jobs[0].Name != "a_broken" || jobs[1].Name != "b_paint" {
		t.Fatalf("jobs = %+v", jobs)
	}

	sw := composite.NewSoftware()
	results := Run(Config{
		OutputDir:     out,
		Backend:       sw,
		TextureSize:   32,
		Format:        "png",
		PreviewSize:   32,
		ThumbnailSize: 16,
		Workers:       2,
	}, jobs)

	if results[0].Success || results[0].Error == "" {
		t.Errorf("broken job result = %+v, want failure", results[0])
	}
	ok := results[1]
	if !ok.Success || ok.Applied != 1 {
		t.Fatalf("paint job result = %+v", ok)
	}
	want := []string{"b_paint/Body_color.png", "b_paint/Body_normal.png", "b_paint/preview.png", "b_paint/thumb.png"}
	if len(ok.Outputs) != len(want) {
		t.Fatalf("outputs = %v, want %v", ok.Outputs, want)
	}
	for i, rel := range want {
		if ok.Outputs[i] != rel {
			t.Errorf("outputs[%d] = %s, want %s", i, ok.Outputs[i], rel)
		}
		if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}

	thumb, err := texture.Load(filepath.Join(out, "b_paint", "thumb.png"))
	if err != nil {
		t.Fatal(err)
	}
	if thumb.Rect.Dx() != 16 {
		t.Errorf("thumbnail width = %d, want 16", thumb.Rect.Dx())
	}
	if sw.Outstanding() != 0 {
		t.Errorf("Outstanding() = %d after the batch, want 0", sw.Outstanding())
	}

	manifest := filepath.Join(out, "manifest.json")
	if err := WriteManifest(manifest, results); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[1].Name != "b_paint" || !entries[1].Success {
		t.Errorf("manifest = %+v", entries)
	}
}

func TestMissingTextureFailsJob(t *testing.T) {
	strokes := t.TempDir()
	writeFile(t, filepath.Join(strokes, "job.json"), `{"materials": [{"name": "M", "color": "nowhere"}]}`)
	idx, err := texture.BuildIndex(strokes)
	if err != nil {
		t.Fatal(err)
	}
	results := Run(Config{OutputDir: t.TempDir(), Textures: texture.NewCache(idx), Format: "png"},
		[]Job{{Name: "job", Path: filepath.Join(strokes, "job.json")}})
	if results[0].Success {
		t.Error("job with a missing texture succeeded")
	}
}

func TestFindJobsMissingDir(t *testing.T) {
	if _, err := FindJobs(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("FindJobs succeeded on a missing directory")
	}
}
