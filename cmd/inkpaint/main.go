package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"inkpaint/internal/batch"
	"inkpaint/internal/canvas"
	"inkpaint/internal/composite"
	"inkpaint/internal/config"
	"inkpaint/internal/logging"
	"inkpaint/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	script := flag.String("script", "", "Run only this stroke script")
	testN := flag.Int("test", 0, "Run only the first N scripts")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	baseDir := flag.String("base", "", "Base directory (default: auto-detect)")
	outputDir := flag.String("output", "", "Output directory (default: <base>/out)")
	format := flag.String("format", "", "Output format: webp, png or tga (default: webp)")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error (default: warn)")
	watch := flag.Bool("watch", false, "Keep running and replay scripts as they change")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		BaseDir:      *baseDir,
		OutputDir:    *outputDir,
		ExportFormat: strings.ToLower(*format),
		LogLevel:     *logLevel,
		Workers:      *workers,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.SetLogger(logging.NewText(os.Stderr, cfg.LogLevel))

	eraseSource, err := canvas.ParseEraseSource(cfg.EraseSource)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Collect jobs
	var jobs []batch.Job
	if *script != "" {
		name := strings.TrimSuffix(filepath.Base(*script), filepath.Ext(*script))
		jobs = []batch.Job{{Name: name, Path: *script}}
	} else {
		jobs, err = batch.FindJobs(cfg.StrokeDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}
	if len(jobs) == 0 && !*watch {
		fmt.Println("No stroke scripts to run.")
		os.Exit(0)
	}

	// Build texture index
	texIndex, err := texture.BuildIndex(cfg.TextureDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: texture index: %v\n", err)
		texIndex = &texture.Index{}
	}
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}
	fmt.Printf("Ink painter → %s%s\n", cfg.ExportFormat, mode)
	fmt.Printf("Scripts: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir:     cfg.OutputDir,
		Textures:      texCache,
		Backend:       composite.Default(),
		TextureSize:   cfg.TextureSize,
		EraseSource:   eraseSource,
		Format:        cfg.ExportFormat,
		Export:        texture.ExportOptions{WebPExtended: cfg.WebPExtended},
		PreviewSize:   cfg.PreviewSize,
		ThumbnailSize: cfg.ThumbnailSize,
		Workers:       cfg.Workers,
	}
	results := batch.Run(batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed, strokes := 0, 0, 0
	var errs []batch.Result
	for _, r := range results {
		strokes += r.Applied
		if r.Success {
			success++
		} else {
			failed++
			errs = append(errs, r)
		}
	}
	fmt.Printf("Painted: %d/%d scripts, %d strokes\n", success, len(jobs), strokes)

	if len(errs) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, e := range errs[:min(len(errs), 20)] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if *watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Printf("Watching %s (Ctrl-C to stop)\n", cfg.StrokeDir)
		err := batch.Watch(ctx, batchCfg, cfg.StrokeDir, func(r batch.Result) {
			if r.Success {
				fmt.Printf("  %s: %d strokes, %d outputs\n", r.Name, r.Applied, len(r.Outputs))
			} else {
				fmt.Printf("  %s: FAILED %s\n", r.Name, r.Error)
			}
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if failed > 0 {
		os.Exit(1)
	}
}
