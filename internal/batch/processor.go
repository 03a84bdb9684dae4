// Package batch replays stroke scripts in parallel, one canvas per script,
// and writes the painted textures, previews and a manifest.
package batch

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"inkpaint/internal/canvas"
	"inkpaint/internal/composite"
	"inkpaint/internal/mesh"
	"inkpaint/internal/postprocess"
	"inkpaint/internal/preview"
	"inkpaint/internal/stroke"
	"inkpaint/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir     string
	Textures      texture.Resolver
	Backend       composite.Backend
	TextureSize   int
	EraseSource   canvas.EraseSource
	Format        string // output extension without the dot
	Export        texture.ExportOptions
	PreviewSize   int // 0 disables the preview render
	ThumbnailSize int // 0 disables the thumbnail
	Workers       int
}

// Job is one stroke script.
type Job struct {
	Name string
	Path string
}

// Result holds the outcome of one job.
type Result struct {
	Name    string
	Script  string
	Success bool
	Error   string
	Applied int
	Failed  int
	Outputs []string // relative to the output directory
}

// Base textures for channels a material does not name.
var (
	blankColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	flatNormal  = color.NRGBA{R: 128, G: 128, B: 255, A: 255}
	blankHeight = color.NRGBA{A: 255}
)

// FindJobs lists the *.json scripts directly inside dir, sorted by name.
func FindJobs(dir string) ([]Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", dir, err)
	}
	var jobs []Job
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		jobs = append(jobs, Job{
			Name: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs, nil
}

// Run processes all jobs using a worker pool. Results are in job order.
func Run(cfg Config, jobs []Job) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Backend == nil {
		cfg.Backend = composite.Default()
	}
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					fmt.Printf("  [%d/%d] %.1f jobs/sec\n", p, total, float64(p)/elapsed)
				}
			}
		}
	}()

	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(cfg Config, job Job) Result {
	res := Result{Name: job.Name, Script: job.Path}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	s, err := stroke.Load(job.Path)
	if err != nil {
		return fail(err)
	}

	m := mesh.Quad()
	if s.Mesh != "" {
		path := s.Mesh
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(job.Path), path)
		}
		if m, _, err = mesh.LoadOBJ(path); err != nil {
			return fail(err)
		}
	}

	materials := make([]*canvas.Material, 0, len(s.Materials))
	for _, ms := range s.Materials {
		mat, err := buildMaterial(cfg, ms)
		if err != nil {
			return fail(err)
		}
		materials = append(materials, mat)
	}

	transform := s.Transform.Matrix()
	opts := []canvas.Option{
		canvas.WithBackend(cfg.Backend),
		canvas.WithTransform(transform),
		canvas.WithEraseSource(cfg.EraseSource),
	}
	if s.Camera != nil {
		opts = append(opts, canvas.WithCamera(s.Camera))
	}
	if ch := s.Channels; ch != nil {
		opts = append(opts, canvas.WithChannels(ch.Color, ch.Normal, ch.Height))
	}

	c, err := canvas.New(m, materials, opts...)
	if err != nil {
		return fail(err)
	}
	defer c.Destroy()
	if err := c.Init(); err != nil {
		return fail(err)
	}

	brushes, err := s.BuildBrushes(cfg.Textures)
	if err != nil {
		return fail(err)
	}
	sr, err := stroke.Run(c, s, brushes)
	res.Applied, res.Failed = sr.Applied, sr.Failed
	if err != nil {
		return fail(err)
	}

	save := func(name string, img image.Image) error {
		rel := filepath.Join(job.Name, name+"."+cfg.Format)
		if err := texture.Export(filepath.Join(cfg.OutputDir, rel), img, cfg.Export); err != nil {
			return err
		}
		res.Outputs = append(res.Outputs, filepath.ToSlash(rel))
		return nil
	}

	var first *image.NRGBA
	for _, ps := range c.PaintSets() {
		for _, ch := range canvas.Channels {
			buf := ps.Buffer(ch)
			if buf == nil {
				continue
			}
			if first == nil && ch == canvas.ChannelColor {
				first = buf
			}
			if err := save(ps.Name()+"_"+ch.String(), buf); err != nil {
				return fail(err)
			}
		}
	}

	thumbSrc := first
	if cfg.PreviewSize > 0 {
		img := preview.Render(m, first, nil, transform, preview.Options{Size: cfg.PreviewSize})
		if err := save("preview", img); err != nil {
			return fail(err)
		}
		thumbSrc = img
	}
	if cfg.ThumbnailSize > 0 && thumbSrc != nil {
		if err := save("thumb", postprocess.Thumbnail(thumbSrc, cfg.ThumbnailSize)); err != nil {
			return fail(err)
		}
	}

	res.Success = true
	return res
}

// buildMaterial resolves the named textures of ms. Unnamed channels get
// blank textures of the configured size; a name that does not resolve is
// an error.
func buildMaterial(cfg Config, ms stroke.MaterialSpec) (*canvas.Material, error) {
	size := cfg.TextureSize
	if size <= 0 {
		size = 256
	}
	mat := &canvas.Material{Name: ms.Name, Textures: make(map[string]*image.NRGBA, 3)}
	for _, t := range []struct {
		prop  string
		name  string
		blank color.NRGBA
	}{
		{canvas.DefaultColorProperty, ms.Color, blankColor},
		{canvas.DefaultNormalProperty, ms.Normal, flatNormal},
		{canvas.DefaultHeightProperty, ms.Height, blankHeight},
	} {
		if t.name == "" {
			mat.Textures[t.prop] = texture.Solid(size, size, t.blank)
			continue
		}
		var img *image.NRGBA
		if cfg.Textures != nil {
			img = cfg.Textures.Resolve(t.name)
		}
		if img == nil {
			return nil, fmt.Errorf("batch: material %s: texture %q not found", ms.Name, t.name)
		}
		mat.Textures[t.prop] = img
	}
	return mat, nil
}
