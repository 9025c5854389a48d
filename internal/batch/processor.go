package batch

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fbx-mesh-renderer/internal/export"
	"fbx-mesh-renderer/internal/fbx"
	"fbx-mesh-renderer/internal/geometry"
	"fbx-mesh-renderer/internal/mathutil"
	"fbx-mesh-renderer/internal/mesh"
	"fbx-mesh-renderer/internal/postprocess"
	"fbx-mesh-renderer/internal/raster"
	"fbx-mesh-renderer/internal/texture"

	"github.com/HugoSmits86/nativewebp"
)

// Output formats.
const (
	FormatWebP = "webp"
	FormatGLB  = "glb"
)

// errNoGeometry marks a well-formed file that holds no geometry records.
var errNoGeometry = errors.New("no geometry")

// Config holds all shared resources for a batch run.
type Config struct {
	InputDir    string
	OutputDir   string
	TexResolver texture.Resolver
	Scale       float64
	RenderSize  int
	Supersample int
	FillRatio   float64
	Workers     int
	Formats     []string
}

// Job is one input file. Name is its path relative to the input directory
// without the extension, with forward slashes.
type Job struct {
	Path string
	Name string
}

// Result holds the outcome of processing one file.
type Result struct {
	Name       string   `json:"name"`
	Source     string   `json:"source"`
	Geometries int      `json:"geometries"`
	Triangles  int      `json:"triangles"`
	Outputs    []string `json:"outputs,omitempty"`
	Success    bool     `json:"success"`
	Skipped    bool     `json:"skipped,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Collect walks dir for .fbx files, sorted by path.
func Collect(dir string) ([]Job, error) {
	var jobs []Job
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".fbx") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, Job{
			Path: path,
			Name: filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	return jobs, nil
}

// Run processes all jobs using a worker pool. Results are in job order.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64
	workers := max(cfg.Workers, 1)

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
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = Process(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

// Process decodes one file and writes the configured outputs. Non-FBX input
// and files without geometry are skipped, not failed.
func Process(cfg Config, job Job) Result {
	res := Result{Name: job.Name, Source: job.Path}

	meshes, err := load(job.Path, cfg.Scale)
	switch {
	case errors.Is(err, fbx.ErrMalformedHeader), errors.Is(err, errNoGeometry):
		res.Skipped = true
		res.Error = err.Error()
		return res
	case err != nil:
		res.Error = err.Error()
		return res
	}

	res.Geometries = len(meshes)
	for i := range meshes {
		res.Triangles += meshes[i].TriangleCount()
	}

	for _, format := range cfg.Formats {
		out := filepath.Join(cfg.OutputDir, filepath.FromSlash(job.Name)+"."+format)
		if err := writeOutput(cfg, format, out, meshes); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Outputs = append(res.Outputs, filepath.ToSlash(job.Name)+"."+format)
	}

	res.Success = true
	return res
}

func load(path string, scale float64) ([]mesh.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := fbx.Parse(data)
	if err != nil {
		return nil, err
	}
	records, err := geometry.Extract(doc)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errNoGeometry
	}
	return mesh.Build(records, geometry.Materials(doc, records), scale), nil
}

func writeOutput(cfg Config, format, path string, meshes []mesh.Mesh) error {
	if format != FormatWebP && format != FormatGLB {
		return fmt.Errorf("unknown output format %q", format)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if format == FormatGLB {
		if err := export.WriteGLB(f, meshes); err != nil {
			return err
		}
	} else if err := nativewebp.Encode(f, preview(cfg, meshes), nil); err != nil {
		return fmt.Errorf("WebP encode: %w", err)
	}
	return f.Close()
}

// preview renders the meshes from the preview camera and frames the result.
func preview(cfg Config, meshes []mesh.Mesh) image.Image {
	img := raster.Render(meshes, mathutil.PreviewView, cfg.TexResolver, cfg.RenderSize, cfg.Supersample)

	// Post-processing: supersample downsample
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}
	if cfg.FillRatio > 0 {
		img = postprocess.CropAndCenter(img, cfg.RenderSize, cfg.FillRatio)
	}
	return img
}
