package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fbx-mesh-renderer/internal/batch"
	"fbx-mesh-renderer/internal/config"
	"fbx-mesh-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .yaml)")
	testN := flag.Int("test", 0, "Process only first N files for testing")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	inputDir := flag.String("input", "", "Directory scanned for .fbx files (default: .)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/renders)")
	textureDir := flag.String("textures", "", "Texture directory (default: <input>)")
	scale := flag.Float64("scale", 0, "Uniform model scale (default: 1)")
	size := flag.Int("size", 0, "Preview size in pixels (default: 256)")
	format := flag.String("format", "", "Comma-separated outputs: webp, glb (default: webp)")

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
		InputDir:   *inputDir,
		OutputDir:  *outputDir,
		TextureDir: *textureDir,
		Scale:      *scale,
		RenderSize: *size,
		Workers:    *workers,
		Formats:    *format,
	})

	jobs, err := batch.Collect(cfg.InputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}

	if len(jobs) == 0 {
		fmt.Println("No FBX files found.")
		os.Exit(0)
	}

	// Build texture index
	texIndex := texture.BuildIndex(cfg.TextureDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("FBX mesh renderer → %v%s\n", cfg.Formats, mode)
	fmt.Printf("Files: %d, Workers: %d, Scale: %g\n", len(jobs), cfg.Workers, cfg.Scale)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		InputDir:    cfg.InputDir,
		OutputDir:   cfg.OutputDir,
		TexResolver: texCache,
		Scale:       cfg.Scale,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		FillRatio:   cfg.FillRatio,
		Workers:     cfg.Workers,
		Formats:     cfg.Formats,
	}

	results := batch.Run(batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	summary := batch.Summarize(results)
	fmt.Printf("Converted: %d/%d, skipped: %d\n", summary.Succeeded, summary.Total, summary.Skipped)

	var failures []batch.Result
	for _, r := range results {
		if !r.Success && !r.Skipped {
			failures = append(failures, r)
		}
	}
	if len(failures) > 0 {
		fmt.Fprintf(os.Stderr, "\nFailed (%d):\n", len(failures))
		for _, e := range failures[:min(len(failures), 20)] {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failures) > 0 {
		os.Exit(1)
	}
}
