package batch

import (
	"encoding/json"
	"os"
)

// Manifest is the summary written next to the outputs.
type Manifest struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Files     []Result `json:"files"`
}

// Summarize counts outcomes.
func Summarize(results []Result) Manifest {
	m := Manifest{Total: len(results), Files: results}
	for _, r := range results {
		switch {
		case r.Success:
			m.Succeeded++
		case r.Skipped:
			m.Skipped++
		default:
			m.Failed++
		}
	}
	return m
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
