package batch

import (
	"os"

	"coppercube-loader/internal/export"
)

// ManifestEntry represents one file in the output manifest.
type ManifestEntry struct {
	File    string          `json:"file"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Output  string          `json:"output,omitempty"`
	Summary *export.Summary `json:"summary,omitempty"`
}

// WriteManifest writes the results to path in the given format.
func WriteManifest(path string, f export.Format, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			File:    r.File,
			Success: r.Success,
			Error:   r.Error,
			Output:  r.Output,
			Summary: r.Summary,
		}
	}

	data, err := export.Marshal(f, entries)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
