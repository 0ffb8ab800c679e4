package batch

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"coppercube-loader/internal/ccb"
	"coppercube-loader/internal/export"
	"coppercube-loader/internal/meshcache"
	"coppercube-loader/internal/texture"
)

// Extensions lists the file extensions Discover picks up.
var Extensions = []string{".ccbz", ".ccbjs", ".ccp", ".ccb"}

// Config holds all shared resources for a batch run.
type Config struct {
	// OutputDir receives one exported document per input when set.
	OutputDir string
	Format    export.Format
	// Textures is shared by all workers. nil leaves texture references
	// as plain paths.
	Textures *texture.Manager
	MaxDepth int
	Workers  int
	Logger   *slog.Logger
	// Progress receives a rate line every two seconds when set.
	Progress io.Writer
}

// Result holds the outcome of decoding one file.
type Result struct {
	File    string          `json:"file"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Output  string          `json:"output,omitempty"`
	Summary *export.Summary `json:"summary,omitempty"`
	// Document is the decoded tree; it is not part of the manifest.
	Document *ccb.Document `json:"-"`
	// Meshes is the per-document mesh cache.
	Meshes *meshcache.Cache `json:"-"`
}

// Discover returns every decodable file under root, sorted. A root
// that is a file is returned as is.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, e := range Extensions {
			if ext == e {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// Run decodes all files using a worker pool. Results are in input order.
func Run(cfg Config, files []string) []Result {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
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
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f files/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	fileChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

// scriptNames records embedded scripts without running them.
type scriptNames struct {
	names []string
}

func (s *scriptNames) Import(name string, _ []byte) error {
	s.names = append(s.names, name)
	return nil
}

func processFile(cfg Config, path string) Result {
	log := cfg.Logger.With("file", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{File: path, Error: err.Error()}
	}
	data, err := ccb.Preprocess(path, raw)
	if err != nil {
		return Result{File: path, Error: err.Error()}
	}

	meshes := meshcache.New()
	scripts := &scriptNames{}
	opts := ccb.Options{
		Filename: path,
		Meshes:   meshes,
		Scripts:  scripts,
		Logger:   log,
		MaxDepth: cfg.MaxDepth,
	}
	if cfg.Textures != nil {
		opts.Textures = cfg.Textures
	}
	doc, err := ccb.Decode(data, opts)
	if err != nil {
		return Result{File: path, Error: err.Error()}
	}

	summary, err := export.Summarize(path, raw, doc, meshes.Meshes())
	if err != nil {
		return Result{File: path, Error: err.Error()}
	}
	summary.Scripts = scripts.names
	if st := meshes.Stats(); st.Unresolved > 0 {
		log.Warn("meshes without payload", "count", st.Unresolved)
	}

	res := Result{File: path, Summary: summary, Document: doc, Meshes: meshes}
	if cfg.OutputDir != "" {
		out, err := writeExport(cfg, path, doc)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Output = out
	}
	res.Success = true
	return res
}

func writeExport(cfg Config, path string, doc *ccb.Document) (string, error) {
	format := cfg.Format
	if format == "" {
		format = export.JSON
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(cfg.OutputDir, stem+format.Ext())
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return "", err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	if err := export.Encode(f, format, doc); err != nil {
		f.Close()
		return "", err
	}
	return outPath, f.Close()
}
