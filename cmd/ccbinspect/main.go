// ccbinspect decodes CopperCube documents in parallel and prints what
// each one contains.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/pflag"

	"coppercube-loader/internal/batch"
	"coppercube-loader/internal/config"
	"coppercube-loader/internal/texture"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags config.Flags
	var configFile string
	var quiet bool

	fs := pflag.NewFlagSet("ccbinspect", pflag.ContinueOnError)
	fs.StringVar(&configFile, "config", "", "path to a JSON or YAML config file")
	fs.BoolVarP(&quiet, "quiet", "q", false, "print only the totals")
	flags.AddFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ccbinspect [flags] <file or dir>...\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("no input files")
	}

	cfg, err := config.Setup(configFile, flags)
	if err != nil {
		return err
	}
	format, _ := cfg.ExportFormat()
	log := cfg.Logger(os.Stderr)

	var files []string
	for _, root := range fs.Args() {
		found, err := batch.Discover(root)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	texIndex := texture.BuildIndex(cfg.TextureDir)
	textures := texture.NewManager(texIndex)

	fmt.Printf("CopperCube document inspector\n")
	fmt.Printf("Files: %d, Workers: %d\n", len(files), cfg.Workers)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())
	if cfg.OutputDir != "" {
		fmt.Printf("Output: %s (%s)\n", cfg.OutputDir, format)
	}
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batch.Config{
		OutputDir: cfg.OutputDir,
		Format:    format,
		Textures:  textures,
		MaxDepth:  cfg.MaxDepth,
		Workers:   cfg.Workers,
		Logger:    log,
		Progress:  os.Stdout,
	}, files)
	elapsed := time.Since(start)

	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if !r.Success {
			failed++
			errors = append(errors, r)
			continue
		}
		success++
		if !quiet {
			printResult(r)
		}
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())
	fmt.Printf("Decoded: %d/%d\n", success, len(results))
	fmt.Printf("Textures referenced: %d\n", textures.Len())

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, e := range errors[:min(20, len(errors))] {
			fmt.Printf("  %s: %s\n", e.File, e.Error)
		}
	}

	if cfg.OutputDir != "" {
		manifestPath := filepath.Join(cfg.OutputDir, "manifest"+format.Ext())
		os.MkdirAll(cfg.OutputDir, 0755)
		if err := batch.WriteManifest(manifestPath, format, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", manifestPath)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func printResult(r batch.Result) {
	s := r.Summary
	fmt.Printf("%s  v%d  %d bytes  blake3:%s\n", s.File, s.Version, s.Bytes, s.Digest[:16])
	if s.Title != "" {
		fmt.Printf("  title: %q\n", s.Title)
	}
	for i, sc := range s.Scenes {
		marker := " "
		if r.Document != nil && int(r.Document.CurrentSceneIndex) == i {
			marker = "*"
		}
		fmt.Printf(" %s scene %d %q (%s): %d nodes, %d animators, %d actions\n",
			marker, i, sc.Name, sc.Kind, sc.Nodes, sc.Animators, sc.Actions)
		types := make([]string, 0, len(sc.ByType))
		for t := range sc.ByType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("      %-16s %d\n", t, sc.ByType[t])
		}
	}
	for _, m := range s.Meshes {
		state := "static"
		switch {
		case !m.Loaded:
			state = "missing payload"
		case m.Animated:
			state = fmt.Sprintf("%d joints, %.0f frames at %.0f fps", m.Joints, m.LastFrame, m.FPS)
		}
		fmt.Printf("  mesh %q: %d buffers, %d vertices, %s, bind box %v..%v\n",
			m.Name, m.Buffers, m.Vertices, state, m.BindMin, m.BindMax)
	}
	for _, name := range s.Scripts {
		fmt.Printf("  script %q\n", name)
	}
	if r.Output != "" {
		fmt.Printf("  -> %s\n", r.Output)
	}
}
