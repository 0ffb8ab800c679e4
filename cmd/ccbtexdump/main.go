// ccbtexdump writes a WebP thumbnail of every texture the given
// CopperCube documents reference.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"coppercube-loader/internal/batch"
	"coppercube-loader/internal/config"
	"coppercube-loader/internal/preview"
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

	fs := pflag.NewFlagSet("ccbtexdump", pflag.ContinueOnError)
	fs.StringVar(&configFile, "config", "", "path to a JSON or YAML config file")
	flags.AddFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ccbtexdump [flags] -o <dir> <file or dir>...\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	cfg, err := config.Setup(configFile, flags)
	if err != nil {
		return err
	}
	if fs.NArg() == 0 || cfg.OutputDir == "" {
		fs.Usage()
		return fmt.Errorf("need an output directory and at least one input")
	}

	var files []string
	for _, root := range fs.Args() {
		found, err := batch.Discover(root)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}

	textures := texture.NewManager(texture.BuildIndex(cfg.TextureDir))
	results := batch.Run(batch.Config{
		Textures: textures,
		MaxDepth: cfg.MaxDepth,
		Workers:  cfg.Workers,
		Logger:   cfg.Logger(os.Stderr),
	}, files)
	for _, r := range results {
		if !r.Success {
			fmt.Printf("ERR %s: %s\n", r.File, r.Error)
		}
	}

	written, missing := 0, 0
	used := map[string]int{}
	for _, e := range textures.Entries() {
		img, err := e.Image()
		if err != nil {
			fmt.Printf("ERR %s: %v\n", e.Path(), err)
			missing++
			continue
		}
		thumb := preview.Thumbnail(img, cfg.PreviewSize)

		base := filepath.Base(filepath.ToSlash(e.Path()))
		name := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
		if n := used[name]; n > 0 {
			used[name]++
			name = fmt.Sprintf("%s_%d", name, n)
		} else {
			used[name] = 1
		}
		out := filepath.Join(cfg.OutputDir, name+".webp")
		if err := preview.WriteWebP(out, thumb); err != nil {
			return err
		}
		b := img.Bounds()
		tb := thumb.Bounds()
		fmt.Printf("OK  %s -> %s  (%dx%d -> %dx%d)\n", e.Path(), out, b.Dx(), b.Dy(), tb.Dx(), tb.Dy())
		written++
	}

	fmt.Printf("Textures: %d written, %d missing\n", written, missing)
	return nil
}
