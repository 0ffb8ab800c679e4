// ccbdump decodes one CopperCube document and writes it as JSON, YAML
// or CBOR.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"coppercube-loader/internal/ccb"
	"coppercube-loader/internal/config"
	"coppercube-loader/internal/export"
	"coppercube-loader/internal/meshcache"
	"coppercube-loader/internal/texture"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// scriptDir writes embedded scripts below a directory.
type scriptDir struct {
	dir string
	n   int
}

func (s *scriptDir) Import(name string, source []byte) error {
	s.n++
	base := filepath.Base(filepath.ToSlash(name))
	if base == "." || base == "/" || base == "" {
		base = fmt.Sprintf("script%d.js", s.n)
	}
	path := filepath.Join(s.dir, base)
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(path, source, 0644)
}

func run(args []string, stdout io.Writer) error {
	var flags config.Flags
	var configFile, sceneName, scripts string
	var summary bool

	fs := pflag.NewFlagSet("ccbdump", pflag.ContinueOnError)
	fs.StringVar(&configFile, "config", "", "path to a JSON or YAML config file")
	fs.StringVar(&sceneName, "scene", "", "export only the scene with this name")
	fs.StringVar(&scripts, "scripts", "", "write embedded scripts to this directory")
	fs.BoolVar(&summary, "summary", false, "write the file summary instead of the document")
	flags.AddFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ccbdump [flags] <file>\n\nThe document goes to stdout unless --output is set.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected one input file, got %d", fs.NArg())
	}
	path := fs.Arg(0)

	cfg, err := config.Setup(configFile, flags)
	if err != nil {
		return err
	}
	format, _ := cfg.ExportFormat()

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	data, err := ccb.Preprocess(path, raw)
	if err != nil {
		return err
	}

	meshes := meshcache.New()
	opts := ccb.Options{
		Filename: path,
		Textures: texture.NewManager(texture.BuildIndex(cfg.TextureDir)),
		Meshes:   meshes,
		Logger:   cfg.Logger(os.Stderr),
		MaxDepth: cfg.MaxDepth,
	}
	if scripts != "" {
		opts.Scripts = &scriptDir{dir: scripts}
	}
	doc, err := ccb.Decode(data, opts)
	if err != nil {
		return err
	}

	var v any = doc
	switch {
	case summary:
		v, err = export.Summarize(path, raw, doc, meshes.Meshes())
		if err != nil {
			return err
		}
	case sceneName != "":
		sc := doc.SceneByName(sceneName)
		if sc == nil {
			return fmt.Errorf("no scene named %q", sceneName)
		}
		v = sc
	}

	if cfg.OutputDir == "" {
		return export.Encode(stdout, format, v)
	}
	stem := filepath.Base(path)
	stem = stem[:len(stem)-len(filepath.Ext(stem))]
	outPath := filepath.Join(cfg.OutputDir, stem+format.Ext())
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := export.Encode(f, format, v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", outPath)
	return nil
}
