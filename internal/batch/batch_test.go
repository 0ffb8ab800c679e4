package batch

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"

	"coppercube-loader/internal/ccb"
	"coppercube-loader/internal/export"
)

func chunk(id uint16, payload []byte) []byte {
	b := binary.LittleEndian.AppendUint16(nil, id)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(payload)))
	return append(b, payload...)
}

// sceneDocument is a file with one empty free scene.
func sceneDocument(name string) []byte {
	attrs := binary.LittleEndian.AppendUint32(nil, uint32(len(name)))
	attrs = append(attrs, name...)
	attrs = binary.LittleEndian.AppendUint32(attrs, 0xff000000)

	sc := binary.LittleEndian.AppendUint32(nil, 0)
	sc = append(sc, chunk(26, attrs)...)
	sc = append(sc, chunk(8, nil)...)

	b := binary.LittleEndian.AppendUint32(nil, uint32(ccb.Magic))
	b = binary.LittleEndian.AppendUint32(b, 1)
	b = binary.LittleEndian.AppendUint32(b, 0)
	return append(b, chunk(1, chunk(2, sc))...)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.ccbz"), nil)
	writeFile(t, filepath.Join(dir, "sub", "a.CCBJS"), nil)
	writeFile(t, filepath.Join(dir, "readme.txt"), nil)

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "b.ccbz" {
		t.Errorf("files: got %v", files)
	}
	single := filepath.Join(dir, "readme.txt")
	if files, _ := Discover(single); len(files) != 1 || files[0] != single {
		t.Errorf("Discover(file): got %v", files)
	}
	if _, err := Discover(filepath.Join(dir, "missing")); err == nil {
		t.Errorf("Discover(missing): got nil error")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	zw.Write(sceneDocument("compressed"))
	zw.Close()

	files := []string{
		filepath.Join(dir, "plain.ccb"),
		filepath.Join(dir, "packed.ccbz"),
		filepath.Join(dir, "broken.ccb"),
		filepath.Join(dir, "missing.ccb"),
	}
	writeFile(t, files[0], sceneDocument("plain"))
	writeFile(t, files[1], z.Bytes())
	writeFile(t, files[2], []byte("definitely not a document"))

	results := Run(Config{OutputDir: out, Format: export.YAML, Workers: 3}, files)
	if len(results) != len(files) {
		t.Fatalf("results: got %d, want %d", len(results), len(files))
	}
	for i, want := range []string{"plain", "compressed"} {
		r := results[i]
		if !r.Success {
			t.Fatalf("%s: %s", r.File, r.Error)
		}
		if got := r.Summary.Scenes[0].Name; got != want {
			t.Errorf("%s scene: got %q, want %q", r.File, got, want)
		}
		if !strings.HasSuffix(r.Output, ".yaml") {
			t.Errorf("%s output: got %q", r.File, r.Output)
		}
		if _, err := os.Stat(r.Output); err != nil {
			t.Errorf("%s output file: %v", r.File, err)
		}
	}
	for _, r := range results[2:] {
		if r.Success || r.Error == "" {
			t.Errorf("%s: got success, want an error", r.File)
		}
	}
	if results[0].Summary.Digest == results[1].Summary.Digest {
		t.Errorf("plain and packed inputs share a digest")
	}

	manifest := filepath.Join(out, "manifest.json")
	if err := WriteManifest(manifest, export.JSON, results); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	raw, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if len(entries) != 4 || !entries[0].Success || entries[2].Success {
		t.Errorf("manifest entries: got %+v", entries)
	}
}
