package texture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, path string, enc func(f *os.File, img image.Image) error) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 10, B: 20, A: 128})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := enc(f, img); err != nil {
		t.Fatal(err)
	}
}

func pngEnc(f *os.File, img image.Image) error { return png.Encode(f, img) }
func bmpEnc(f *os.File, img image.Image) error { return bmp.Encode(f, img) }

func TestIndexPrefersAlpha(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a", "Wall.bmp"), bmpEnc)
	writeImage(t, filepath.Join(dir, "b", "wall.png"), pngEnc)
	writeImage(t, filepath.Join(dir, "floor.bmp"), bmpEnc)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	idx := BuildIndex(dir)
	if idx.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", idx.Len())
	}
	got, ok := idx.ResolvePath(`C:\project\textures\WALL.jpg`)
	if !ok || filepath.Ext(got) != ".png" {
		t.Errorf("ResolvePath(wall): got %q, %v, want the png", got, ok)
	}
	if _, ok := idx.ResolvePath("missing.png"); ok {
		t.Errorf("ResolvePath(missing): got ok")
	}
}

func TestManagerHandles(t *testing.T) {
	dir := t.TempDir()
	direct := filepath.Join(dir, "direct.png")
	writeImage(t, direct, pngEnc)
	writeImage(t, filepath.Join(dir, "lib", "stone.bmp"), bmpEnc)

	m := NewManager(BuildIndex(dir))
	a := m.GetTexture(direct).(*Entry)
	if m.GetTexture(direct) != a {
		t.Errorf("GetTexture: second call returned a different handle")
	}
	if a.File() != direct {
		t.Errorf("File: got %q, want %q", a.File(), direct)
	}
	img, err := a.Image()
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{R: 200, G: 10, B: 20, A: 128}) {
		t.Errorf("pixel: got %v", got)
	}

	fallback := m.GetTexture("/elsewhere/Stone.jpg").(*Entry)
	if filepath.Base(fallback.File()) != "stone.bmp" {
		t.Errorf("fallback file: got %q, want stone.bmp", fallback.File())
	}
	img, err = fallback.Image()
	if err != nil {
		t.Fatalf("fallback Image: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Errorf("bmp bounds: got %v", img.Bounds())
	}

	missing := m.GetTexture("nope.png").(*Entry)
	if _, err := missing.Image(); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing Image: got %v, want ErrNotFound", err)
	}

	if m.Len() != 3 {
		t.Errorf("Len: got %d, want 3", m.Len())
	}
	entries := m.Entries()
	if entries[0].Path() > entries[1].Path() {
		t.Errorf("Entries not sorted: %q, %q", entries[0].Path(), entries[1].Path())
	}
	if text, _ := a.MarshalText(); string(text) != direct {
		t.Errorf("MarshalText: got %q", text)
	}
}

func TestManagerConcurrent(t *testing.T) {
	m := NewManager(nil)
	var wg sync.WaitGroup
	handles := make([]*Entry, 16)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = m.GetTexture("shared.png").(*Entry)
		}(i)
	}
	wg.Wait()
	for i, h := range handles {
		if h != handles[0] {
			t.Fatalf("handle %d differs", i)
		}
	}
}
