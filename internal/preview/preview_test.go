package preview

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/webp"
)

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{64, 64, 128, 64, 64},
		{512, 256, 128, 128, 64},
		{256, 512, 128, 64, 128},
		{1000, 1, 100, 100, 1},
	}
	for _, tt := range tests {
		w, h := Fit(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("Fit(%d, %d, %d): got %dx%d, want %dx%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestThumbnailKeepsTransparentEdgesClean(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	got := Thumbnail(src, 4)
	if got.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("bounds: got %v, want 4x2", got.Bounds())
	}
	for x := 0; x < 4; x++ {
		c := got.NRGBAAt(x, 0)
		if c.A > 1 && (c.G != 0 || c.B != 0) {
			t.Errorf("pixel %d: got %v, want pure red", x, c)
		}
	}
	if Thumbnail(src, 16) != src {
		t.Errorf("small image was rescaled")
	}
}

func TestWriteWebP(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(2, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	path := filepath.Join(t.TempDir(), "sub", "thumb.webp")
	if err := WriteWebP(path, img); err != nil {
		t.Fatalf("WriteWebP: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 3 || cfg.Height != 2 {
		t.Errorf("size: got %dx%d, want 3x2", cfg.Width, cfg.Height)
	}
}
