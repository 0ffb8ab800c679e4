package skeleton

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGlobalMatricesChain(t *testing.T) {
	locals := []mgl32.Mat4{
		mgl32.Translate3D(0, 1, 0),
		mgl32.Translate3D(0, 2, 0),
		mgl32.Translate3D(3, 0, 0),
	}
	globals, err := GlobalMatrices([]int{-1, 0, 1}, locals)
	if err != nil {
		t.Fatalf("GlobalMatrices: %v", err)
	}
	got := mgl32.TransformCoordinate(mgl32.Vec3{}, globals[2])
	if want := (mgl32.Vec3{3, 3, 0}); !got.ApproxEqual(want) {
		t.Errorf("leaf origin: got %v, want %v", got, want)
	}
}

func TestGlobalMatricesRejectsForwardLinks(t *testing.T) {
	locals := []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()}
	if _, err := GlobalMatrices([]int{1, -1}, locals); err == nil {
		t.Errorf("forward link: got nil error")
	}
	if _, err := GlobalMatrices([]int{-1, 1}, locals); err == nil {
		t.Errorf("self link: got nil error")
	}
	if _, err := GlobalMatrices([]int{-1}, locals); err == nil {
		t.Errorf("length mismatch: got nil error")
	}
}

func TestSkinPositions(t *testing.T) {
	rest := []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}}
	skin := []mgl32.Mat4{mgl32.Translate3D(0, 0, 2), mgl32.Translate3D(0, 0, 4)}
	weights := [][]Influence{
		{{Joint: 0, Strength: 0.5}, {Joint: 1, Strength: 0.5}},
	}
	out := SkinPositions(rest, weights, skin)
	if want := (mgl32.Vec3{1, 0, 3}); !out[0].ApproxEqual(want) {
		t.Errorf("blended vertex: got %v, want %v", out[0], want)
	}
	if out[1] != rest[1] {
		t.Errorf("unweighted vertex moved: got %v", out[1])
	}
	if !IsIdentity([]mgl32.Mat4{mgl32.Ident4()}) || IsIdentity(skin) {
		t.Errorf("IsIdentity misreports")
	}
}
