// Package skeleton derives joint transforms from a parent-linked joint
// list.
package skeleton

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// GlobalMatrices chains each joint's local matrix with its parent's
// global matrix. parents[i] must be -1 or the index of an earlier
// joint.
func GlobalMatrices(parents []int, locals []mgl32.Mat4) ([]mgl32.Mat4, error) {
	if len(parents) != len(locals) {
		return nil, fmt.Errorf("skeleton: %d parent links for %d joints", len(parents), len(locals))
	}
	globals := make([]mgl32.Mat4, len(locals))
	for i, local := range locals {
		p := parents[i]
		switch {
		case p < 0:
			globals[i] = local
		case p < i:
			globals[i] = globals[p].Mul4(local)
		default:
			return nil, fmt.Errorf("skeleton: joint %d links to later joint %d", i, p)
		}
	}
	return globals, nil
}

// IsIdentity reports whether every matrix is the identity, in which
// case skinning leaves vertices unchanged.
func IsIdentity(ms []mgl32.Mat4) bool {
	ident := mgl32.Ident4()
	for _, m := range ms {
		if !m.ApproxEqual(ident) {
			return false
		}
	}
	return true
}

// SkinPositions transforms rest-pose positions by the weighted sum of
// their joints' skinning matrices. weights[v] lists (joint, strength)
// pairs for vertex v; vertices without weights are copied unchanged.
func SkinPositions(rest []mgl32.Vec3, weights [][]Influence, skin []mgl32.Mat4) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(rest))
	for v, p := range rest {
		if v >= len(weights) || len(weights[v]) == 0 {
			out[v] = p
			continue
		}
		var acc mgl32.Vec3
		for _, inf := range weights[v] {
			if inf.Joint < 0 || inf.Joint >= len(skin) {
				continue
			}
			acc = acc.Add(mgl32.TransformCoordinate(p, skin[inf.Joint]).Mul(inf.Strength))
		}
		out[v] = acc
	}
	return out
}

// Influence is one joint's share of a vertex.
type Influence struct {
	Joint    int
	Strength float32
}
