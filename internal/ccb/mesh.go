package ccb

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexLayout identifies which vertex chunk a buffer was read from.
type VertexLayout int

const (
	LayoutStandard VertexLayout = iota
	LayoutTwoTCoords
	LayoutTangents
)

func (l VertexLayout) String() string {
	switch l {
	case LayoutStandard:
		return "standard"
	case LayoutTwoTCoords:
		return "2tcoords"
	case LayoutTangents:
		return "tangents"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

func (l VertexLayout) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Vertex strides per layout. There is no count field; the chunk length
// divided by the stride is the vertex count.
const (
	strideStandard   = 36
	strideTwoTCoords = 44
	strideTangents   = 60
)

type Vertex struct {
	Pos      mgl32.Vec3
	Normal   mgl32.Vec3
	Color    uint32
	TCoords  mgl32.Vec2
	TCoords2 mgl32.Vec2
	Tangent  mgl32.Vec3
	Binormal mgl32.Vec3
}

// MeshBuffer is one draw batch: a vertex list, a triangle index list
// and a material.
type MeshBuffer struct {
	Box      Box3D
	Material Material
	Layout   VertexLayout
	Vertices []Vertex
	Indices  []uint16
}

type Mesh struct {
	Box     Box3D
	Buffers []*MeshBuffer
}

// readMesh reads a mesh chunk: a box followed by mesh buffer chunks.
func (d *decoder) readMesh() (*Mesh, error) {
	m := &Mesh{Box: d.readBox()}
	if err := d.cur.Err(); err != nil {
		return nil, err
	}
	err := d.eachNested(func(t tag) error {
		if t.ID != tagMeshBuffer {
			return nil
		}
		buf, err := d.readMeshBuffer()
		if err != nil {
			return err
		}
		m.Buffers = append(m.Buffers, buf)
		return nil
	})
	return m, err
}

func (d *decoder) readMeshBuffer() (*MeshBuffer, error) {
	b := &MeshBuffer{Box: d.readBox()}
	if err := d.cur.Err(); err != nil {
		return nil, err
	}
	err := d.eachNested(func(t tag) error {
		switch t.ID {
		case tagMaterial:
			m, err := d.readMaterial()
			if err != nil {
				return err
			}
			b.Material = m
		case tagIndices:
			idx, err := d.readIndices(t)
			if err != nil {
				return err
			}
			b.Indices = idx
		case tagVertices:
			return d.readVertices(b, t, LayoutStandard, strideStandard)
		case tagVertices2TCoord:
			return d.readVertices(b, t, LayoutTwoTCoords, strideTwoTCoords)
		case tagVerticesTangent:
			return d.readVertices(b, t, LayoutTangents, strideTangents)
		}
		return nil
	})
	return b, err
}

// readIndices reads u16 triangle indices and flips the winding of each
// triangle by swapping its second and third index.
func (d *decoder) readIndices(t tag) ([]uint16, error) {
	n := (t.End - t.Start) / 2
	idx := make([]uint16, n)
	for i := range idx {
		idx[i] = d.cur.U16()
	}
	if err := d.cur.Err(); err != nil {
		return nil, err
	}
	for i := 0; i+2 < n; i += 3 {
		idx[i+1], idx[i+2] = idx[i+2], idx[i+1]
	}
	return idx, nil
}

func (d *decoder) readVertices(b *MeshBuffer, t tag, layout VertexLayout, stride int) error {
	n := (t.End - t.Start) / stride
	verts := make([]Vertex, n)
	for i := range verts {
		v := &verts[i]
		v.Pos = d.readVec3()
		v.Normal = d.readVec3()
		v.Color = d.cur.U32()
		v.TCoords = d.readVec2()
		switch layout {
		case LayoutTwoTCoords:
			v.TCoords2 = d.readVec2()
		case LayoutTangents:
			v.Tangent = d.readVec3()
			v.Binormal = d.readVec3()
		}
	}
	if err := d.cur.Err(); err != nil {
		return err
	}
	b.Layout = layout
	b.Vertices = verts
	return nil
}
