package ccb

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"coppercube-loader/internal/skeleton"
)

// Embedded file flags.
const (
	embeddedSkinnedMesh = 4
	embeddedScript      = 8
)

// skinned mesh payload flags
const skinnedHasCollisionBox = 1

type PositionKey struct {
	Frame    float32
	Position mgl32.Vec3
}

type ScaleKey struct {
	Frame float32
	Scale mgl32.Vec3
}

type RotationKey struct {
	Frame    float32
	Rotation mgl32.Quat
}

// Weight binds one vertex of one buffer to a joint.
type Weight struct {
	BufferID uint16
	VertexID int32
	Strength float32
}

type Joint struct {
	Name          string
	Local         mgl32.Mat4
	GlobalInverse mgl32.Mat4
	// Parent is the index of an earlier joint, or -1.
	Parent         int
	Children       []*Joint `json:"-"`
	AttachedMeshes []int32
	PositionKeys   []PositionKey
	ScaleKeys      []ScaleKey
	RotationKeys   []RotationKey
	Weights        []Weight
	// Global is filled by the finalizer.
	Global mgl32.Mat4
}

// PendingLink is an animated mesh node waiting for its mesh payload.
type PendingLink struct {
	Node       *SceneNode
	StartFrame int32
	EndFrame   int32
}

// SkinnedMesh is an animated mesh shared by name between nodes. It is
// registered empty when first referenced and filled when its payload
// arrives in the embedded files section.
type SkinnedMesh struct {
	Name               string
	Mesh               *Mesh
	DefaultFPS         float32
	StaticCollisionBox *Box3D `json:",omitempty"`
	Joints             []*Joint
	// Loaded is set once the payload has been read.
	Loaded bool
	// Animated is false for meshes without joints and for meshes whose
	// finalizer failed.
	Animated     bool
	PendingLinks []PendingLink `json:"-"`
}

// NewPlaceholderMesh returns an empty mesh awaiting its payload.
func NewPlaceholderMesh(name string) *SkinnedMesh {
	return &SkinnedMesh{Name: name, Mesh: &Mesh{}}
}

// LastFrame is the latest key frame on any joint track.
func (m *SkinnedMesh) LastFrame() float32 {
	var last float32
	for _, j := range m.Joints {
		for _, k := range j.PositionKeys {
			last = max(last, k.Frame)
		}
		for _, k := range j.ScaleKeys {
			last = max(last, k.Frame)
		}
		for _, k := range j.RotationKeys {
			last = max(last, k.Frame)
		}
	}
	return last
}

// linkAnimatedMesh connects an animated mesh node to the shared mesh of
// that name, registering a placeholder when the mesh is not known yet.
func (d *decoder) linkAnimatedMesh(node *SceneNode, body *AnimatedMeshBody) {
	m := d.meshes.Mesh(body.MeshName)
	if m == nil {
		m = NewPlaceholderMesh(body.MeshName)
		d.meshes.AddMesh(m)
	}
	body.Mesh = m
	if !m.Loaded {
		m.PendingLinks = append(m.PendingLinks, PendingLink{Node: node, StartFrame: body.StartFrame, EndFrame: body.EndFrame})
	}
	body.SetFrameLoop(body.StartFrame, body.EndFrame)
}

func (d *decoder) readEmbeddedFiles(t tag) error {
	return d.eachTag(t.End, func(t tag) error {
		if t.ID != tagEmbeddedFile {
			return nil
		}
		return d.readEmbeddedFile()
	})
}

func (d *decoder) readEmbeddedFile() error {
	c := d.cur
	flags := c.S32()
	name := d.readString()
	size := c.S32()
	if err := c.Err(); err != nil {
		return err
	}
	switch {
	case flags&embeddedSkinnedMesh != 0:
		return d.resolveSkinnedMesh(name)
	case flags&embeddedScript != 0:
		src := c.Bytes(min(int(size), c.Limit()-c.Tell()))
		if err := c.Err(); err != nil {
			return err
		}
		if d.opts.Scripts == nil {
			return nil
		}
		if err := d.opts.Scripts.Import(name, src); err != nil {
			d.log.Warn("embedded script import failed", "name", name, "error", err)
		}
	}
	return nil
}

// resolveSkinnedMesh fills the named mesh from the payload at the
// cursor, then finalizes it and reapplies the frame loop of every node
// that was waiting for it.
func (d *decoder) resolveSkinnedMesh(name string) error {
	m := d.meshes.Mesh(name)
	if m != nil && m.Loaded {
		return nil
	}
	if m == nil {
		m = NewPlaceholderMesh(name)
		d.meshes.AddMesh(m)
	}
	if err := d.readSkinnedMesh(m); err != nil {
		return err
	}
	m.Loaded = true
	m.Animated = len(m.Joints) > 0

	fin := d.opts.Finalizer
	if fin == nil {
		fin = defaultFinalizer{}
	}
	if err := finalize(fin, m); err != nil {
		ferr := &ResourceFinalizeError{Mesh: name, Err: err}
		d.log.Warn("skinned mesh left static", "mesh", name, "error", ferr)
		m.Animated = false
	}

	for _, link := range m.PendingLinks {
		if body, ok := link.Node.Body.(*AnimatedMeshBody); ok {
			body.SetFrameLoop(link.StartFrame, link.EndFrame)
		}
	}
	m.PendingLinks = nil
	return nil
}

// finalize runs fin on m, reporting a panic as an error.
func finalize(fin Finalizer, m *SkinnedMesh) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("finalizer panic: %v", r)
		}
	}()
	return fin.FinalizeMesh(m)
}

func (d *decoder) readSkinnedMesh(m *SkinnedMesh) error {
	c := d.cur
	flags := c.S32()
	m.DefaultFPS = c.Float32()
	if flags&skinnedHasCollisionBox != 0 {
		box := d.readBox()
		m.StaticCollisionBox = &box
	}
	if err := c.Err(); err != nil {
		return err
	}

	// Build into fresh slices so a truncated payload leaves the
	// placeholder untouched.
	var joints []*Joint
	mesh := &Mesh{Box: m.Mesh.Box}
	err := d.eachNested(func(t tag) error {
		switch t.ID {
		case tagJoint:
			j, err := d.readJoint(len(joints))
			if err != nil {
				return err
			}
			if j.Parent >= 0 {
				p := joints[j.Parent]
				p.Children = append(p.Children, j)
			}
			joints = append(joints, j)
		case tagMeshBuffer:
			buf, err := d.readMeshBuffer()
			if err != nil {
				return err
			}
			mesh.Buffers = append(mesh.Buffers, buf)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i, b := range mesh.Buffers {
		if i == 0 {
			mesh.Box = b.Box
			continue
		}
		mesh.Box = growBox(mesh.Box, b.Box)
	}
	m.Joints = joints
	m.Mesh = mesh
	return nil
}

// readJoint reads one joint. loaded is the number of joints already
// read; parent indices at or beyond it are dropped.
func (d *decoder) readJoint(loaded int) (*Joint, error) {
	c := d.cur
	j := &Joint{
		Name:          d.readString(),
		Local:         d.readMat4(),
		GlobalInverse: d.readMat4(),
	}
	parent := int(c.S32())
	if parent >= 0 && parent < loaded {
		j.Parent = parent
	} else {
		j.Parent = -1
	}

	n := d.count()
	for i := 0; i < n && c.Err() == nil; i++ {
		j.AttachedMeshes = append(j.AttachedMeshes, c.S32())
	}
	n = d.count()
	for i := 0; i < n && c.Err() == nil; i++ {
		j.PositionKeys = append(j.PositionKeys, PositionKey{Frame: c.Float32(), Position: d.readVec3()})
	}
	n = d.count()
	for i := 0; i < n && c.Err() == nil; i++ {
		j.ScaleKeys = append(j.ScaleKeys, ScaleKey{Frame: c.Float32(), Scale: d.readVec3()})
	}
	n = d.count()
	for i := 0; i < n && c.Err() == nil; i++ {
		j.RotationKeys = append(j.RotationKeys, RotationKey{Frame: c.Float32(), Rotation: d.readQuat()})
	}
	n = d.count()
	for i := 0; i < n && c.Err() == nil; i++ {
		j.Weights = append(j.Weights, Weight{BufferID: c.U16(), VertexID: c.S32(), Strength: c.Float32()})
	}
	return j, c.Err()
}

// count reads an i32 element count. Negative counts are zero. Every
// element is at least one byte, so a count beyond the bytes left is
// cut to one more than fits, which still trips the sticky error.
func (d *decoder) count() int {
	n := int(d.cur.S32())
	if n < 0 || d.cur.Err() != nil {
		return 0
	}
	if left := d.cur.Limit() - d.cur.Tell(); n > left {
		n = left + 1
	}
	return n
}

func growBox(acc, b Box3D) Box3D {
	for i := 0; i < 3; i++ {
		acc.Min[i] = min(acc.Min[i], b.Min[i])
		acc.Max[i] = max(acc.Max[i], b.Max[i])
	}
	return acc
}

// defaultFinalizer computes joint global matrices and checks that every
// weight points at an existing vertex.
type defaultFinalizer struct{}

var errWeightOutOfRange = errors.New("weight references a missing vertex")

func (defaultFinalizer) FinalizeMesh(m *SkinnedMesh) error {
	if len(m.Joints) == 0 {
		return nil
	}
	parents := make([]int, len(m.Joints))
	locals := make([]mgl32.Mat4, len(m.Joints))
	for i, j := range m.Joints {
		parents[i] = j.Parent
		locals[i] = j.Local
	}
	globals, err := skeleton.GlobalMatrices(parents, locals)
	if err != nil {
		return err
	}
	for i, j := range m.Joints {
		j.Global = globals[i]
		for _, w := range j.Weights {
			if int(w.BufferID) >= len(m.Mesh.Buffers) || w.VertexID < 0 ||
				int(w.VertexID) >= len(m.Mesh.Buffers[w.BufferID].Vertices) {
				return fmt.Errorf("joint %q: %w (buffer %d, vertex %d)", j.Name, errWeightOutOfRange, w.BufferID, w.VertexID)
			}
		}
	}
	return nil
}
