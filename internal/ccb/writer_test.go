package ccb

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// writer builds synthetic documents chunk by chunk.
type writer struct {
	b []byte
}

func (w *writer) u8(v uint8)    { w.b = append(w.b, v) }
func (w *writer) u16(v uint16)  { w.b = binary.LittleEndian.AppendUint16(w.b, v) }
func (w *writer) u32(v uint32)  { w.b = binary.LittleEndian.AppendUint32(w.b, v) }
func (w *writer) i16(v int16)   { w.u16(uint16(v)) }
func (w *writer) i32(v int32)   { w.u32(uint32(v)) }
func (w *writer) f32(v float32) { w.u32(math.Float32bits(v)) }
func (w *writer) raw(b []byte)  { w.b = append(w.b, b...) }

func (w *writer) boolean(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.b = append(w.b, s...)
}

func (w *writer) vec2(v mgl32.Vec2) {
	w.f32(v[0])
	w.f32(v[1])
}

func (w *writer) vec3(v mgl32.Vec3) {
	for _, f := range v {
		w.f32(f)
	}
}

func (w *writer) box(lo, hi mgl32.Vec3) {
	w.vec3(lo)
	w.vec3(hi)
}

func (w *writer) mat4(m mgl32.Mat4) {
	for _, f := range m {
		w.f32(f)
	}
}

func (w *writer) colorF(c ColorF) {
	w.f32(c.R)
	w.f32(c.G)
	w.f32(c.B)
	w.f32(c.A)
}

// chunk writes a tag header whose length covers exactly what body
// writes.
func (w *writer) chunk(id uint16, body func(w *writer)) {
	inner := &writer{}
	if body != nil {
		body(inner)
	}
	w.u16(id)
	w.u32(uint32(len(inner.b)))
	w.raw(inner.b)
}

// chunkLen writes a tag header with a declared length that may differ
// from what body writes.
func (w *writer) chunkLen(id uint16, length uint32, body func(w *writer)) {
	w.u16(id)
	w.u32(length)
	if body != nil {
		body(w)
	}
}

// document wraps top level chunks in a file header.
func document(body func(w *writer)) []byte {
	w := &writer{}
	w.i32(Magic)
	w.i32(1)
	w.u32(0)
	body(w)
	binary.LittleEndian.PutUint32(w.b[8:], uint32(len(w.b)))
	return w.b
}

// singleScene is a document holding one free scene.
func singleScene(name string, graph func(w *writer)) []byte {
	return document(func(w *writer) {
		w.chunk(tagDocument, func(w *writer) {
			scene(w, name, graph)
		})
	})
}

func scene(w *writer, name string, graph func(w *writer)) {
	w.chunk(tagScene, func(w *writer) {
		w.i32(int32(SceneFree))
		w.chunk(tagSceneAttributes, func(w *writer) {
			w.str(name)
			w.u32(0xff000000)
		})
		w.chunk(tagSceneGraph, graph)
	})
}

func nodeHeader(w *writer, typ NodeType, id int32, name string) {
	w.u32(uint32(typ))
	w.i32(id)
	w.str(name)
	w.vec3(mgl32.Vec3{})
	w.vec3(mgl32.Vec3{})
	w.vec3(mgl32.Vec3{1, 1, 1})
	w.boolean(true)
	w.i32(0)
}

// rootNode writes the depth 0 node chunk of a scene graph.
func rootNode(w *writer, children func(w *writer)) {
	w.chunk(tagNode, func(w *writer) {
		nodeHeader(w, NodeRoot, -1, "root")
		w.chunk(tagNodeBody, func(w *writer) {
			w.colorF(ColorF{R: 0.25, G: 0.5, B: 0.75, A: 1})
		})
		if children != nil {
			children(w)
		}
	})
}

func dummyNode(w *writer, id int32, name string, extra func(w *writer)) {
	w.chunk(tagNode, func(w *writer) {
		nodeHeader(w, NodeDummy, id, name)
		w.chunk(tagNodeBody, func(w *writer) {
			w.box(mgl32.Vec3{}, mgl32.Vec3{})
			w.mat4(mgl32.Ident4())
		})
		if extra != nil {
			extra(w)
		}
	})
}

func animatedMeshNode(w *writer, id int32, mesh string, start, end int32) {
	w.chunk(tagNode, func(w *writer) {
		nodeHeader(w, NodeAnimatedMesh, id, "anim")
		w.chunk(tagNodeBody, func(w *writer) {
			w.box(mgl32.Vec3{}, mgl32.Vec3{})
			w.boolean(false)
			w.i32(0)
			w.i32(start)
			w.i32(end)
			w.f32(30)
			w.u8(0)
			w.boolean(true)
			w.i32(0)
			w.chunk(tagMeshName, func(w *writer) { w.str(mesh) })
		})
	})
}

// handler writes an action handler section holding the given actions,
// each written as code followed by its payload.
func handler(w *writer, actions ...func(w *writer)) {
	w.i32(1)
	w.chunk(tagActionHandler, func(w *writer) {
		for _, a := range actions {
			w.chunk(tagAction, a)
		}
	})
}

func noHandler(w *writer) { w.i32(0) }

func onClick(w *writer, actions ...func(w *writer)) {
	w.chunk(tagAnimator, func(w *writer) {
		w.i32(106)
		w.boolean(false)
		w.boolean(true)
		w.i32(0)
		handler(w, actions...)
	})
}

// material writes a material record with the given first two texture
// files.
func material(w *writer, tex1, tex2 string) {
	w.i32(2)
	for i := 0; i < 4; i++ {
		w.u32(0xffffffff)
	}
	w.f32(0)
	w.f32(0.5)
	w.f32(0.25)
	w.f32(1)
	w.boolean(false)
	w.boolean(true)
	w.boolean(true)
	w.boolean(true)
	w.u8(0)
	w.boolean(true)
	w.raw([]byte{0, 0, 0})
	for i, tex := range []string{tex1, tex2, "", ""} {
		w.str(tex)
		w.raw([]byte{0, 0, 0})
		if i == 0 {
			w.i16(1)
		} else {
			w.i16(0)
		}
	}
}

// meshBuffer writes a buffer with three standard vertices and one
// triangle.
func meshBuffer(w *writer) {
	w.chunk(tagMeshBuffer, func(w *writer) {
		w.box(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
		w.chunk(tagVertices, func(w *writer) {
			for i := 0; i < 3; i++ {
				w.vec3(mgl32.Vec3{float32(i), 0, 0})
				w.vec3(mgl32.Vec3{0, 1, 0})
				w.u32(0xffffffff)
				w.vec2(mgl32.Vec2{0, 0})
			}
		})
		w.chunk(tagIndices, func(w *writer) {
			w.u16(0)
			w.u16(1)
			w.u16(2)
		})
	})
}

// skinnedPayload is one joint with a single position key at lastFrame
// weighted to vertex vertex of buffer 0.
func skinnedPayload(w *writer, lastFrame float32, vertex int32) {
	w.i32(0)
	w.f32(25)
	w.chunk(tagJoint, func(w *writer) {
		w.str("hip")
		w.mat4(mgl32.Translate3D(0, 1, 0))
		w.mat4(mgl32.Ident4())
		w.i32(-1)
		w.i32(0)
		w.i32(1)
		w.f32(lastFrame)
		w.vec3(mgl32.Vec3{0, 2, 0})
		w.i32(0)
		w.i32(0)
		w.i32(1)
		w.u16(0)
		w.i32(vertex)
		w.f32(1)
	})
	meshBuffer(w)
}

func embeddedMesh(w *writer, name string, lastFrame float32, vertex int32) {
	w.chunk(tagEmbeddedFiles, func(w *writer) {
		w.chunk(tagEmbeddedFile, func(w *writer) {
			w.i32(embeddedSkinnedMesh)
			w.str(name)
			w.i32(0)
			skinnedPayload(w, lastFrame, vertex)
		})
	})
}
