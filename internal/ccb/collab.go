package ccb

import "coppercube-loader/internal/binstream"

// Texture is a handle to an image owned by a TextureManager.
type Texture interface {
	Path() string
}

// TextureManager hands out texture handles by resolved path. The
// decoder only asks for handles; loading pixels is up to the manager.
type TextureManager interface {
	GetTexture(path string) Texture
}

// TexturePath is the handle used when no TextureManager is supplied.
type TexturePath string

func (p TexturePath) Path() string { return string(p) }

// MeshCache is the name-keyed store animated meshes are shared through.
// Placeholders registered during a parse are filled in place later.
type MeshCache interface {
	Mesh(name string) *SkinnedMesh
	AddMesh(m *SkinnedMesh)
}

// CursorControl is the runtime's mouse cursor, handed through to the
// document so camera animators can be bound to it later.
type CursorControl interface {
	SetCursorVisible(visible bool)
}

// ScriptHost receives embedded script sources. Import is called
// synchronously; the next chunk is not read until it returns.
type ScriptHost interface {
	Import(name string, source []byte) error
}

// Finalizer prepares a skinned mesh for animation once all of its
// joints and buffers are read.
type Finalizer interface {
	FinalizeMesh(m *SkinnedMesh) error
}

// Extension decodes action and animator codes the built-in tables do
// not know. The cursor is bounded to the record's chunk. Returning
// false declines the record, which is then kept as raw bytes.
type Extension interface {
	DecodeAction(code int32, r *binstream.Cursor) (Action, bool, error)
	DecodeAnimator(code int32, r *binstream.Cursor) (Animator, bool, error)
}
