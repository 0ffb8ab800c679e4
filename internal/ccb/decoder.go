package ccb

import (
	"log/slog"
	"path"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"coppercube-loader/internal/binstream"
)

// DefaultMaxDepth bounds scene node nesting and action handler
// nesting.
const DefaultMaxDepth = 64

// maxStringLen is the largest string length accepted; longer
// prefixes decode as the empty string.
const maxStringLen = 100 * 1024 * 1024

// MergeMode selects how decoded scenes are connected to existing ones.
type MergeMode int

const (
	// MergeNone builds a fresh Document.
	MergeNone MergeMode = iota
	// MergeGraftChildren appends the top level nodes of every scene to
	// Options.GraftParent instead of the scene's own root.
	MergeGraftChildren
	// MergeReloadScene decodes only scene Options.SceneIndex, into
	// Options.ExistingScene.
	MergeReloadScene
)

// Options configures Decode. Every collaborator is optional.
type Options struct {
	// Filename is used for texture path resolution. Documents named
	// *.ccp resolve texture references as-is.
	Filename string

	Textures  TextureManager
	Meshes    MeshCache
	Cursor    CursorControl
	Scripts   ScriptHost
	Finalizer Finalizer
	Extension Extension
	Logger    *slog.Logger

	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int

	Mode          MergeMode
	GraftParent   *SceneNode
	ExistingScene *Scene
	SceneIndex    int
}

type decoder struct {
	cur      *binstream.Cursor
	opts     Options
	log      *slog.Logger
	meshes   MeshCache
	doc      *Document
	pathRoot string
	rawPaths bool
	maxDepth int

	// handlerDepth counts action handler sections currently open.
	handlerDepth int
	sceneCount   int
	reloaded     bool
}

func newDecoder(data []byte, opts Options) *decoder {
	d := &decoder{
		cur:      binstream.New(data),
		opts:     opts,
		log:      opts.Logger,
		meshes:   opts.Meshes,
		doc:      &Document{CurrentSceneIndex: 0, Cursor: opts.Cursor},
		maxDepth: opts.MaxDepth,
	}
	if d.log == nil {
		d.log = slog.New(slog.DiscardHandler)
	}
	if d.meshes == nil {
		d.meshes = make(mapCache)
	}
	if d.maxDepth <= 0 {
		d.maxDepth = DefaultMaxDepth
	}
	d.rawPaths = strings.EqualFold(path.Ext(opts.Filename), ".ccp")
	if !d.rawPaths {
		d.pathRoot = PathRoot(opts.Filename)
	}
	return d
}

// PathRoot returns the directory part of filename including the
// trailing slash, or "" when filename has no directory.
func PathRoot(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	if i := strings.LastIndex(filename, "/"); i >= 0 {
		return filename[:i+1]
	}
	return ""
}

func (d *decoder) grafting() bool {
	return d.opts.Mode == MergeGraftChildren && d.opts.GraftParent != nil
}

// readString reads a u32 length prefixed UTF-8 string.
func (d *decoder) readString() string {
	n := d.cur.U32()
	if n == 0 || n > maxStringLen {
		return ""
	}
	return d.cur.UTF8String(int(n))
}

func (d *decoder) readVec2() mgl32.Vec2 {
	return mgl32.Vec2{d.cur.Float32(), d.cur.Float32()}
}

func (d *decoder) readVec3() mgl32.Vec3 {
	return mgl32.Vec3{d.cur.Float32(), d.cur.Float32(), d.cur.Float32()}
}

func (d *decoder) readColorF() ColorF {
	return ColorF{R: d.cur.Float32(), G: d.cur.Float32(), B: d.cur.Float32(), A: d.cur.Float32()}
}

func (d *decoder) readBox() Box3D {
	return Box3D{Min: d.readVec3(), Max: d.readVec3()}
}

func (d *decoder) readMat4() mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = d.cur.Float32()
	}
	return m
}

// readQuat reads x, y, z, w.
func (d *decoder) readQuat() mgl32.Quat {
	v := d.readVec3()
	return mgl32.Quat{V: v, W: d.cur.Float32()}
}

// resolvePath maps a file reference stored in the document to the path
// handed to collaborators.
func (d *decoder) resolvePath(ref string) string {
	if ref == "" || d.rawPaths {
		return ref
	}
	return d.pathRoot + ref
}

// readTextureRef reads a file reference and turns it into a texture
// handle. An empty reference is no texture.
func (d *decoder) readTextureRef() Texture {
	ref := d.readString()
	if ref == "" {
		return nil
	}
	p := d.resolvePath(ref)
	if d.opts.Textures != nil {
		return d.opts.Textures.GetTexture(p)
	}
	return TexturePath(p)
}

// readSoundRef reads a sound file reference as a resolved path.
func (d *decoder) readSoundRef() string {
	return d.resolvePath(d.readString())
}

// mapCache is the MeshCache used when the caller supplies none.
type mapCache map[string]*SkinnedMesh

func (c mapCache) Mesh(name string) *SkinnedMesh { return c[name] }
func (c mapCache) AddMesh(m *SkinnedMesh)        { c[m.Name] = m }
