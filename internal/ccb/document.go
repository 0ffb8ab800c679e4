// Package ccb decodes CopperCube documents (.ccbjs, .ccbz, .ccp) into
// scenes, scene nodes, meshes, skeletal animation data and behaviour
// records. Decoding is a single synchronous pass over a resident
// buffer; meshes, textures and scripts are handed to caller-supplied
// collaborators.
package ccb

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// UpdateMode is how often the runtime redraws the scene.
type UpdateMode int

const (
	RedrawEveryFrame UpdateMode = iota
	RedrawWhenCameraMoved
)

func (m UpdateMode) String() string {
	switch m {
	case RedrawEveryFrame:
		return "every-frame"
	case RedrawWhenCameraMoved:
		return "when-camera-moved"
	default:
		return fmt.Sprintf("update-mode(%d)", int(m))
	}
}

func (m UpdateMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

type Document struct {
	Version int32
	// DeclaredLength is the total length stored in the file header. It
	// is informational; chunk lengths drive the parse.
	DeclaredLength          uint32
	CurrentSceneIndex       int32
	ApplicationTitle        string
	TargetPlatform          int32
	CanvasWidth             int32
	CanvasHeight            int32
	UpdateMode              UpdateMode
	WaitUntilTexturesLoaded bool
	LoadingScreenColor      uint32
	Scenes                  []*Scene
	Cursor                  CursorControl `json:"-"`
}

// CurrentScene returns the scene selected by CurrentSceneIndex, or nil.
func (d *Document) CurrentScene() *Scene {
	i := int(d.CurrentSceneIndex)
	if i < 0 || i >= len(d.Scenes) {
		return nil
	}
	return d.Scenes[i]
}

// SceneByName returns the first scene with the given name, or nil.
func (d *Document) SceneByName(name string) *Scene {
	for _, s := range d.Scenes {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// SceneKind is the i32 scene type stored before a scene's body.
type SceneKind int32

const (
	SceneFree     SceneKind = 0
	ScenePanorama SceneKind = 1
)

func (k SceneKind) String() string {
	switch k {
	case SceneFree:
		return "free"
	case ScenePanorama:
		return "panorama"
	default:
		return fmt.Sprintf("scene-kind(%d)", int32(k))
	}
}

func (k SceneKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

type Fog struct {
	Enabled bool
	Color   uint32
	Density float32
}

type Wind struct {
	Enabled  bool
	Speed    float32
	Strength float32
}

type Shadow struct {
	Enabled      bool
	Bias         float32
	Resolution   int32
	DetailFactor float32
}

type Scene struct {
	Kind                SceneKind
	Name                string
	BackgroundColor     uint32
	Root                *SceneNode
	AmbientLight        ColorF
	Fog                 Fog
	Wind                Wind
	Shadow              Shadow
	Gravity             mgl32.Vec3
	DefaultCameraPos    mgl32.Vec3
	DefaultCameraTarget mgl32.Vec3
}

// DefaultGravity applies when a scene does not store its own.
var DefaultGravity = mgl32.Vec3{0, -1.0, 0}

// NewScene returns an empty scene with a fresh root node.
func NewScene(kind SceneKind) *Scene {
	return &Scene{Kind: kind, Root: NewRootNode(), Gravity: DefaultGravity}
}

// Nodes returns every node below the root in depth-first order.
func (s *Scene) Nodes() []*SceneNode {
	var out []*SceneNode
	for _, c := range s.Root.Children {
		c.Walk(func(n *SceneNode) { out = append(out, n) })
	}
	return out
}
