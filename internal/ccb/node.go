package ccb

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeType is the 32-bit type code in a scene node header. Known codes
// are little-endian FourCCs.
type NodeType uint32

const (
	NodeRoot           NodeType = 0
	NodeMesh           NodeType = 0x68736d66 // "fmsh"
	NodeAnimatedMesh   NodeType = 0x6d6e6166 // "fanm"
	NodeSkyBox         NodeType = 0x796b7366 // "fsky"
	NodeCamera         NodeType = 0x6d616366 // "fcam"
	NodeLight          NodeType = 0x68676c66 // "flgh"
	NodeBillboard      NodeType = 0x6c6c6266 // "fbll"
	NodeSound          NodeType = 0x73643366 // "f3ds"
	NodePath           NodeType = 0x68747066 // "fpth"
	NodeDummy          NodeType = 0x74796466 // "fdyt"
	NodeOverlay2D      NodeType = 0x6f643266 // "f2do"
	NodeParticleSystem NodeType = 0x63747066 // "fptc"
	NodeTerrain        NodeType = 0x72727466 // "ftrr"
	NodeWater          NodeType = 0x72747766 // "fwtr"
	NodeMobileInput    NodeType = 0x70696d66 // "fmip"
)

var nodeTypeNames = map[NodeType]string{
	NodeRoot:           "root",
	NodeMesh:           "mesh",
	NodeAnimatedMesh:   "animated-mesh",
	NodeSkyBox:         "skybox",
	NodeCamera:         "camera",
	NodeLight:          "light",
	NodeBillboard:      "billboard",
	NodeSound:          "sound",
	NodePath:           "path",
	NodeDummy:          "dummy",
	NodeOverlay2D:      "overlay2d",
	NodeParticleSystem: "particle-system",
	NodeTerrain:        "terrain",
	NodeWater:          "water",
	NodeMobileInput:    "mobile-input",
}

func (t NodeType) String() string {
	if name, ok := nodeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%#08x)", uint32(t))
}

// MarshalText renders the type name in exported documents.
func (t NodeType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// SceneNode is one node of a scene tree. A parent owns its children.
type SceneNode struct {
	Type      NodeType
	ID        int32
	Name      string
	Position  mgl32.Vec3
	Rotation  mgl32.Vec3
	Scale     mgl32.Vec3
	Visible   bool
	Culling   int32
	Children  []*SceneNode
	Materials []Material
	Animators Animators
	Body      NodeBody `json:",omitempty"`
}

// NewRootNode returns the empty root every scene starts with.
func NewRootNode() *SceneNode {
	return &SceneNode{Type: NodeRoot, ID: -1, Scale: mgl32.Vec3{1, 1, 1}, Visible: true}
}

// AddChild appends child to the node's children.
func (n *SceneNode) AddChild(child *SceneNode) {
	n.Children = append(n.Children, child)
}

// SetMaterial stores m at position idx, growing the list as needed.
// Nodes with an inline mesh also replace the material of the matching
// buffer. Meshes shared by name are left alone.
func (n *SceneNode) SetMaterial(idx int, m Material) {
	for len(n.Materials) <= idx {
		n.Materials = append(n.Materials, Material{})
	}
	n.Materials[idx] = m
	if mesh := n.ownedMesh(); mesh != nil && idx < len(mesh.Buffers) {
		mesh.Buffers[idx].Material = m
	}
}

// Walk visits n and every descendant depth-first, parents first.
func (n *SceneNode) Walk(fn func(*SceneNode)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindByID returns the first node in the subtree with the given id.
func (n *SceneNode) FindByID(id int32) *SceneNode {
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// ownedMesh returns the mesh stored inline in the node body, or nil when
// the node has none or refers to a cached mesh.
func (n *SceneNode) ownedMesh() *Mesh {
	switch b := n.Body.(type) {
	case *MeshBody:
		if b.MeshName == "" {
			return b.Mesh
		}
	case *WaterBody:
		if b.MeshName == "" {
			return b.Mesh
		}
	}
	return nil
}

// NodeBody is the type-specific part of a scene node.
type NodeBody interface {
	nodeBody()
}

// Box3D is an axis-aligned bounding box.
type Box3D struct {
	Min, Max mgl32.Vec3
}

// ColorF is a floating point RGBA color.
type ColorF struct {
	R, G, B, A float32
}

// MeshBody backs mesh, skybox and terrain nodes.
type MeshBody struct {
	Box           Box3D
	DoesCollision bool
	// MeshName is set when the mesh was referenced by name instead of
	// stored inline.
	MeshName string `json:",omitempty"`
	Mesh     *Mesh
}

// NamedAnimationRange is a named frame span of an animated mesh.
type NamedAnimationRange struct {
	Name       string
	Begin, End int32
	FPS        float32
}

// FrameLoop is the playback range of an animated mesh node.
type FrameLoop struct {
	Begin, End int32
}

type AnimatedMeshBody struct {
	Box             Box3D
	StartFrame      int32
	EndFrame        int32
	FramesPerSecond float32
	Looping         bool
	DoesCollision   bool
	BlendTime       float32
	MeshName        string
	Mesh            *SkinnedMesh `json:"-"`
	FrameLoop       FrameLoop
	NamedAnimations []NamedAnimationRange
}

// SetFrameLoop sets the playback range, clamped to the frames the mesh
// actually animates when that is known.
func (b *AnimatedMeshBody) SetFrameLoop(begin, end int32) {
	if begin > end {
		begin, end = end, begin
	}
	if b.Mesh != nil && b.Mesh.Animated {
		if last := b.Mesh.LastFrame(); last > 0 && float32(end) > last {
			end = int32(last)
		}
	}
	if begin < 0 {
		begin = 0
	}
	b.FrameLoop = FrameLoop{Begin: begin, End: end}
}

type CameraBody struct {
	Box        Box3D
	Target     mgl32.Vec3
	UpVector   mgl32.Vec3
	Fovy       float32
	Aspect     float32
	ZNear      float32
	ZFar       float32
	Active     bool
	Ortho      bool
	OrthoWidth float32
	AutoAspect bool
}

type LightBody struct {
	Box         Box3D
	LightType   int32
	Diffuse     ColorF
	Specular    ColorF
	Attenuation mgl32.Vec3
	Radius      float32
	CastShadows bool
	Direction   mgl32.Vec3
}

type BillboardBody struct {
	Box          Box3D
	SizeX, SizeY float32
	FixedSize    bool
	VerticalOnly bool
	ColorTop     uint32
	ColorBottom  uint32
}

type SoundBody struct {
	Box                Box3D
	Sound              string
	MinDistance        float32
	MaxDistance        float32
	Volume             float32
	PlayAs2D           bool
	PlayMode           int32
	DeleteWhenFinished bool
	PauseMs            int32
}

type PathBody struct {
	Box       Box3D
	Tightness float32
	Closed    bool
	Points    []mgl32.Vec3
}

type DummyBody struct {
	Box       Box3D
	Transform mgl32.Mat4
}

// OverlayRect places a 2D element either in pixels or as a fraction of
// the screen.
type OverlayRect struct {
	Relative                       bool
	X, Y, Width, Height            int32
	RelX, RelY, RelWidth, RelHeight float32
}

type Overlay2DBody struct {
	Rect            OverlayRect
	ShowBackground  bool
	BackgroundColor uint32
	Texture         Texture
	HoverTexture    Texture
	RetainAspect    bool
	Text            string
	FontName        string
	TextColor       uint32
	Alignment       int32
	HoverTextColor  uint32
}

type ParticleSystemBody struct {
	Box                Box3D
	Direction          mgl32.Vec3
	MaxAngleDegrees    int32
	EmitterType        int32
	EmitterSize        float32
	MinParticlesPerSec int32
	MaxParticlesPerSec int32
	MinLifeMs          int32
	MaxLifeMs          int32
	MinSize            float32
	MaxSize            float32
	MinColor           uint32
	MaxColor           uint32
	FadeOut            bool
	FadeOutMs          int32
	UseGravity         bool
	Gravity            mgl32.Vec3
	GravityTimeMs      int32
	ScaleOverLifetime  bool
	ScaleTarget        float32
	ColorOverLifetime  bool
	TargetColor        uint32
}

type WaterBody struct {
	WaveLength    float32
	WaveSpeed     float32
	WaveHeight    float32
	WaterColor    uint32
	ColorBlend    float32
	WindDirection mgl32.Vec2
	WindForce     float32
	Box           Box3D
	DoesCollision bool
	MeshName      string `json:",omitempty"`
	Mesh          *Mesh
}

type MobileInputBody struct {
	Rect           OverlayRect
	InputMode      int32
	KeyCode        int32
	Texture        Texture
	PressedTexture Texture
}

func (*MeshBody) nodeBody()           {}
func (*AnimatedMeshBody) nodeBody()   {}
func (*CameraBody) nodeBody()         {}
func (*LightBody) nodeBody()          {}
func (*BillboardBody) nodeBody()      {}
func (*SoundBody) nodeBody()          {}
func (*PathBody) nodeBody()           {}
func (*DummyBody) nodeBody()          {}
func (*Overlay2DBody) nodeBody()      {}
func (*ParticleSystemBody) nodeBody() {}
func (*WaterBody) nodeBody()          {}
func (*MobileInputBody) nodeBody()    {}
