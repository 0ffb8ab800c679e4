package ccb

// nodeDecoders reads the type body chunk of each known node type.
var nodeDecoders = map[NodeType]func(*decoder) (NodeBody, error){
	NodeMesh:           (*decoder).readMeshNodeBody,
	NodeSkyBox:         (*decoder).readMeshNodeBody,
	NodeTerrain:        (*decoder).readMeshNodeBody,
	NodeAnimatedMesh:   (*decoder).readAnimatedMeshBody,
	NodeCamera:         (*decoder).readCameraBody,
	NodeLight:          (*decoder).readLightBody,
	NodeBillboard:      (*decoder).readBillboardBody,
	NodeSound:          (*decoder).readSoundBody,
	NodePath:           (*decoder).readPathBody,
	NodeDummy:          (*decoder).readDummyBody,
	NodeOverlay2D:      (*decoder).readOverlay2DBody,
	NodeParticleSystem: (*decoder).readParticleSystemBody,
	NodeWater:          (*decoder).readWaterBody,
	NodeMobileInput:    (*decoder).readMobileInputBody,
}

func (d *decoder) readMeshNodeBody() (NodeBody, error) {
	b, err := d.readMeshNode()
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (d *decoder) readMeshNode() (*MeshBody, error) {
	c := d.cur
	b := &MeshBody{Box: d.readBox()}
	c.Bool()
	b.DoesCollision = c.Bool()
	c.Bool()
	if err := c.Err(); err != nil {
		return nil, err
	}
	err := d.eachNested(func(t tag) error {
		switch t.ID {
		case tagMesh:
			m, err := d.readMesh()
			if err != nil {
				return err
			}
			b.Mesh = m
		case tagMeshRef:
			b.MeshName = d.readString()
			if m := d.meshes.Mesh(b.MeshName); m != nil {
				b.Mesh = m.Mesh
			}
		}
		return nil
	})
	return b, err
}

// animated mesh flags
const (
	animatedCollision = 1 << 0
	animatedBlendTime = 1 << 1
)

func (d *decoder) readAnimatedMeshBody() (NodeBody, error) {
	c := d.cur
	b := &AnimatedMeshBody{Box: d.readBox()}
	c.Bool()
	c.S32()
	b.StartFrame = c.S32()
	b.EndFrame = c.S32()
	b.FramesPerSecond = c.Float32()
	c.U8()
	b.Looping = c.Bool()
	flags := c.S32()
	b.DoesCollision = flags&animatedCollision != 0
	if flags&animatedBlendTime != 0 {
		b.BlendTime = c.Float32()
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	err := d.eachNested(func(t tag) error {
		switch t.ID {
		case tagMeshName:
			b.MeshName = d.readString()
		case tagNamedAnimation:
			r := NamedAnimationRange{Name: d.readString(), Begin: c.S32(), End: c.S32(), FPS: c.Float32()}
			if err := c.Err(); err != nil {
				return err
			}
			b.NamedAnimations = append(b.NamedAnimations, r)
		}
		return nil
	})
	return b, err
}

// camera flags
const (
	cameraOrtho      = 1 << 0
	cameraAutoAspect = 1 << 1
)

func (d *decoder) readCameraBody() (NodeBody, error) {
	c := d.cur
	b := &CameraBody{
		Box:      d.readBox(),
		Target:   d.readVec3(),
		UpVector: d.readVec3(),
		Fovy:     c.Float32(),
		Aspect:   c.Float32(),
		ZNear:    c.Float32(),
		ZFar:     c.Float32(),
		Active:   c.Bool(),
	}
	flags := c.S32()
	if flags&cameraOrtho != 0 {
		b.Ortho = true
		b.OrthoWidth = c.Float32()
	}
	if flags&cameraAutoAspect != 0 {
		b.AutoAspect = c.Bool()
	}
	return b, c.Err()
}

func (d *decoder) readLightBody() (NodeBody, error) {
	c := d.cur
	b := &LightBody{
		Box:         d.readBox(),
		LightType:   c.S32(),
		Diffuse:     d.readColorF(),
		Specular:    d.readColorF(),
		Attenuation: d.readVec3(),
		Radius:      c.Float32(),
		CastShadows: c.Bool(),
	}
	if c.S32()&1 != 0 {
		b.Direction = d.readVec3()
	}
	return b, c.Err()
}

// billboard flags
const (
	billboardFixedSize    = 1 << 0
	billboardVerticalOnly = 1 << 1
)

func (d *decoder) readBillboardBody() (NodeBody, error) {
	c := d.cur
	b := &BillboardBody{Box: d.readBox(), SizeX: c.Float32(), SizeY: c.Float32()}
	flags := c.U8()
	b.FixedSize = flags&billboardFixedSize != 0
	b.VerticalOnly = flags&billboardVerticalOnly != 0
	b.ColorTop = c.U32()
	b.ColorBottom = c.U32()
	return b, c.Err()
}

func (d *decoder) readSoundBody() (NodeBody, error) {
	c := d.cur
	b := &SoundBody{
		Box:                d.readBox(),
		Sound:              d.readSoundRef(),
		MinDistance:        c.Float32(),
		MaxDistance:        c.Float32(),
		Volume:             c.Float32(),
		PlayAs2D:           c.Bool(),
		PlayMode:           c.S32(),
		DeleteWhenFinished: c.Bool(),
	}
	if c.S32()&1 != 0 {
		b.PauseMs = c.S32()
	}
	return b, c.Err()
}

func (d *decoder) readPathBody() (NodeBody, error) {
	c := d.cur
	b := &PathBody{Box: d.readBox(), Tightness: c.Float32(), Closed: c.Bool()}
	n := d.count()
	for i := 0; i < n && c.Err() == nil; i++ {
		b.Points = append(b.Points, d.readVec3())
	}
	return b, c.Err()
}

func (d *decoder) readDummyBody() (NodeBody, error) {
	b := &DummyBody{Box: d.readBox(), Transform: d.readMat4()}
	return b, d.cur.Err()
}

// overlay flags
const (
	overlayRelative       = 1 << 0
	overlayHoverTextColor = 1 << 1
)

func (d *decoder) readOverlayRect() (OverlayRect, int32) {
	c := d.cur
	flags := c.S32()
	r := OverlayRect{
		Relative: flags&overlayRelative != 0,
		X:        c.S32(),
		Y:        c.S32(),
		Width:    c.S32(),
		Height:   c.S32(),
	}
	r.RelX = c.Float32()
	r.RelY = c.Float32()
	r.RelWidth = c.Float32()
	r.RelHeight = c.Float32()
	return r, flags
}

func (d *decoder) readOverlay2DBody() (NodeBody, error) {
	c := d.cur
	rect, flags := d.readOverlayRect()
	b := &Overlay2DBody{
		Rect:            rect,
		ShowBackground:  c.Bool(),
		BackgroundColor: c.U32(),
		Texture:         d.readTextureRef(),
		HoverTexture:    d.readTextureRef(),
		RetainAspect:    c.Bool(),
		Text:            d.readString(),
		FontName:        d.readString(),
		TextColor:       c.U32(),
		Alignment:       c.S32(),
	}
	if flags&overlayHoverTextColor != 0 {
		b.HoverTextColor = c.U32()
	}
	return b, c.Err()
}

// particle system flags
const (
	particleFadeOut = 1 << 0
	particleGravity = 1 << 1
	particleScale   = 1 << 2
	particleColor   = 1 << 3
)

func (d *decoder) readParticleSystemBody() (NodeBody, error) {
	c := d.cur
	b := &ParticleSystemBody{
		Box:                d.readBox(),
		Direction:          d.readVec3(),
		MaxAngleDegrees:    c.S32(),
		EmitterType:        c.S32(),
		EmitterSize:        c.Float32(),
		MinParticlesPerSec: c.S32(),
		MaxParticlesPerSec: c.S32(),
		MinLifeMs:          c.S32(),
		MaxLifeMs:          c.S32(),
		MinSize:            c.Float32(),
		MaxSize:            c.Float32(),
		MinColor:           c.U32(),
		MaxColor:           c.U32(),
	}
	flags := c.S32()
	if flags&particleFadeOut != 0 {
		b.FadeOut = true
		b.FadeOutMs = c.S32()
	}
	if flags&particleGravity != 0 {
		b.UseGravity = true
		b.Gravity = d.readVec3()
		b.GravityTimeMs = c.S32()
	}
	if flags&particleScale != 0 {
		b.ScaleOverLifetime = true
		b.ScaleTarget = c.Float32()
	}
	if flags&particleColor != 0 {
		b.ColorOverLifetime = true
		b.TargetColor = c.U32()
	}
	return b, c.Err()
}

func (d *decoder) readWaterBody() (NodeBody, error) {
	c := d.cur
	b := &WaterBody{
		WaveLength:    c.Float32(),
		WaveSpeed:     c.Float32(),
		WaveHeight:    c.Float32(),
		WaterColor:    c.U32(),
		ColorBlend:    c.Float32(),
		WindDirection: d.readVec2(),
		WindForce:     c.Float32(),
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	m, err := d.readMeshNode()
	if err != nil {
		return nil, err
	}
	b.Box = m.Box
	b.DoesCollision = m.DoesCollision
	b.MeshName = m.MeshName
	b.Mesh = m.Mesh
	return b, nil
}

func (d *decoder) readMobileInputBody() (NodeBody, error) {
	c := d.cur
	rect, _ := d.readOverlayRect()
	b := &MobileInputBody{
		Rect:           rect,
		InputMode:      c.S32(),
		KeyCode:        c.S32(),
		Texture:        d.readTextureRef(),
		PressedTexture: d.readTextureRef(),
	}
	return b, c.Err()
}
