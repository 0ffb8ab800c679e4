package ccb

import (
	"fmt"
)

// Decode parses a complete document buffer. data must already be
// preprocessed (see Preprocess). On a fatal format error no document
// is returned.
func Decode(data []byte, opts Options) (*Document, error) {
	if opts.Mode == MergeReloadScene && opts.ExistingScene == nil {
		return nil, fmt.Errorf("ccb: reload requires an existing scene")
	}
	d := newDecoder(data, opts)
	if err := d.run(); err != nil {
		return nil, err
	}
	return d.doc, nil
}

// LoadFile preprocesses and decodes a document. When
// copyRootNodeChildren is set the top level nodes of each scene are
// appended to newRootNodeChildrenParent instead of the scene root.
func LoadFile(data []byte, filename string, textures TextureManager, meshes MeshCache, cursor CursorControl,
	copyRootNodeChildren bool, newRootNodeChildrenParent *SceneNode) (*Document, error) {
	raw, err := Preprocess(filename, data)
	if err != nil {
		return nil, err
	}
	opts := Options{
		Filename: filename,
		Textures: textures,
		Meshes:   meshes,
		Cursor:   cursor,
	}
	if copyRootNodeChildren {
		opts.Mode = MergeGraftChildren
		opts.GraftParent = newRootNodeChildrenParent
	}
	return Decode(raw, opts)
}

// ReloadScene decodes only the sceneIndex-th scene of a document into
// scene, replacing its nodes. Meshes already present in the cache are
// reused as-is.
func ReloadScene(data []byte, scene *Scene, sceneIndex int, filename string, textures TextureManager,
	meshes MeshCache, cursor CursorControl) (*Scene, error) {
	if scene == nil {
		return nil, fmt.Errorf("ccb: reload requires an existing scene")
	}
	raw, err := Preprocess(filename, data)
	if err != nil {
		return nil, err
	}
	d := newDecoder(raw, Options{
		Filename:      filename,
		Textures:      textures,
		Meshes:        meshes,
		Cursor:        cursor,
		Mode:          MergeReloadScene,
		ExistingScene: scene,
		SceneIndex:    sceneIndex,
	})
	if err := d.run(); err != nil {
		return nil, err
	}
	if !d.reloaded {
		return nil, fmt.Errorf("%w: %d", ErrSceneNotFound, sceneIndex)
	}
	return scene, nil
}

func (d *decoder) run() error {
	c := d.cur
	if c.Len() < 12 {
		return &FormatError{Offset: 0, Err: ErrShortHeader}
	}
	if c.S32() != Magic {
		return &FormatError{Offset: 0, Err: ErrBadMagic}
	}
	d.doc.Version = c.S32()
	d.doc.DeclaredLength = c.U32()

	first := true
	for c.BytesAvailable() > 0 {
		t, err := d.readTag()
		if err != nil {
			if first {
				return &FormatError{Offset: c.Tell(), Err: ErrShortHeader}
			}
			d.log.Debug("trailing bytes after last chunk", "offset", c.Tell())
			break
		}
		if first && t.ID != tagDocument {
			return &FormatError{Offset: t.Start - tagHeaderSize, Err: ErrFirstTag}
		}
		first = false
		err = d.within(t, func() error {
			switch t.ID {
			case tagDocument:
				return d.readDocument(t)
			case tagEmbeddedFiles:
				return d.readEmbeddedFiles(t)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) readDocument(t tag) error {
	return d.eachTag(t.End, func(t tag) error {
		switch t.ID {
		case tagCurrentScene:
			idx := d.cur.S32()
			if err := d.cur.Err(); err != nil {
				return err
			}
			d.doc.CurrentSceneIndex = idx
		case tagPublishSettings:
			return d.readPublishSettings()
		case tagScene:
			return d.readScene(t)
		}
		return nil
	})
}

// publish settings flags
const (
	publishWaitForTextures    = 1 << 0
	publishRedrawOnCameraMove = 1 << 1
	publishLoadingScreenColor = 1 << 2
)

func (d *decoder) readPublishSettings() error {
	c := d.cur
	platform := c.S32()
	title := d.readString()
	width := c.S32()
	height := c.S32()
	flags := c.U32()
	var loadingColor uint32
	if flags&publishLoadingScreenColor != 0 {
		loadingColor = c.U32()
	}
	if err := c.Err(); err != nil {
		return err
	}

	doc := d.doc
	doc.TargetPlatform = platform
	doc.ApplicationTitle = title
	doc.CanvasWidth = width
	doc.CanvasHeight = height
	doc.WaitUntilTexturesLoaded = flags&publishWaitForTextures != 0
	if flags&publishRedrawOnCameraMove != 0 {
		doc.UpdateMode = RedrawWhenCameraMoved
	}
	doc.LoadingScreenColor = loadingColor
	return nil
}

func (d *decoder) readScene(t tag) error {
	kind := SceneKind(d.cur.S32())
	if err := d.cur.Err(); err != nil {
		return err
	}
	index := d.sceneCount
	d.sceneCount++
	if kind != SceneFree && kind != ScenePanorama {
		d.log.Debug("unknown scene type skipped", "kind", int32(kind), "index", index)
		return nil
	}

	var scene *Scene
	if d.opts.Mode == MergeReloadScene {
		if index != d.opts.SceneIndex {
			return nil
		}
		scene = d.opts.ExistingScene
		scene.Kind = kind
		if scene.Root == nil {
			scene.Root = NewRootNode()
		}
		// The reloaded scene starts over from the stored state only.
		scene.Root.Children = nil
		scene.Root.Animators = nil
		scene.Root.Materials = nil
		scene.Fog, scene.Wind, scene.Shadow = Fog{}, Wind{}, Shadow{}
		scene.Gravity = DefaultGravity
		d.reloaded = true
	} else {
		scene = NewScene(kind)
		d.doc.Scenes = append(d.doc.Scenes, scene)
	}

	return d.eachTag(t.End, func(t tag) error {
		switch t.ID {
		case tagSceneAttributes:
			return d.readSceneAttributes(scene)
		case tagDefaultCamera:
			pos, target := d.readVec3(), d.readVec3()
			if err := d.cur.Err(); err != nil {
				return err
			}
			scene.DefaultCameraPos = pos
			scene.DefaultCameraTarget = target
		case tagSceneGraph:
			return d.readSceneGraph(scene, t)
		}
		return nil
	})
}

// scene attribute flags
const (
	sceneHasFog     = 1 << 0
	sceneHasWind    = 1 << 1
	sceneHasShadows = 1 << 2
	sceneHasGravity = 1 << 3
)

// readSceneAttributes reads the name and background color, then the
// optional environment block older writers leave out.
func (d *decoder) readSceneAttributes(s *Scene) error {
	c := d.cur
	name := d.readString()
	bg := c.U32()
	if err := c.Err(); err != nil {
		return err
	}
	s.Name = name
	s.BackgroundColor = bg
	if c.Tell() >= c.Limit() {
		return nil
	}

	flags := c.U32()
	var fog Fog
	var wind Wind
	var shadow Shadow
	gravity := s.Gravity
	if flags&sceneHasFog != 0 {
		fog = Fog{Enabled: true, Color: c.U32(), Density: c.Float32()}
	}
	if flags&sceneHasWind != 0 {
		wind = Wind{Enabled: true, Speed: c.Float32(), Strength: c.Float32()}
	}
	if flags&sceneHasShadows != 0 {
		shadow = Shadow{Enabled: true, Bias: c.Float32(), Resolution: c.S32(), DetailFactor: c.Float32()}
	}
	if flags&sceneHasGravity != 0 {
		gravity = d.readVec3()
	}
	if err := c.Err(); err != nil {
		return err
	}
	s.Fog, s.Wind, s.Shadow, s.Gravity = fog, wind, shadow, gravity
	return nil
}

func (d *decoder) readSceneGraph(s *Scene, t tag) error {
	parent := s.Root
	if d.grafting() {
		parent = d.opts.GraftParent
	}
	return d.eachTag(t.End, func(t tag) error {
		if t.ID != tagNode {
			return nil
		}
		return d.readSceneNode(s, parent, 0)
	})
}
