package export

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"coppercube-loader/internal/ccb"
)

func sampleDocument() *ccb.Document {
	s := ccb.NewScene(ccb.SceneFree)
	s.Name = "level1"
	s.Root.Animators = ccb.Animators{&ccb.TimerAnimator{
		TickEveryMs:      100,
		TheActionHandler: &ccb.ActionHandler{Actions: []ccb.Action{&ccb.QuitApplication{}}},
	}}
	box := &ccb.SceneNode{
		Type:      ccb.NodeDummy,
		ID:        7,
		Name:      "box",
		Scale:     mgl32.Vec3{1, 1, 1},
		Visible:   true,
		Body:      &ccb.DummyBody{Transform: mgl32.Ident4()},
		Materials: []ccb.Material{{Texture1: ccb.TexturePath("tex/wall.png")}},
		Animators: ccb.Animators{&ccb.OnClickAnimator{
			TheActionHandler: &ccb.ActionHandler{Actions: []ccb.Action{
				&ccb.SetOrChangeVariable{},
				&ccb.IfVariable{TheActionHandler: &ccb.ActionHandler{Actions: []ccb.Action{&ccb.RestartScene{}}}},
			}},
		}},
	}
	s.Root.AddChild(box)
	box.AddChild(&ccb.SceneNode{Type: ccb.NodeDummy, ID: 8, Name: "child", Body: &ccb.DummyBody{}})
	return &ccb.Document{Version: 3, ApplicationTitle: "demo", Scenes: []*ccb.Scene{s}}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", JSON},
		{".YML", YAML},
		{"yaml", YAML},
		{"cbor", CBOR},
		{"", JSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q): got %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Errorf("ParseFormat(xml): got nil error")
	}
	var f Format
	if err := f.Set("yml"); err != nil || f != YAML || f.Ext() != ".yaml" {
		t.Errorf("Set(yml): got %q, %v", f, err)
	}
}

func TestFormatsShareShape(t *testing.T) {
	doc := sampleDocument()

	jsonOut, err := Marshal(JSON, doc)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var fromJSON map[string]any
	if err := json.Unmarshal(jsonOut, &fromJSON); err != nil {
		t.Fatal(err)
	}

	yamlOut, err := Marshal(YAML, doc)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromYAML map[string]any
	if err := yaml.Unmarshal(yamlOut, &fromYAML); err != nil {
		t.Fatal(err)
	}

	cborOut, err := Marshal(CBOR, doc)
	if err != nil {
		t.Fatalf("cbor: %v", err)
	}
	dm, err := cbor.DecOptions{DefaultMapType: reflect.TypeOf(map[string]any(nil))}.DecMode()
	if err != nil {
		t.Fatal(err)
	}
	var fromCBOR map[string]any
	if err := dm.Unmarshal(cborOut, &fromCBOR); err != nil {
		t.Fatal(err)
	}

	for name, m := range map[string]map[string]any{"json": fromJSON, "yaml": fromYAML, "cbor": fromCBOR} {
		if m["ApplicationTitle"] != "demo" {
			t.Errorf("%s: ApplicationTitle: got %v", name, m["ApplicationTitle"])
		}
		scenes, ok := m["Scenes"].([]any)
		if !ok || len(scenes) != 1 {
			t.Fatalf("%s: Scenes: got %v", name, m["Scenes"])
		}
		root := scenes[0].(map[string]any)["Root"].(map[string]any)
		anims := root["Animators"].([]any)
		if kind := anims[0].(map[string]any)["Kind"]; kind != "Timer" {
			t.Errorf("%s: root animator kind: got %v, want Timer", name, kind)
		}
	}

	// Deterministic CBOR: the same document encodes to the same bytes.
	again, _ := Marshal(CBOR, sampleDocument())
	if !bytes.Equal(cborOut, again) {
		t.Errorf("cbor output is not deterministic")
	}
	if !strings.HasPrefix(string(yamlOut), "ApplicationTitle: demo\n") {
		t.Errorf("yaml keys not sorted:\n%s", yamlOut)
	}
}

func TestTreeIntegers(t *testing.T) {
	tree, err := Tree(map[string]any{"id": int32(42), "f": float32(0.5)})
	if err != nil {
		t.Fatal(err)
	}
	m := tree.(map[string]any)
	if _, ok := m["id"].(int64); !ok {
		t.Errorf("id: got %T, want int64", m["id"])
	}
	if m["f"] != 0.5 {
		t.Errorf("f: got %v, want 0.5", m["f"])
	}
}

func TestNaNFails(t *testing.T) {
	doc := sampleDocument()
	doc.Scenes[0].Fog.Density = float32(math.NaN())
	for _, f := range []Format{JSON, YAML, CBOR} {
		if _, err := Marshal(f, doc); err == nil {
			t.Errorf("%s: got nil error for NaN", f)
		}
	}
}

func TestSummarize(t *testing.T) {
	raw := []byte("document bytes")
	s, err := Summarize("a.ccbz", raw, sampleDocument(), []*ccb.SkinnedMesh{ccb.NewPlaceholderMesh("hero.x")})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Digest != Digest(raw) || len(s.Digest) != 64 || s.Bytes != len(raw) {
		t.Errorf("digest: got %q (%d bytes)", s.Digest, s.Bytes)
	}
	if s.Digest == Digest([]byte("other bytes")) {
		t.Errorf("digest does not depend on content")
	}
	if len(s.Scenes) != 1 {
		t.Fatalf("scenes: got %d", len(s.Scenes))
	}
	sc := s.Scenes[0]
	if sc.Nodes != 2 || sc.ByType["dummy"] != 2 {
		t.Errorf("nodes: got %d %v, want 2 dummies", sc.Nodes, sc.ByType)
	}
	if sc.Animators != 2 || sc.Actions != 4 {
		t.Errorf("behaviour: got %d animators %d actions, want 2 and 4", sc.Animators, sc.Actions)
	}
	if len(s.Textures) != 1 || s.Textures[0] != "tex/wall.png" {
		t.Errorf("textures: got %v", s.Textures)
	}
	if len(s.Meshes) != 1 || s.Meshes[0].Loaded || s.Meshes[0].Name != "hero.x" {
		t.Errorf("meshes: got %+v", s.Meshes)
	}
}

func TestSummarizeMeshBindPose(t *testing.T) {
	m := &ccb.SkinnedMesh{
		Name:     "rig",
		Loaded:   true,
		Animated: true,
		Mesh: &ccb.Mesh{Buffers: []*ccb.MeshBuffer{{Vertices: []ccb.Vertex{
			{Pos: mgl32.Vec3{0, 0, 0}},
			{Pos: mgl32.Vec3{1, 0, 0}},
		}}}},
		Joints: []*ccb.Joint{{
			Name:          "root",
			Parent:        -1,
			Global:        mgl32.Translate3D(0, 2, 0),
			GlobalInverse: mgl32.Ident4(),
			Weights:       []ccb.Weight{{BufferID: 0, VertexID: 1, Strength: 1}},
		}},
	}
	ms := SummarizeMesh(m)
	if ms.Vertices != 2 || ms.Buffers != 1 || ms.Joints != 1 {
		t.Fatalf("counts: got %+v", ms)
	}
	if ms.BindMin != (mgl32.Vec3{0, 0, 0}) || ms.BindMax != (mgl32.Vec3{1, 2, 0}) {
		t.Errorf("bind box: got %v..%v, want (0,0,0)..(1,2,0)", ms.BindMin, ms.BindMax)
	}

	// The rest pose is kept when the bind pose is the identity.
	m.Joints[0].Global = mgl32.Ident4()
	ms = SummarizeMesh(m)
	if ms.BindMax != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("identity bind box max: got %v", ms.BindMax)
	}
}
