package export

import (
	"encoding/hex"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/blake3"

	"coppercube-loader/internal/ccb"
	"coppercube-loader/internal/skeleton"
)

// Summary describes one decoded file.
type Summary struct {
	File     string         `json:"file" yaml:"file"`
	Digest   string         `json:"digest" yaml:"digest"`
	Bytes    int            `json:"bytes" yaml:"bytes"`
	Version  int32          `json:"version" yaml:"version"`
	Title    string         `json:"title,omitempty" yaml:"title,omitempty"`
	Scenes   []SceneSummary `json:"scenes" yaml:"scenes"`
	Meshes   []MeshSummary  `json:"meshes,omitempty" yaml:"meshes,omitempty"`
	Textures []string       `json:"textures,omitempty" yaml:"textures,omitempty"`
	Scripts  []string       `json:"scripts,omitempty" yaml:"scripts,omitempty"`
}

type SceneSummary struct {
	Name      string         `json:"name" yaml:"name"`
	Kind      string         `json:"kind" yaml:"kind"`
	Nodes     int            `json:"nodes" yaml:"nodes"`
	ByType    map[string]int `json:"by_type" yaml:"by_type"`
	Animators int            `json:"animators" yaml:"animators"`
	Actions   int            `json:"actions" yaml:"actions"`
}

// MeshSummary describes one shared animated mesh. The bind box covers
// the vertices after skinning with the joints' bind pose.
type MeshSummary struct {
	Name      string     `json:"name" yaml:"name"`
	Loaded    bool       `json:"loaded" yaml:"loaded"`
	Animated  bool       `json:"animated" yaml:"animated"`
	Joints    int        `json:"joints" yaml:"joints"`
	Buffers   int        `json:"buffers" yaml:"buffers"`
	Vertices  int        `json:"vertices" yaml:"vertices"`
	FPS       float32    `json:"fps" yaml:"fps"`
	LastFrame float32    `json:"last_frame" yaml:"last_frame"`
	BindMin   mgl32.Vec3 `json:"bind_min" yaml:"bind_min"`
	BindMax   mgl32.Vec3 `json:"bind_max" yaml:"bind_max"`
}

// Digest returns the hex BLAKE3-256 digest of raw file bytes.
func Digest(raw []byte) string {
	sum := blake3.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Summarize builds the summary of doc decoded from raw. meshes are the
// entries the mesh cache ended up holding.
func Summarize(file string, raw []byte, doc *ccb.Document, meshes []*ccb.SkinnedMesh) (*Summary, error) {
	s := &Summary{
		File:    file,
		Digest:  Digest(raw),
		Bytes:   len(raw),
		Version: doc.Version,
		Title:   doc.ApplicationTitle,
	}
	for _, m := range meshes {
		s.Meshes = append(s.Meshes, SummarizeMesh(m))
	}
	textures := map[string]bool{}
	for _, sc := range doc.Scenes {
		ss := SceneSummary{Name: sc.Name, Kind: sc.Kind.String(), ByType: map[string]int{}}
		for _, n := range sc.Nodes() {
			ss.Nodes++
			ss.ByType[n.Type.String()]++
			for _, m := range n.Materials {
				for _, t := range []ccb.Texture{m.Texture1, m.Texture2} {
					if t != nil {
						textures[t.Path()] = true
					}
				}
			}
		}
		roots := append([]*ccb.SceneNode{sc.Root}, sc.Nodes()...)
		for _, n := range roots {
			if len(n.Animators) == 0 {
				continue
			}
			tree, err := Tree(n.Animators)
			if err != nil {
				return nil, err
			}
			ss.Animators += len(n.Animators)
			ss.Actions += entries(tree) - len(n.Animators)
		}
		s.Scenes = append(s.Scenes, ss)
	}
	for t := range textures {
		s.Textures = append(s.Textures, t)
	}
	sort.Strings(s.Textures)
	return s, nil
}

// SummarizeMesh counts the payload of m and skins its vertices with
// the bind pose of its joints.
func SummarizeMesh(m *ccb.SkinnedMesh) MeshSummary {
	ms := MeshSummary{
		Name:      m.Name,
		Loaded:    m.Loaded,
		Animated:  m.Animated,
		Joints:    len(m.Joints),
		FPS:       m.DefaultFPS,
		LastFrame: m.LastFrame(),
	}
	if m.Mesh == nil {
		return ms
	}
	ms.Buffers = len(m.Mesh.Buffers)

	skin := make([]mgl32.Mat4, len(m.Joints))
	for i, j := range m.Joints {
		skin[i] = j.Global.Mul4(j.GlobalInverse)
	}
	static := !m.Animated || skeleton.IsIdentity(skin)

	first := true
	for b, buf := range m.Mesh.Buffers {
		rest := make([]mgl32.Vec3, len(buf.Vertices))
		for i, v := range buf.Vertices {
			rest[i] = v.Pos
		}
		ms.Vertices += len(rest)

		posed := rest
		if !static {
			weights := make([][]skeleton.Influence, len(rest))
			for ji, j := range m.Joints {
				for _, w := range j.Weights {
					if int(w.BufferID) != b || w.VertexID < 0 || int(w.VertexID) >= len(rest) {
						continue
					}
					weights[w.VertexID] = append(weights[w.VertexID], skeleton.Influence{Joint: ji, Strength: w.Strength})
				}
			}
			posed = skeleton.SkinPositions(rest, weights, skin)
		}
		for _, p := range posed {
			if first {
				ms.BindMin, ms.BindMax = p, p
				first = false
				continue
			}
			for k := 0; k < 3; k++ {
				ms.BindMin[k] = min(ms.BindMin[k], p[k])
				ms.BindMax[k] = max(ms.BindMax[k], p[k])
			}
		}
	}
	return ms
}

// entries counts behaviour records in an exported tree. Animators and
// actions share the {Kind, Code, Data} shape.
func entries(v any) int {
	n := 0
	switch t := v.(type) {
	case map[string]any:
		_, kind := t["Kind"]
		_, code := t["Code"]
		if kind && code {
			n++
		}
		for _, e := range t {
			n += entries(e)
		}
	case []any:
		for _, e := range t {
			n += entries(e)
		}
	}
	return n
}
