package ccb

import "fmt"

// readSceneNode reads one node chunk at the cursor and attaches the node
// it describes to parent. The chunk at depth 0 is the scene root; its
// header describes parent itself.
func (d *decoder) readSceneNode(s *Scene, parent *SceneNode, depth int) error {
	if depth > d.maxDepth {
		return fmt.Errorf("%w: scene node at depth %d", ErrNestingTooDeep, depth)
	}
	c := d.cur
	typ := NodeType(c.U32())
	header := SceneNode{
		Type:     typ,
		ID:       c.S32(),
		Name:     d.readString(),
		Position: d.readVec3(),
		Rotation: d.readVec3(),
		Scale:    d.readVec3(),
		Visible:  c.Bool(),
		Culling:  c.S32(),
	}
	if err := c.Err(); err != nil {
		return err
	}
	if depth == 0 && !d.grafting() {
		parent.Name = header.Name
		parent.Visible = header.Visible
		parent.Culling = header.Culling
	}

	var node *SceneNode
	materialIndex := 0
	return d.eachNested(func(t tag) error {
		switch t.ID {
		case tagNode:
			p := parent
			if node != nil {
				p = node
			}
			return d.readSceneNode(s, p, depth+1)
		case tagNodeBody:
			fn, ok := nodeDecoders[typ]
			if !ok {
				if depth == 0 {
					s.AmbientLight = d.readColorF()
					return c.Err()
				}
				d.log.Debug("unknown node type skipped", "type", typ, "id", header.ID)
				return nil
			}
			body, err := fn(d)
			if err != nil {
				return err
			}
			n := header
			n.Body = body
			node = &n
			parent.AddChild(node)
			if am, ok := body.(*AnimatedMeshBody); ok {
				d.linkAnimatedMesh(node, am)
			}
		case tagMaterial:
			m, err := d.readMaterial()
			if err != nil {
				return err
			}
			if node == nil {
				return nil
			}
			node.SetMaterial(materialIndex, m)
			materialIndex++
		case tagAnimator:
			target := node
			if target == nil {
				if depth != 0 {
					return nil
				}
				target = s.Root
			}
			a, err := d.readAnimator()
			if err != nil {
				return err
			}
			target.Animators = append(target.Animators, a)
		}
		return nil
	})
}
