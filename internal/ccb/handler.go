package ccb

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Action is one declarative behaviour step. The concrete types are the
// structs in actions.go, RawAction, or whatever an Extension returns.
type Action interface {
	ActionCode() int32
}

// Animator is a behaviour attached to a scene node. The concrete types
// are the structs in animators.go, RawAnimator, or whatever an
// Extension returns.
type Animator interface {
	AnimatorCode() int32
}

// ActionHandler is an ordered list of actions run together.
type ActionHandler struct {
	Actions []Action
}

// RawAction keeps the payload of an action code nobody decoded. Data
// aliases the input buffer.
type RawAction struct {
	Code int32
	Data []byte
}

func (a *RawAction) ActionCode() int32 { return a.Code }

// RawAnimator keeps the payload of an animator code nobody decoded.
// Data aliases the input buffer.
type RawAnimator struct {
	Code int32
	Data []byte
}

func (a *RawAnimator) AnimatorCode() int32 { return a.Code }

type behaviourEntry struct {
	Kind string
	Code int32
	Data any
}

func (h ActionHandler) MarshalJSON() ([]byte, error) {
	out := make([]behaviourEntry, len(h.Actions))
	for i, a := range h.Actions {
		code := a.ActionCode()
		out[i] = behaviourEntry{Kind: ActionKind(code), Code: code, Data: a}
	}
	return json.Marshal(out)
}

// Animators is the animator list of a scene node.
type Animators []Animator

func (as Animators) MarshalJSON() ([]byte, error) {
	if as == nil {
		return []byte("null"), nil
	}
	out := make([]behaviourEntry, len(as))
	for i, a := range as {
		code := a.AnimatorCode()
		out[i] = behaviourEntry{Kind: AnimatorKind(code), Code: code, Data: a}
	}
	return json.Marshal(out)
}

// readActionHandler reads an action handler section: an i32 presence
// flag, then one container chunk of action chunks. A zero flag, or a
// flag followed by some other chunk, yields a nil handler.
func (d *decoder) readActionHandler() (*ActionHandler, error) {
	has := d.cur.S32()
	if err := d.cur.Err(); err != nil || has == 0 {
		return nil, err
	}
	d.handlerDepth++
	defer func() { d.handlerDepth-- }()
	if d.handlerDepth > d.maxDepth {
		return nil, ErrNestingTooDeep
	}

	t, err := d.readTag()
	if err != nil {
		return nil, err
	}
	if t.ID != tagActionHandler {
		return nil, d.within(t, func() error { return nil })
	}
	h := &ActionHandler{}
	err = d.within(t, func() error {
		return d.eachTag(t.End, func(t tag) error {
			if t.ID != tagAction {
				return nil
			}
			a, err := d.readAction()
			if err != nil {
				return err
			}
			h.Actions = append(h.Actions, a)
			return nil
		})
	})
	return h, err
}

func (d *decoder) readAction() (Action, error) {
	code := d.cur.S32()
	if err := d.cur.Err(); err != nil {
		return nil, err
	}
	if fn, ok := actionDecoders[code]; ok {
		a, err := fn(d)
		if err != nil {
			return nil, err
		}
		return a, d.cur.Err()
	}
	if ext := d.opts.Extension; ext != nil {
		a, ok, err := ext.DecodeAction(code, d.cur)
		if err != nil {
			return nil, fmt.Errorf("ccb: extension action %d: %w", code, err)
		}
		if ok {
			return a, nil
		}
	}
	d.log.Debug("unknown action kept raw", "code", code)
	return &RawAction{Code: code, Data: d.cur.Rest()}, nil
}

func (d *decoder) readAnimator() (Animator, error) {
	code := d.cur.S32()
	if err := d.cur.Err(); err != nil {
		return nil, err
	}
	if fn, ok := animatorDecoders[code]; ok {
		a, err := fn(d)
		if err != nil {
			return nil, err
		}
		return a, d.cur.Err()
	}
	if ext := d.opts.Extension; ext != nil {
		a, ok, err := ext.DecodeAnimator(code, d.cur)
		if err != nil {
			return nil, fmt.Errorf("ccb: extension animator %d: %w", code, err)
		}
		if ok {
			return a, nil
		}
	}
	d.log.Debug("unknown animator kept raw", "code", code)
	return &RawAnimator{Code: code, Data: d.cur.Rest()}, nil
}

// PropertyType is the value type of an extension script property.
type PropertyType int32

const (
	PropertyInt PropertyType = iota
	PropertyFloat
	PropertyString
	PropertyBool
	PropertyNode
	PropertyColor
	PropertyVec3
	PropertyTexture
	PropertyAction
)

// ExtensionProperty is one named parameter of an extension script.
// Value is int32, float32, string, mgl32.Vec3, Texture or
// *ActionHandler depending on Type; bool, node and color values stay
// int32.
type ExtensionProperty struct {
	Type  PropertyType
	Name  string
	Value any
}

func (d *decoder) readExtensionProperties() ([]ExtensionProperty, error) {
	n := d.count()
	var props []ExtensionProperty
	for i := 0; i < n; i++ {
		p := ExtensionProperty{Type: PropertyType(d.cur.S32()), Name: d.readString()}
		switch p.Type {
		case PropertyFloat:
			p.Value = d.cur.Float32()
		case PropertyString:
			p.Value = d.readString()
		case PropertyVec3:
			p.Value = d.readVec3()
		case PropertyTexture:
			p.Value = d.readTextureRef()
		case PropertyAction:
			h, err := d.readActionHandler()
			if err != nil {
				return nil, err
			}
			p.Value = h
		default:
			p.Value = d.cur.S32()
		}
		if err := d.cur.Err(); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, nil
}

// Value helpers keep the property accessors short at call sites.

func (p ExtensionProperty) Int() int32 {
	v, _ := p.Value.(int32)
	return v
}

func (p ExtensionProperty) Float() float32 {
	v, _ := p.Value.(float32)
	return v
}

func (p ExtensionProperty) Vec3() mgl32.Vec3 {
	v, _ := p.Value.(mgl32.Vec3)
	return v
}
