package ccb

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Position change modes of ChangeSceneNodePosition.
const (
	PositionSet = iota
	PositionMoveBy
	PositionToNode
	PositionToLastClick
	PositionRandomInArea
)

// Texture change modes of ChangeSceneNodeTexture.
const (
	TextureChangeAll = iota
	TextureChangeIndex
)

type MakeSceneNodeInvisible struct {
	InvisibleMakeType        int32
	SceneNodeToMakeInvisible int32
	ChangeCurrentSceneNode   bool
}

type ChangeSceneNodePosition struct {
	PositionChangeType         int32
	SceneNodeToChangePosition  int32
	ChangeCurrentSceneNode     bool
	Vector                     mgl32.Vec3
	AreaStart, AreaEnd         mgl32.Vec3
	RelativeToCurrentSceneNode bool
	SceneNodeRelativeTo        int32
	UseAnimatedMovement        bool
	TimeNeededForMovementMs    int32
	ActionHandlerFinished      *ActionHandler `json:",omitempty"`
}

type ChangeSceneNodeRotation struct {
	RotationChangeType        int32
	SceneNodeToChangeRotation int32
	ChangeCurrentSceneNode    bool
	Vector                    mgl32.Vec3
	RotateAnimated            bool
	TimeNeededForRotationMs   int32
}

type ChangeSceneNodeScale struct {
	ScaleChangeType        int32
	SceneNodeToChangeScale int32
	ChangeCurrentSceneNode bool
	Vector                 mgl32.Vec3
}

type ChangeSceneNodeTexture struct {
	TextureChangeType      int32
	SceneNodeToChange      int32
	ChangeCurrentSceneNode bool
	TheTexture             Texture `json:",omitempty"`
	IndexToChange          int32
}

type PlaySound struct {
	PlayLooped             bool
	TheSound               string
	MinDistance            float32
	MaxDistance            float32
	Volume                 float32
	PlayAs2D               bool
	SceneNodeToPlayAt      int32
	PlayAtCurrentSceneNode bool
	Position3D             mgl32.Vec3
}

type StopSound struct {
	SoundChangeType int32
}

type ExecuteJavaScript struct {
	JScript string
}

type OpenWebpage struct {
	Webpage string
	Target  string
}

type SetSceneNodeAnimation struct {
	SceneNodeToChangeAnim  int32
	ChangeCurrentSceneNode bool
	Loop                   bool
	AnimName               string
}

type SwitchToScene struct {
	SceneName string
}

type SetActiveCamera struct {
	CameraToSetActive int32
}

type SetCameraTarget struct {
	PositionChangeType         int32
	SceneNodeToChangePosition  int32
	SceneNodeRelativeTo        int32
	ChangeCurrentSceneNode     bool
	RelativeToCurrentSceneNode bool
	Vector                     mgl32.Vec3
	UseAnimatedMovement        bool
	TimeNeededForMovementMs    int32
}

type Shoot struct {
	ShootType              int32
	Damage                 int32
	BulletSpeed            float32
	SceneNodeToUseAsBullet int32
	WeaponRange            float32
	// SceneNodeToShootFrom is -1 when bullets leave the owning node.
	SceneNodeToShootFrom        int32
	ShootToCameraTarget         bool
	AdditionalDirectionRotation mgl32.Vec3
	ActionHandlerOnImpact       *ActionHandler `json:",omitempty"`
	ShootDisplayType            int32
}

type QuitApplication struct{}

type SetOverlayText struct {
	SceneNodeToChange      int32
	ChangeCurrentSceneNode bool
	Text                   string
}

type SetOrChangeVariable struct {
	VariableName string
	Operation    int32
	ValueType    int32
	Value        string
}

type IfVariable struct {
	VariableName         string
	ComparisonType       int32
	ValueType            int32
	Value                string
	TheActionHandler     *ActionHandler `json:",omitempty"`
	TheElseActionHandler *ActionHandler `json:",omitempty"`
}

type RestartBehaviors struct {
	SceneNodeToRestart     int32
	ChangeCurrentSceneNode bool
}

type StoreLoadVariable struct {
	VariableName string
	Load         bool
}

type RestartScene struct {
	SceneName string
}

type SetFullscreen struct {
	Fullscreen bool
}

type CloneSceneNode struct {
	SceneNodeToClone      int32
	CloneCurrentSceneNode bool
	TheActionHandler      *ActionHandler `json:",omitempty"`
}

type DeleteSceneNode struct {
	SceneNodeToDelete      int32
	DeleteCurrentSceneNode bool
	TimeAfterDeleteMs      int32
}

type ExtensionScriptAction struct {
	JsClassName string
	Properties  []ExtensionProperty
}

type PlayMovie struct {
	PlayLooped             bool
	Command                int32
	VideoFileName          string
	SceneNodeToPlayAt      int32
	PlayAtCurrentSceneNode bool
	MaterialIndex          int32
	ActionHandlerFinished  *ActionHandler `json:",omitempty"`
	ActionHandlerFailed    *ActionHandler `json:",omitempty"`
}

type StopSpecificSound struct {
	TheSound string
}

var actionKinds = map[int32]string{
	0:  "MakeSceneNodeInvisible",
	1:  "ChangeSceneNodePosition",
	2:  "ChangeSceneNodeRotation",
	3:  "ChangeSceneNodeScale",
	4:  "ChangeSceneNodeTexture",
	5:  "PlaySound",
	6:  "StopSound",
	7:  "ExecuteJavaScript",
	8:  "OpenWebpage",
	9:  "SetSceneNodeAnimation",
	10: "SwitchToScene",
	11: "SetActiveCamera",
	12: "SetCameraTarget",
	13: "Shoot",
	14: "QuitApplication",
	15: "SetOverlayText",
	16: "SetOrChangeVariable",
	17: "IfVariable",
	18: "RestartBehaviors",
	19: "StoreLoadVariable",
	20: "RestartScene",
	21: "SetFullscreen",
	22: "CloneSceneNode",
	23: "DeleteSceneNode",
	24: "ExtensionScript",
	25: "PlayMovie",
	26: "StopSpecificSound",
}

// ActionKind names an action code.
func ActionKind(code int32) string {
	if k, ok := actionKinds[code]; ok {
		return k
	}
	return fmt.Sprintf("Action%d", code)
}

func (*MakeSceneNodeInvisible) ActionCode() int32  { return 0 }
func (*ChangeSceneNodePosition) ActionCode() int32 { return 1 }
func (*ChangeSceneNodeRotation) ActionCode() int32 { return 2 }
func (*ChangeSceneNodeScale) ActionCode() int32    { return 3 }
func (*ChangeSceneNodeTexture) ActionCode() int32  { return 4 }
func (*PlaySound) ActionCode() int32               { return 5 }
func (*StopSound) ActionCode() int32               { return 6 }
func (*ExecuteJavaScript) ActionCode() int32       { return 7 }
func (*OpenWebpage) ActionCode() int32             { return 8 }
func (*SetSceneNodeAnimation) ActionCode() int32   { return 9 }
func (*SwitchToScene) ActionCode() int32           { return 10 }
func (*SetActiveCamera) ActionCode() int32         { return 11 }
func (*SetCameraTarget) ActionCode() int32         { return 12 }
func (*Shoot) ActionCode() int32                   { return 13 }
func (*QuitApplication) ActionCode() int32         { return 14 }
func (*SetOverlayText) ActionCode() int32          { return 15 }
func (*SetOrChangeVariable) ActionCode() int32     { return 16 }
func (*IfVariable) ActionCode() int32              { return 17 }
func (*RestartBehaviors) ActionCode() int32        { return 18 }
func (*StoreLoadVariable) ActionCode() int32       { return 19 }
func (*RestartScene) ActionCode() int32            { return 20 }
func (*SetFullscreen) ActionCode() int32           { return 21 }
func (*CloneSceneNode) ActionCode() int32          { return 22 }
func (*DeleteSceneNode) ActionCode() int32         { return 23 }
func (*ExtensionScriptAction) ActionCode() int32   { return 24 }
func (*PlayMovie) ActionCode() int32               { return 25 }
func (*StopSpecificSound) ActionCode() int32       { return 26 }

// Optional field flags, consumed in increasing bit order.
const (
	posAnimated        = 1 << 0
	posOnArrive        = 1 << 1
	shootFromNode      = 1 << 0
	shootOnImpact      = 1 << 1
	shootDisplay       = 1 << 2
	ifVariableHasElse  = 1 << 0
	rotateAnimatedFlag = 1 << 0
)

var actionDecoders map[int32]func(*decoder) (Action, error)

func init() {
	actionDecoders = map[int32]func(*decoder) (Action, error){
		0:  readMakeSceneNodeInvisible,
		1:  readChangeSceneNodePosition,
		2:  readChangeSceneNodeRotation,
		3:  readChangeSceneNodeScale,
		4:  readChangeSceneNodeTexture,
		5:  readPlaySound,
		6:  readStopSound,
		7:  readExecuteJavaScript,
		8:  readOpenWebpage,
		9:  readSetSceneNodeAnimation,
		10: readSwitchToScene,
		11: readSetActiveCamera,
		12: readSetCameraTarget,
		13: readShoot,
		14: readQuitApplication,
		15: readSetOverlayText,
		16: readSetOrChangeVariable,
		17: readIfVariable,
		18: readRestartBehaviors,
		19: readStoreLoadVariable,
		20: readRestartScene,
		21: readSetFullscreen,
		22: readCloneSceneNode,
		23: readDeleteSceneNode,
		24: readExtensionScriptAction,
		25: readPlayMovie,
		26: readStopSpecificSound,
	}
}

func readMakeSceneNodeInvisible(d *decoder) (Action, error) {
	c := d.cur
	a := &MakeSceneNodeInvisible{
		InvisibleMakeType:        c.S32(),
		SceneNodeToMakeInvisible: c.S32(),
		ChangeCurrentSceneNode:   c.Bool(),
	}
	c.Bool()
	return a, nil
}

func readChangeSceneNodePosition(d *decoder) (Action, error) {
	c := d.cur
	a := &ChangeSceneNodePosition{
		PositionChangeType:        c.S32(),
		SceneNodeToChangePosition: c.S32(),
		ChangeCurrentSceneNode:    c.Bool(),
		Vector:                    d.readVec3(),
	}
	if a.PositionChangeType == PositionRandomInArea {
		a.AreaStart = d.readVec3()
		a.AreaEnd = d.readVec3()
	}
	a.RelativeToCurrentSceneNode = c.Bool()
	a.SceneNodeRelativeTo = c.S32()
	flags := c.S32()
	if flags&posAnimated != 0 {
		a.UseAnimatedMovement = true
		a.TimeNeededForMovementMs = c.S32()
	}
	if flags&posOnArrive != 0 {
		h, err := d.readActionHandler()
		if err != nil {
			return nil, err
		}
		a.ActionHandlerFinished = h
	}
	return a, nil
}

func readChangeSceneNodeRotation(d *decoder) (Action, error) {
	c := d.cur
	a := &ChangeSceneNodeRotation{
		RotationChangeType:        c.S32(),
		SceneNodeToChangeRotation: c.S32(),
		ChangeCurrentSceneNode:    c.Bool(),
		Vector:                    d.readVec3(),
	}
	if c.S32()&rotateAnimatedFlag != 0 {
		a.RotateAnimated = true
		a.TimeNeededForRotationMs = c.S32()
	}
	return a, nil
}

func readChangeSceneNodeScale(d *decoder) (Action, error) {
	c := d.cur
	return &ChangeSceneNodeScale{
		ScaleChangeType:        c.S32(),
		SceneNodeToChangeScale: c.S32(),
		ChangeCurrentSceneNode: c.Bool(),
		Vector:                 d.readVec3(),
	}, nil
}

func readChangeSceneNodeTexture(d *decoder) (Action, error) {
	c := d.cur
	a := &ChangeSceneNodeTexture{
		TextureChangeType:      c.S32(),
		SceneNodeToChange:      c.S32(),
		ChangeCurrentSceneNode: c.Bool(),
		TheTexture:             d.readTextureRef(),
	}
	if a.TextureChangeType == TextureChangeIndex {
		a.IndexToChange = c.S32()
	}
	return a, nil
}

func readPlaySound(d *decoder) (Action, error) {
	c := d.cur
	return &PlaySound{
		PlayLooped:             c.S32()&1 != 0,
		TheSound:               d.readSoundRef(),
		MinDistance:            c.Float32(),
		MaxDistance:            c.Float32(),
		Volume:                 c.Float32(),
		PlayAs2D:               c.Bool(),
		SceneNodeToPlayAt:      c.S32(),
		PlayAtCurrentSceneNode: c.Bool(),
		Position3D:             d.readVec3(),
	}, nil
}

func readStopSound(d *decoder) (Action, error) {
	return &StopSound{SoundChangeType: d.cur.S32()}, nil
}

func readExecuteJavaScript(d *decoder) (Action, error) {
	d.cur.S32()
	return &ExecuteJavaScript{JScript: d.readString()}, nil
}

func readOpenWebpage(d *decoder) (Action, error) {
	d.cur.S32()
	return &OpenWebpage{Webpage: d.readString(), Target: d.readString()}, nil
}

func readSetSceneNodeAnimation(d *decoder) (Action, error) {
	c := d.cur
	a := &SetSceneNodeAnimation{
		SceneNodeToChangeAnim:  c.S32(),
		ChangeCurrentSceneNode: c.Bool(),
		Loop:                   c.Bool(),
		AnimName:               d.readString(),
	}
	c.S32()
	return a, nil
}

func readSwitchToScene(d *decoder) (Action, error) {
	a := &SwitchToScene{SceneName: d.readString()}
	d.cur.S32()
	return a, nil
}

func readSetActiveCamera(d *decoder) (Action, error) {
	a := &SetActiveCamera{CameraToSetActive: d.cur.S32()}
	d.cur.S32()
	return a, nil
}

func readSetCameraTarget(d *decoder) (Action, error) {
	c := d.cur
	a := &SetCameraTarget{
		PositionChangeType:         c.S32(),
		SceneNodeToChangePosition:  c.S32(),
		SceneNodeRelativeTo:        c.S32(),
		ChangeCurrentSceneNode:     c.Bool(),
		RelativeToCurrentSceneNode: c.Bool(),
		Vector:                     d.readVec3(),
	}
	if c.S32()&posAnimated != 0 {
		a.UseAnimatedMovement = true
		a.TimeNeededForMovementMs = c.S32()
	}
	return a, nil
}

func readShoot(d *decoder) (Action, error) {
	c := d.cur
	a := &Shoot{
		ShootType:              c.S32(),
		Damage:                 c.S32(),
		BulletSpeed:            c.Float32(),
		SceneNodeToUseAsBullet: c.S32(),
		WeaponRange:            c.Float32(),
		SceneNodeToShootFrom:   -1,
	}
	flags := c.S32()
	if flags&shootFromNode != 0 {
		a.SceneNodeToShootFrom = c.S32()
		a.ShootToCameraTarget = c.Bool()
		a.AdditionalDirectionRotation = d.readVec3()
	}
	if flags&shootOnImpact != 0 {
		h, err := d.readActionHandler()
		if err != nil {
			return nil, err
		}
		a.ActionHandlerOnImpact = h
	}
	if flags&shootDisplay != 0 {
		a.ShootDisplayType = c.S32()
	}
	return a, nil
}

func readQuitApplication(d *decoder) (Action, error) {
	d.cur.S32()
	return &QuitApplication{}, nil
}

func readSetOverlayText(d *decoder) (Action, error) {
	c := d.cur
	c.S32()
	return &SetOverlayText{
		SceneNodeToChange:      c.S32(),
		ChangeCurrentSceneNode: c.Bool(),
		Text:                   d.readString(),
	}, nil
}

func readSetOrChangeVariable(d *decoder) (Action, error) {
	c := d.cur
	c.S32()
	return &SetOrChangeVariable{
		VariableName: d.readString(),
		Operation:    c.S32(),
		ValueType:    c.S32(),
		Value:        d.readString(),
	}, nil
}

func readIfVariable(d *decoder) (Action, error) {
	c := d.cur
	flags := c.S32()
	a := &IfVariable{
		VariableName:   d.readString(),
		ComparisonType: c.S32(),
		ValueType:      c.S32(),
		Value:          d.readString(),
	}
	h, err := d.readActionHandler()
	if err != nil {
		return nil, err
	}
	a.TheActionHandler = h
	if flags&ifVariableHasElse != 0 {
		h, err := d.readActionHandler()
		if err != nil {
			return nil, err
		}
		a.TheElseActionHandler = h
	}
	return a, nil
}

func readRestartBehaviors(d *decoder) (Action, error) {
	c := d.cur
	a := &RestartBehaviors{SceneNodeToRestart: c.S32(), ChangeCurrentSceneNode: c.Bool()}
	c.S32()
	return a, nil
}

func readStoreLoadVariable(d *decoder) (Action, error) {
	d.cur.S32()
	return &StoreLoadVariable{VariableName: d.readString(), Load: d.cur.Bool()}, nil
}

func readRestartScene(d *decoder) (Action, error) {
	d.cur.S32()
	return &RestartScene{SceneName: d.readString()}, nil
}

func readSetFullscreen(d *decoder) (Action, error) {
	d.cur.S32()
	return &SetFullscreen{Fullscreen: d.cur.Bool()}, nil
}

func readCloneSceneNode(d *decoder) (Action, error) {
	c := d.cur
	a := &CloneSceneNode{SceneNodeToClone: c.S32(), CloneCurrentSceneNode: c.Bool()}
	c.S32()
	h, err := d.readActionHandler()
	if err != nil {
		return nil, err
	}
	a.TheActionHandler = h
	return a, nil
}

func readDeleteSceneNode(d *decoder) (Action, error) {
	c := d.cur
	a := &DeleteSceneNode{
		SceneNodeToDelete:      c.S32(),
		DeleteCurrentSceneNode: c.Bool(),
		TimeAfterDeleteMs:      c.S32(),
	}
	c.S32()
	return a, nil
}

func readExtensionScriptAction(d *decoder) (Action, error) {
	a := &ExtensionScriptAction{JsClassName: d.readString()}
	d.cur.S32()
	props, err := d.readExtensionProperties()
	if err != nil {
		return nil, err
	}
	a.Properties = props
	return a, nil
}

func readPlayMovie(d *decoder) (Action, error) {
	c := d.cur
	c.S32()
	a := &PlayMovie{
		PlayLooped:    c.Bool(),
		Command:       c.S32(),
		VideoFileName: d.readSoundRef(),
	}
	c.S32()
	a.SceneNodeToPlayAt = c.S32()
	a.PlayAtCurrentSceneNode = c.Bool()
	a.MaterialIndex = c.S32()
	var err error
	if a.ActionHandlerFinished, err = d.readActionHandler(); err != nil {
		return nil, err
	}
	if a.ActionHandlerFailed, err = d.readActionHandler(); err != nil {
		return nil, err
	}
	return a, nil
}

func readStopSpecificSound(d *decoder) (Action, error) {
	d.cur.S32()
	return &StopSpecificSound{TheSound: d.readSoundRef()}, nil
}
