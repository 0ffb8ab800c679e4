package ccb

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type CameraFPSAnimator struct {
	MaxVerticalAngle       float32
	MoveSpeed              float32
	RotateSpeed            float32
	JumpSpeed              float32
	NoVerticalMovement     bool
	MoveByMouseMove        bool
	MoveSmoothing          float32
	ChildrenDontUseZBuffer bool
}

type CameraModelViewerAnimator struct {
	Radius             float32
	RotateSpeed        float32
	NoVerticalMovement bool
	SlidingSpeed       float32
	AllowZooming       bool
	MinZoom            float32
	MaxZoom            float32
	ZoomSpeed          float32
}

// Follow path end modes that carry an action handler.
const (
	FollowPathEndRunAction = 3
	FollowPathEndLoopRun   = 4
)

type FollowPathAnimator struct {
	TimeNeededMs              int32
	LookIntoMovementDirection bool
	PathToFollow              string
	OnlyMoveWhenCameraActive  bool
	AdditionalRotation        mgl32.Vec3
	EndMode                   uint8
	CameraToSwitchTo          string
	TimeDisplacementMs        int32
	TheActionHandler          *ActionHandler `json:",omitempty"`
}

type FlyStraightAnimator struct {
	Start                                mgl32.Vec3
	End                                  mgl32.Vec3
	TimeForWayMs                         int32
	Loop                                 bool
	DeleteMeAfterEndReached              bool
	AnimateCameraTargetInsteadOfPosition bool
	TestShootCollisionWithBullet         bool
	ShootCollisionNodeToIgnore           int32
	ShootCollisionDamage                 int32
}

type FlyCircleAnimator struct {
	Center    mgl32.Vec3
	Direction mgl32.Vec3
	Radius    float32
	Speed     float32
}

type CollisionResponseAnimator struct {
	Radius       mgl32.Vec3
	Gravity      mgl32.Vec3
	Translation  mgl32.Vec3
	SlidingSpeed float32
	// IgnoreGravity is set when the node is not pulled down.
	IgnoreGravity bool
}

type OnClickAnimator struct {
	BoundingBoxTestOnly bool
	CollidesWithWorld   bool
	TheActionHandler    *ActionHandler `json:",omitempty"`
}

type OnMoveAnimator struct {
	BoundingBoxTestOnly  bool
	CollidesWithWorld    bool
	ActionHandlerOnLeave *ActionHandler `json:",omitempty"`
	ActionHandlerOnEnter *ActionHandler `json:",omitempty"`
}

type TimerAnimator struct {
	TickEveryMs      int32
	TheActionHandler *ActionHandler `json:",omitempty"`
}

type OnKeyPressAnimator struct {
	KeyPressType             int32
	KeyCode                  int32
	IfCameraOrButtonIsActive bool
	TheActionHandler         *ActionHandler `json:",omitempty"`
}

type AnimateTextureAnimator struct {
	TextureChangeType    int32
	TimePerFrameMs       int32
	TextureIndexToChange int32
	Loop                 bool
	Textures             []Texture
}

type RotationAnimator struct {
	Rotation              mgl32.Vec3
	RotateToTargetAndStop bool
	RotationTarget        mgl32.Vec3
	TimeToRotateMs        int32
}

type KeyboardControlledAnimator struct {
	RunSpeed                     float32
	MoveSpeed                    float32
	RotateSpeed                  float32
	JumpSpeed                    float32
	AdditionalRotationForLooking mgl32.Vec3
	StandAnimation               string
	WalkAnimation                string
	JumpAnimation                string
	RunAnimation                 string
	Mode                         int32
}

type OnFirstFrameAnimator struct {
	AlsoOnReload     bool
	TheActionHandler *ActionHandler `json:",omitempty"`
}

type GameAIAnimator struct {
	AIType                       int32
	MovementSpeed                float32
	ActivationRadius             float32
	CanFly                       bool
	Health                       int32
	Tags                         string
	AttacksAIWithTags            string
	PatrolRadius                 float32
	RotationSpeedMs              int32
	AdditionalRotationForLooking mgl32.Vec3
	StandAnimation               string
	WalkAnimation                string
	DieAnimation                 string
	AttackAnimation              string
	ActionHandlerOnAttack        *ActionHandler `json:",omitempty"`
	ActionHandlerOnActivate      *ActionHandler `json:",omitempty"`
	ActionHandlerOnHit           *ActionHandler `json:",omitempty"`
	ActionHandlerOnDie           *ActionHandler `json:",omitempty"`
}

type ThirdPersonCameraAnimator struct {
	SceneNodeIDToFollow          int32
	AdditionalRotationForLooking mgl32.Vec3
	FollowSmoothingSpeed         int32
	TargetHeight                 float32
	CollidesWithWorld            bool
}

type OnProximityAnimator struct {
	EnterType        int32
	ProximityType    int32
	Range            float32
	SceneNodeToTest  int32
	HasArea          bool
	AreaType         uint8
	AreaSize         mgl32.Vec3
	TheActionHandler *ActionHandler `json:",omitempty"`
}

type ExtensionScriptAnimator struct {
	JsClassName string
	Properties  []ExtensionProperty
}

var animatorKinds = map[int32]string{
	100: "CameraFPS",
	101: "CameraModelViewer",
	102: "FollowPath",
	103: "FlyStraight",
	104: "FlyCircle",
	105: "CollisionResponse",
	106: "OnClick",
	107: "OnMove",
	108: "Timer",
	109: "OnKeyPress",
	110: "AnimateTexture",
	111: "Rotation",
	112: "KeyboardControlled",
	113: "OnFirstFrame",
	114: "GameAI",
	115: "ThirdPersonCamera",
	116: "OnProximity",
	117: "ExtensionScript",
}

// AnimatorKind names an animator code.
func AnimatorKind(code int32) string {
	if k, ok := animatorKinds[code]; ok {
		return k
	}
	return fmt.Sprintf("Animator%d", code)
}

func (*CameraFPSAnimator) AnimatorCode() int32          { return 100 }
func (*CameraModelViewerAnimator) AnimatorCode() int32  { return 101 }
func (*FollowPathAnimator) AnimatorCode() int32         { return 102 }
func (*FlyStraightAnimator) AnimatorCode() int32        { return 103 }
func (*FlyCircleAnimator) AnimatorCode() int32          { return 104 }
func (*CollisionResponseAnimator) AnimatorCode() int32  { return 105 }
func (*OnClickAnimator) AnimatorCode() int32            { return 106 }
func (*OnMoveAnimator) AnimatorCode() int32             { return 107 }
func (*TimerAnimator) AnimatorCode() int32              { return 108 }
func (*OnKeyPressAnimator) AnimatorCode() int32         { return 109 }
func (*AnimateTextureAnimator) AnimatorCode() int32     { return 110 }
func (*RotationAnimator) AnimatorCode() int32           { return 111 }
func (*KeyboardControlledAnimator) AnimatorCode() int32 { return 112 }
func (*OnFirstFrameAnimator) AnimatorCode() int32       { return 113 }
func (*GameAIAnimator) AnimatorCode() int32             { return 114 }
func (*ThirdPersonCameraAnimator) AnimatorCode() int32  { return 115 }
func (*OnProximityAnimator) AnimatorCode() int32        { return 116 }
func (*ExtensionScriptAnimator) AnimatorCode() int32    { return 117 }

var animatorDecoders map[int32]func(*decoder) (Animator, error)

func init() {
	animatorDecoders = map[int32]func(*decoder) (Animator, error){
		100: readCameraFPS,
		101: readCameraModelViewer,
		102: readFollowPath,
		103: readFlyStraight,
		104: readFlyCircle,
		105: readCollisionResponse,
		106: readOnClick,
		107: readOnMove,
		108: readTimer,
		109: readOnKeyPress,
		110: readAnimateTexture,
		111: readRotation,
		112: readKeyboardControlled,
		113: readOnFirstFrame,
		114: readGameAI,
		115: readThirdPersonCamera,
		116: readOnProximity,
		117: readExtensionScriptAnimator,
	}
}

func readCameraFPS(d *decoder) (Animator, error) {
	c := d.cur
	a := &CameraFPSAnimator{
		MaxVerticalAngle:   c.Float32(),
		MoveSpeed:          c.Float32(),
		RotateSpeed:        c.Float32(),
		JumpSpeed:          c.Float32(),
		NoVerticalMovement: c.Bool(),
	}
	flags := c.S32()
	a.MoveByMouseMove = flags&1 != 0
	if flags&2 != 0 {
		a.MoveSmoothing = c.Float32()
	}
	a.ChildrenDontUseZBuffer = c.Bool()
	return a, nil
}

func readCameraModelViewer(d *decoder) (Animator, error) {
	c := d.cur
	a := &CameraModelViewerAnimator{
		Radius:             c.Float32(),
		RotateSpeed:        c.Float32(),
		NoVerticalMovement: c.Bool(),
	}
	flags := c.S32()
	if flags&2 != 0 {
		a.SlidingSpeed = c.Float32()
	}
	if flags&4 != 0 {
		a.AllowZooming = true
		a.MinZoom = c.Float32()
		a.MaxZoom = c.Float32()
		a.ZoomSpeed = c.Float32()
	}
	return a, nil
}

func readFollowPath(d *decoder) (Animator, error) {
	c := d.cur
	a := &FollowPathAnimator{
		TimeNeededMs:              c.S32(),
		LookIntoMovementDirection: c.Bool(),
		PathToFollow:              d.readString(),
		OnlyMoveWhenCameraActive:  c.Bool(),
		AdditionalRotation:        d.readVec3(),
		EndMode:                   c.U8(),
		CameraToSwitchTo:          d.readString(),
	}
	if c.S32()&1 != 0 {
		a.TimeDisplacementMs = c.S32()
	}
	if a.EndMode == FollowPathEndRunAction || a.EndMode == FollowPathEndLoopRun {
		h, err := d.readActionHandler()
		if err != nil {
			return nil, err
		}
		a.TheActionHandler = h
	}
	return a, nil
}

func readFlyStraight(d *decoder) (Animator, error) {
	c := d.cur
	a := &FlyStraightAnimator{
		Start:        d.readVec3(),
		End:          d.readVec3(),
		TimeForWayMs: c.S32(),
		Loop:         c.Bool(),
	}
	c.S32()
	a.DeleteMeAfterEndReached = c.Bool()
	a.AnimateCameraTargetInsteadOfPosition = c.Bool()
	flags := c.S32()
	a.TestShootCollisionWithBullet = flags&1 != 0
	if flags&2 != 0 {
		a.ShootCollisionNodeToIgnore = c.S32()
	}
	if flags&4 != 0 {
		a.ShootCollisionDamage = c.S32()
	}
	return a, nil
}

func readFlyCircle(d *decoder) (Animator, error) {
	c := d.cur
	a := &FlyCircleAnimator{
		Center:    d.readVec3(),
		Direction: d.readVec3(),
		Radius:    c.Float32(),
		Speed:     c.Float32(),
	}
	c.S32()
	return a, nil
}

func readCollisionResponse(d *decoder) (Animator, error) {
	c := d.cur
	a := &CollisionResponseAnimator{
		Radius:       d.readVec3(),
		Gravity:      d.readVec3(),
		Translation:  d.readVec3(),
		SlidingSpeed: c.Float32(),
	}
	a.IgnoreGravity = c.S32()&1 != 0
	return a, nil
}

func readOnClick(d *decoder) (Animator, error) {
	c := d.cur
	a := &OnClickAnimator{BoundingBoxTestOnly: c.Bool(), CollidesWithWorld: c.Bool()}
	c.S32()
	h, err := d.readActionHandler()
	if err != nil {
		return nil, err
	}
	a.TheActionHandler = h
	return a, nil
}

func readOnMove(d *decoder) (Animator, error) {
	c := d.cur
	a := &OnMoveAnimator{BoundingBoxTestOnly: c.Bool(), CollidesWithWorld: c.Bool()}
	c.S32()
	var err error
	if a.ActionHandlerOnLeave, err = d.readActionHandler(); err != nil {
		return nil, err
	}
	if a.ActionHandlerOnEnter, err = d.readActionHandler(); err != nil {
		return nil, err
	}
	return a, nil
}

func readTimer(d *decoder) (Animator, error) {
	a := &TimerAnimator{TickEveryMs: d.cur.S32()}
	d.cur.S32()
	h, err := d.readActionHandler()
	if err != nil {
		return nil, err
	}
	a.TheActionHandler = h
	return a, nil
}

func readOnKeyPress(d *decoder) (Animator, error) {
	c := d.cur
	a := &OnKeyPressAnimator{
		KeyPressType:             c.S32(),
		KeyCode:                  c.S32(),
		IfCameraOrButtonIsActive: c.Bool(),
	}
	c.S32()
	h, err := d.readActionHandler()
	if err != nil {
		return nil, err
	}
	a.TheActionHandler = h
	return a, nil
}

func readAnimateTexture(d *decoder) (Animator, error) {
	c := d.cur
	a := &AnimateTextureAnimator{
		TextureChangeType:    c.S32(),
		TimePerFrameMs:       c.S32(),
		TextureIndexToChange: c.S32(),
		Loop:                 c.Bool(),
	}
	n := d.count()
	for i := 0; i < n && c.Err() == nil; i++ {
		a.Textures = append(a.Textures, d.readTextureRef())
	}
	return a, nil
}

func readRotation(d *decoder) (Animator, error) {
	c := d.cur
	a := &RotationAnimator{Rotation: d.readVec3()}
	if c.S32()&1 != 0 {
		a.RotateToTargetAndStop = true
		a.RotationTarget = d.readVec3()
		a.TimeToRotateMs = c.S32()
	}
	return a, nil
}

func readKeyboardControlled(d *decoder) (Animator, error) {
	c := d.cur
	a := &KeyboardControlledAnimator{
		RunSpeed:                     c.Float32(),
		MoveSpeed:                    c.Float32(),
		RotateSpeed:                  c.Float32(),
		JumpSpeed:                    c.Float32(),
		AdditionalRotationForLooking: d.readVec3(),
		StandAnimation:               d.readString(),
		WalkAnimation:                d.readString(),
		JumpAnimation:                d.readString(),
		RunAnimation:                 d.readString(),
	}
	if c.S32()&1 != 0 {
		a.Mode = c.S32()
	}
	return a, nil
}

func readOnFirstFrame(d *decoder) (Animator, error) {
	a := &OnFirstFrameAnimator{AlsoOnReload: d.cur.Bool()}
	d.cur.S32()
	h, err := d.readActionHandler()
	if err != nil {
		return nil, err
	}
	a.TheActionHandler = h
	return a, nil
}

func readGameAI(d *decoder) (Animator, error) {
	c := d.cur
	a := &GameAIAnimator{
		AIType:                       c.S32(),
		MovementSpeed:                c.Float32(),
		ActivationRadius:             c.Float32(),
		CanFly:                       c.Bool(),
		Health:                       c.S32(),
		Tags:                         d.readString(),
		AttacksAIWithTags:            d.readString(),
		PatrolRadius:                 c.Float32(),
		RotationSpeedMs:              c.S32(),
		AdditionalRotationForLooking: d.readVec3(),
		StandAnimation:               d.readString(),
		WalkAnimation:                d.readString(),
		DieAnimation:                 d.readString(),
		AttackAnimation:              d.readString(),
	}
	for _, dst := range []**ActionHandler{
		&a.ActionHandlerOnAttack,
		&a.ActionHandlerOnActivate,
		&a.ActionHandlerOnHit,
		&a.ActionHandlerOnDie,
	} {
		h, err := d.readActionHandler()
		if err != nil {
			return nil, err
		}
		*dst = h
	}
	return a, nil
}

func readThirdPersonCamera(d *decoder) (Animator, error) {
	c := d.cur
	a := &ThirdPersonCameraAnimator{
		SceneNodeIDToFollow:          c.S32(),
		AdditionalRotationForLooking: d.readVec3(),
		FollowSmoothingSpeed:         c.S32(),
		TargetHeight:                 c.Float32(),
	}
	a.CollidesWithWorld = c.S32()&1 != 0
	return a, nil
}

func readOnProximity(d *decoder) (Animator, error) {
	c := d.cur
	a := &OnProximityAnimator{
		EnterType:       c.S32(),
		ProximityType:   c.S32(),
		Range:           c.Float32(),
		SceneNodeToTest: c.S32(),
	}
	if c.S32()&1 != 0 {
		a.HasArea = true
		a.AreaType = c.U8()
		a.AreaSize = d.readVec3()
	}
	h, err := d.readActionHandler()
	if err != nil {
		return nil, err
	}
	a.TheActionHandler = h
	return a, nil
}

func readExtensionScriptAnimator(d *decoder) (Animator, error) {
	a := &ExtensionScriptAnimator{JsClassName: d.readString()}
	d.cur.S32()
	props, err := d.readExtensionProperties()
	if err != nil {
		return nil, err
	}
	a.Properties = props
	return a, nil
}
