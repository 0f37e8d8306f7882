package xpobj

import (
	"fmt"

	"github.com/Faultbox/xpobj/pkg/math"
)

// NoDataref marks a keyframe that is not driven by a dataref.
const NoDataref = "none"

// KeyFrameType discriminates the KeyFrame union.
type KeyFrameType int

const (
	KeyNone KeyFrameType = iota
	KeyTranslation
	KeyRotation
	KeyHide
	KeyShow
	KeyLoop
)

// String returns a human-readable keyframe type name.
func (t KeyFrameType) String() string {
	switch t {
	case KeyNone:
		return "None"
	case KeyTranslation:
		return "Translation"
	case KeyRotation:
		return "Rotation"
	case KeyHide:
		return "Hide"
	case KeyShow:
		return "Show"
	case KeyLoop:
		return "Loop"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// KeyFrame is one animation sample bound to a dataref value.
type KeyFrame struct {
	Type     KeyFrameType
	Location math.Vec3 // Translation
	Axis     math.Vec3 // Rotation
	Angle    float32   // Rotation, degrees
	Param    float32   // dataref value, or loop period for KeyLoop
	Dataref  string
	Track    int // keyframes of one record or table share a track
}

// Static reports whether the keyframe is not driven by a dataref.
func (k KeyFrame) Static() bool {
	return k.Dataref == NoDataref || k.Dataref == ""
}

// EulerRotation returns the rotation as axis-scaled radians.
func (k KeyFrame) EulerRotation() math.Vec3 {
	return k.Axis.Scale(math.Radians(k.Angle))
}

// Quaternion returns the rotation as a quaternion.
func (k KeyFrame) Quaternion() math.Quat {
	return math.QuatFromAxisAngle(k.Axis, math.Radians(k.Angle))
}

// parseTranslation reads ANIM_trans in either form:
//
//	ANIM_trans <x1> <y1> <z1> <x2> <y2> <z2>
//	ANIM_trans <x1> <y1> <z1> <x2> <y2> <z2> <v1> <v2> <dataref>
//
// The short form yields a single static keyframe.
func parseTranslation(args []string) ([]KeyFrame, error) {
	switch len(args) {
	case 6:
		vals, err := parseFloats(args)
		if err != nil {
			return nil, err
		}
		return []KeyFrame{{
			Type:     KeyTranslation,
			Location: transformArgs(vals, 0),
			Dataref:  NoDataref,
		}}, nil
	case 9:
		vals, err := parseFloats(args[:8])
		if err != nil {
			return nil, err
		}
		dataref := args[8]
		return []KeyFrame{
			{Type: KeyTranslation, Location: transformArgs(vals, 0), Param: vals[6], Dataref: dataref},
			{Type: KeyTranslation, Location: transformArgs(vals, 3), Param: vals[7], Dataref: dataref},
		}, nil
	default:
		return nil, malformed("ANIM_trans <x1> <y1> <z1> <x2> <y2> <z2> [<v1> <v2> <dataref>]", args)
	}
}

// parseRotation reads ANIM_rotate <ax> <ay> <az> <r1> <r2> <v1> <v2> <dataref>.
func parseRotation(args []string) ([]KeyFrame, error) {
	if len(args) != 8 {
		return nil, malformed("ANIM_rotate <x> <y> <z> <r1> <r2> <v1> <v2> <dataref>", args)
	}
	vals, err := parseFloats(args[:7])
	if err != nil {
		return nil, err
	}
	axis := transformArgs(vals, 0)
	dataref := args[7]
	return []KeyFrame{
		{Type: KeyRotation, Axis: axis, Angle: vals[3], Param: vals[5], Dataref: dataref},
		{Type: KeyRotation, Axis: axis, Angle: vals[4], Param: vals[6], Dataref: dataref},
	}, nil
}

// parseTransKey reads ANIM_trans_key <value> <x> <y> <z>.
func parseTransKey(args []string) (KeyFrame, error) {
	if len(args) != 4 {
		return KeyFrame{}, malformed("ANIM_trans_key <value> <x> <y> <z>", args)
	}
	vals, err := parseFloats(args)
	if err != nil {
		return KeyFrame{}, err
	}
	return KeyFrame{Location: transformArgs(vals, 1), Param: vals[0]}, nil
}

// parseRotateBegin reads ANIM_rotate_begin <x> <y> <z> <dataref>.
func parseRotateBegin(args []string) (math.Vec3, string, error) {
	if len(args) != 4 {
		return math.Vec3{}, "", malformed("ANIM_rotate_begin <x> <y> <z> <dataref>", args)
	}
	vals, err := parseFloats(args[:3])
	if err != nil {
		return math.Vec3{}, "", err
	}
	return transformArgs(vals, 0), args[3], nil
}

// parseRotateKey reads ANIM_rotate_key <value> <angle>.
func parseRotateKey(args []string) (KeyFrame, error) {
	if len(args) != 2 {
		return KeyFrame{}, malformed("ANIM_rotate_key <value> <angle>", args)
	}
	vals, err := parseFloats(args)
	if err != nil {
		return KeyFrame{}, err
	}
	return KeyFrame{Angle: vals[1], Param: vals[0]}, nil
}

// parseVisibility reads ANIM_hide/ANIM_show <v1> <v2> <dataref>.
func parseVisibility(typ KeyFrameType, tag string, args []string) ([]KeyFrame, error) {
	if len(args) != 3 {
		return nil, malformed(tag+" <v1> <v2> <dataref>", args)
	}
	vals, err := parseFloats(args[:2])
	if err != nil {
		return nil, err
	}
	return []KeyFrame{
		{Type: typ, Param: vals[0], Dataref: args[2]},
		{Type: typ, Param: vals[1], Dataref: args[2]},
	}, nil
}

// parseLoop reads ANIM_keyframe_loop <period>. The loop binds to the most
// recent dataref already on the node.
func parseLoop(args []string, prev []KeyFrame) ([]KeyFrame, error) {
	if len(args) != 1 {
		return nil, malformed("ANIM_keyframe_loop <period>", args)
	}
	vals, err := parseFloats(args)
	if err != nil {
		return nil, err
	}
	dataref := NoDataref
	for i := len(prev) - 1; i >= 0; i-- {
		if !prev[i].Static() {
			dataref = prev[i].Dataref
			break
		}
	}
	return []KeyFrame{{Type: KeyLoop, Param: vals[0], Dataref: dataref}}, nil
}
