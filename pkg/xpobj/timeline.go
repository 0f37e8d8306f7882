package xpobj

import "github.com/Faultbox/xpobj/pkg/math"

// DatarefSlot is one dataref binding of an animated node.
type DatarefSlot struct {
	Path    string
	Loop    float32
	HasLoop bool
}

// TimelineKey is a framed keyframe ready for a host animation system.
type TimelineKey struct {
	Frame    int
	Type     KeyFrameType
	Location math.Vec3 // Translation
	Rotation math.Vec3 // Rotation, Euler radians
	Slot     int       // index into Timeline.Datarefs
	Value    float32   // dataref value at this frame
}

// Timeline lays out a node's keyframes on a frame axis.
type Timeline struct {
	Keys       []TimelineKey
	Datarefs   []DatarefSlot
	Visibility []KeyFrame // hide/show keys, not framed
}

// BuildTimeline assigns frames to a node's keyframes. Frames start at 1 and
// advance by 2 per emitted key. Static translations emit nothing. A dataref
// slot is added only when the dataref differs from the previous key's, and
// loop keyframes set the period of the current slot.
func BuildTimeline(n *Node) Timeline {
	var tl Timeline
	frame := 1
	dataref := ""
	slot := -1

	bind := func(kf KeyFrame) {
		if kf.Dataref != dataref || slot < 0 {
			dataref = kf.Dataref
			tl.Datarefs = append(tl.Datarefs, DatarefSlot{Path: dataref})
			slot = len(tl.Datarefs) - 1
		}
	}

	for _, kf := range n.KeyFrames {
		switch kf.Type {
		case KeyTranslation:
			if kf.Static() {
				continue
			}
			bind(kf)
			tl.Keys = append(tl.Keys, TimelineKey{
				Frame: frame, Type: kf.Type, Location: kf.Location, Slot: slot, Value: kf.Param,
			})
			frame += 2
		case KeyRotation:
			bind(kf)
			tl.Keys = append(tl.Keys, TimelineKey{
				Frame: frame, Type: kf.Type, Rotation: kf.EulerRotation(), Slot: slot, Value: kf.Param,
			})
			frame += 2
		case KeyHide, KeyShow:
			tl.Visibility = append(tl.Visibility, kf)
		case KeyLoop:
			if slot >= 0 {
				tl.Datarefs[slot].Loop = kf.Param
				tl.Datarefs[slot].HasLoop = true
			}
		}
	}
	return tl
}
