package xpobj

import "github.com/Faultbox/xpobj/pkg/math"

// Evaluate returns the node's local transform for the given dataref values.
// Tracks compose in file order. A track interpolates linearly between the
// two keys around the dataref value (translation position, rotation angle)
// and clamps at its ends; static translations always apply. Missing
// datarefs read as 0.
func (n *Node) Evaluate(values map[string]float32) math.Mat4 {
	loops := n.loopPeriods()
	m := math.Identity()

	for _, tr := range tracks(n.KeyFrames) {
		first := tr[0]
		switch first.Type {
		case KeyTranslation:
			if first.Static() {
				m = m.Mul(math.Translate(first.Location))
				continue
			}
			i, t := sample(tr, math.Wrap(values[first.Dataref], loops[first.Dataref]))
			loc := tr[i].Location
			if t > 0 {
				loc = loc.Lerp(tr[i+1].Location, t)
			}
			m = m.Mul(math.Translate(loc))
		case KeyRotation:
			i, t := sample(tr, math.Wrap(values[first.Dataref], loops[first.Dataref]))
			key := tr[i]
			if t > 0 {
				key.Angle += t * (tr[i+1].Angle - key.Angle)
			}
			m = m.Mul(key.Quaternion().ToMat4())
		}
	}
	return m
}

// Visible evaluates hide/show tracks in file order. A node starts visible;
// each track whose value range holds the dataref value sets visibility.
func (n *Node) Visible(values map[string]float32) bool {
	visible := true
	for _, tr := range tracks(n.KeyFrames) {
		first, last := tr[0], tr[len(tr)-1]
		if (first.Type != KeyHide && first.Type != KeyShow) || len(tr) < 2 {
			continue
		}
		lo, hi := min(first.Param, last.Param), max(first.Param, last.Param)
		if v := values[first.Dataref]; v >= lo && v <= hi {
			visible = first.Type == KeyShow
		}
	}
	return visible
}

func (n *Node) loopPeriods() map[string]float32 {
	var loops map[string]float32
	for _, kf := range n.KeyFrames {
		if kf.Type == KeyLoop && !kf.Static() {
			if loops == nil {
				loops = make(map[string]float32)
			}
			loops[kf.Dataref] = kf.Param
		}
	}
	return loops
}

// tracks splits keyframes into runs that interpolate together: consecutive
// keys of one track, type and dataref. Static translations stand alone.
func tracks(kfs []KeyFrame) [][]KeyFrame {
	var out [][]KeyFrame
	start := 0
	for i := 1; i <= len(kfs); i++ {
		if i < len(kfs) && sameTrack(kfs[i-1], kfs[i]) {
			continue
		}
		out = append(out, kfs[start:i])
		start = i
	}
	return out
}

func sameTrack(a, b KeyFrame) bool {
	if a.Type == KeyTranslation && a.Static() {
		return false
	}
	return a.Track == b.Track && a.Type == b.Type && a.Dataref == b.Dataref
}

// sample locates v on a track. It returns the key index i and the factor
// toward key i+1; t is 0 for single-key tracks and below the first key.
func sample(tr []KeyFrame, v float32) (int, float32) {
	n := len(tr)
	if n < 2 {
		return 0, 0
	}
	for i := 0; i+1 < n; i++ {
		a, b := tr[i].Param, tr[i+1].Param
		if v >= min(a, b) && v <= max(a, b) {
			return i, factor(v, a, b)
		}
	}
	first, last := tr[0].Param, tr[n-1].Param
	if (first <= last && v < first) || (first > last && v > first) {
		return 0, 0
	}
	return n - 2, 1
}

// factor maps v onto [0, 1] between key values a and b.
func factor(v, a, b float32) float32 {
	if a == b {
		if v >= b {
			return 1
		}
		return 0
	}
	t := (v - a) / (b - a)
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// origins derives the location origin and the rotation pivot of an
// animation from its keyframes.
func origins(kfs []KeyFrame) (origin, pivot math.Vec3) {
	rotated := false
	for _, kf := range kfs {
		switch kf.Type {
		case KeyTranslation:
			if kf.Static() {
				origin = origin.Add(kf.Location)
			}
			if !rotated {
				pivot = kf.Location
			}
		case KeyRotation:
			rotated = true
		}
	}
	if !rotated {
		pivot = math.Vec3{}
	}
	return origin, pivot
}
