package xpobj

import "github.com/Faultbox/xpobj/pkg/math"

// Transform converts a source-space vector to the target space: the source
// Y axis becomes Z and the source Z axis becomes -Y.
// It applies to positions, normals, translations and rotation axes only.
func Transform(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: -z, Z: y}
}

// transformArgs transforms vals[i:i+3].
func transformArgs(vals []float32, i int) math.Vec3 {
	return Transform(vals[i], vals[i+1], vals[i+2])
}
