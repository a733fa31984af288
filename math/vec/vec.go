// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"github.com/chewxy/math32"
)

type Vec3 [3]float32

// Add returns a + b
func Add(a, b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a - b
func Sub(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns the vector multiplied by the skalar s
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns a dot b
func Dot(a, b Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Length returns the length of the vector
func (v Vec3) Length() float32 {
	return math32.Sqrt(Dot(v, v))
}

func minmax(a, b float32) (float32, float32) {
	if a < b {
		return a, b
	}
	return b, a
}

// MinMax returns the componentwise minimum and maximum of a and b.
func MinMax(a, b Vec3) (Vec3, Vec3) {
	var r, s Vec3
	for i := range r {
		r[i], s[i] = minmax(a[i], b[i])
	}
	return r, s
}

// RadiusFromBounds returns the radius of the sphere around the origin
// enclosing the box mins/maxs.
func RadiusFromBounds(mins, maxs Vec3) float32 {
	var corner Vec3
	for i := range corner {
		corner[i] = math32.Max(math32.Abs(mins[i]), math32.Abs(maxs[i]))
	}
	return corner.Length()
}
