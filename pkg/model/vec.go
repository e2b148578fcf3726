package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a point or direction in render space. The ground plane is x/z,
// y points up.
type Vec3 = mgl64.Vec3

// IsFinite reports whether all components of v are finite.
func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Flatten returns v projected onto the ground plane.
func Flatten(v Vec3) Vec3 {
	return Vec3{v.X(), 0, v.Z()}
}

// GroundDistSqr returns the squared distance of a and b on the ground plane.
func GroundDistSqr(a, b Vec3) float64 {
	dx := a.X() - b.X()
	dz := a.Z() - b.Z()
	return dx*dx + dz*dz
}
