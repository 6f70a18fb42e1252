package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// below this cos(pitch) the xyz decomposition is treated as gimbal locked
const gimbalLockEpsilon = 1e-7

// EulerXYZToMat3 builds the rotation for extrinsic x, y, z angles in
// degrees (R = Rz * Ry * Rx).
func EulerXYZToMat3(deg mgl64.Vec3) mgl64.Mat3 {
	rx := mgl64.Rotate3DX(mgl64.DegToRad(deg[0]))
	ry := mgl64.Rotate3DY(mgl64.DegToRad(deg[1]))
	rz := mgl64.Rotate3DZ(mgl64.DegToRad(deg[2]))
	return rz.Mul3(ry).Mul3(rx)
}

// Mat3ToEulerXYZ is the inverse of EulerXYZToMat3, result in degrees.
// Pitch is kept in [-90, 90]. In gimbal lock the x angle is zero and the
// whole remaining rotation goes to z.
func Mat3ToEulerXYZ(m mgl64.Mat3) mgl64.Vec3 {
	sinY := mgl64.Clamp(-m.At(2, 0), -1, 1)
	y := math.Asin(sinY)

	var x, z float64
	if math.Cos(y) > gimbalLockEpsilon {
		x = math.Atan2(m.At(2, 1), m.At(2, 2))
		z = math.Atan2(m.At(1, 0), m.At(0, 0))
	} else {
		x = 0
		z = math.Atan2(-m.At(0, 1), m.At(1, 1))
	}

	return mgl64.Vec3{mgl64.RadToDeg(x), mgl64.RadToDeg(y), mgl64.RadToDeg(z)}
}

// EulerZXYToQuat follows the game engine's euler order: z first, then x,
// then y (R = Ry * Rx * Rz), angles in degrees.
func EulerZXYToQuat(deg mgl64.Vec3) mgl64.Quat {
	rx := mgl64.Rotate3DX(mgl64.DegToRad(deg[0]))
	ry := mgl64.Rotate3DY(mgl64.DegToRad(deg[1]))
	rz := mgl64.Rotate3DZ(mgl64.DegToRad(deg[2]))
	return mgl64.Mat4ToQuat(ry.Mul3(rx).Mul3(rz).Mat4()).Normalize()
}

// Mat4Columns3 returns the first three columns of the upper-left 3x3 block.
func Mat4Columns3(m mgl64.Mat4) (c0, c1, c2 mgl64.Vec3) {
	return m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
}

func Vec3Mul(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func FloatArray64to32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
