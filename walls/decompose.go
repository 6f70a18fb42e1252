package walls

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mogaika/scenewalls/utils"
)

// Decomposition of an affine transform without shear.
type Decomposition struct {
	Position mgl64.Vec3
	Scale    mgl64.Vec3
	// columns of the upper-left 3x3 divided by Scale. Not re-orthonormalized,
	// sheared input gives a distorted rotation.
	Rotation mgl64.Mat3
	// extrinsic xyz, degrees
	Euler mgl64.Vec3
}

func Decompose(m mgl64.Mat4) Decomposition {
	var d Decomposition
	d.Position = m.Col(3).Vec3()

	c0, c1, c2 := utils.Mat4Columns3(m)
	d.Scale = mgl64.Vec3{c0.Len(), c1.Len(), c2.Len()}
	d.Rotation = mgl64.Mat3FromCols(
		divVec3(c0, d.Scale[0]),
		divVec3(c1, d.Scale[1]),
		divVec3(c2, d.Scale[2]),
	)
	d.Euler = utils.Mat3ToEulerXYZ(d.Rotation)
	return d
}

func divVec3(v mgl64.Vec3, s float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0] / s, v[1] / s, v[2] / s}
}
