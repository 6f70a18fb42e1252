package walls

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "invalid"
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, errors.Errorf("Unknown axis %q", s)
}

// AxisMapping is the contract between the authoring convention and the game:
// which scene axis runs along the song (Time) and which ones span the lane
// plane (Horizontal, Vertical). Time is TimeSign times the scene coordinate,
// so with the default mapping walls further along -X come later.
type AxisMapping struct {
	Time       Axis
	Horizontal Axis
	Vertical   Axis
	TimeSign   float64
}

var DefaultAxes = AxisMapping{
	Time:       AxisX,
	Horizontal: AxisY,
	Vertical:   AxisZ,
	TimeSign:   -1,
}

func (am AxisMapping) Validate() error {
	var seen [3]bool
	for _, a := range []Axis{am.Time, am.Horizontal, am.Vertical} {
		if a < AxisX || a > AxisZ {
			return errors.Errorf("Invalid axis %d", a)
		}
		if seen[a] {
			return errors.Errorf("Axis %v mapped twice", a)
		}
		seen[a] = true
	}
	if am.TimeSign != 1 && am.TimeSign != -1 {
		return errors.Errorf("Time sign must be 1 or -1, got %v", am.TimeSign)
	}
	return nil
}

func (am AxisMapping) TimeOf(v mgl64.Vec3) float64 {
	return am.TimeSign * v[am.Time]
}

func (am AxisMapping) Plane(v mgl64.Vec3) (horizontal, vertical float64) {
	return v[am.Horizontal], v[am.Vertical]
}

// LocalRotation reorders scene euler angles (degrees) into the game's local
// rotation. Lane axes flip sign, the time axis keeps it.
func (am AxisMapping) LocalRotation(euler mgl64.Vec3) [3]float64 {
	return [3]float64{-euler[am.Horizontal], -euler[am.Vertical], euler[am.Time]}
}

// pivotOffset is the shift between the cube center and the corner the
// obstacle primitive rotates around, in unscaled local units.
func (am AxisMapping) pivotOffset() mgl64.Vec3 {
	var v mgl64.Vec3
	v[am.Horizontal] = -1
	return v
}

// cornerOffset moves from the cube center to the corner the obstacle is
// placed by: earliest on the time axis, lowest on both lane axes.
func (am AxisMapping) cornerOffset() mgl64.Vec3 {
	var v mgl64.Vec3
	v[am.Time] = -am.TimeSign
	v[am.Horizontal] = -1
	v[am.Vertical] = -1
	return v
}
