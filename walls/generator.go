// Package walls turns scene cubes into beatmap walls.
//
// A scene cube spans [-1, 1] on every local axis and rotates around its
// center. A wall is placed by a corner and rotates around a point on its
// edge, so after decomposing the cube transform the position is moved to
// that corner and corrected for the pivot before the axes are remapped.
package walls

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/mogaika/scenewalls/config"
	"github.com/mogaika/scenewalls/scene"
	"github.com/mogaika/scenewalls/utils"
)

// Offset moves and rotates the whole scene (degrees). GlobalRotation is
// passed to every wall as is.
type Offset struct {
	X, Y, Z          float64
	RotX, RotY, RotZ float64
	GlobalRotation   float64
}

func OffsetFromConfig(o config.Offset) Offset {
	return Offset{
		X: o.X, Y: o.Y, Z: o.Z,
		RotX: o.RotX, RotY: o.RotY, RotZ: o.RotZ,
		GlobalRotation: o.GlobalRotation,
	}
}

// apply rotates the node and then adds the translation as is, it is not
// rotated together with the node.
func (o Offset) apply(m mgl64.Mat4) mgl64.Mat4 {
	rotation := utils.EulerXYZToMat3(mgl64.Vec3{o.RotX, o.RotY, o.RotZ}).Mat4()
	result := rotation.Mul4(m)
	result.Set(0, 3, result.At(0, 3)+o.X)
	result.Set(1, 3, result.At(1, 3)+o.Y)
	result.Set(2, 3, result.At(2, 3)+o.Z)
	return result
}

type Settings struct {
	// applied to the lane axes only
	Scale                   float64
	HyperPrefix             string
	HyperDuration           float64
	Track                   string
	NoteJumpStartBeatOffset float64
	ScaleEpsilon            float64
	Axes                    AxisMapping
}

func DefaultSettings() Settings {
	s, err := SettingsFromConfig(config.Default())
	if err != nil {
		panic(err)
	}
	return s
}

func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	s := Settings{
		Scale:                   cfg.Scale,
		HyperPrefix:             strings.ToLower(cfg.HyperPrefix),
		HyperDuration:           cfg.HyperDuration,
		Track:                   cfg.Track,
		NoteJumpStartBeatOffset: cfg.NoteJumpStartBeatOffset,
		ScaleEpsilon:            cfg.ScaleEpsilon,
		Axes:                    AxisMapping{TimeSign: cfg.Axes.TimeSign},
	}

	var err error
	if s.Axes.Time, err = ParseAxis(cfg.Axes.Time); err != nil {
		return s, errors.Wrapf(err, "Time axis")
	}
	if s.Axes.Horizontal, err = ParseAxis(cfg.Axes.Horizontal); err != nil {
		return s, errors.Wrapf(err, "Horizontal axis")
	}
	if s.Axes.Vertical, err = ParseAxis(cfg.Axes.Vertical); err != nil {
		return s, errors.Wrapf(err, "Vertical axis")
	}
	if err := s.Axes.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// DegenerateScaleError reports a node squashed flat on some axis, its
// rotation can not be recovered.
type DegenerateScaleError struct {
	Node  string
	Scale mgl64.Vec3
}

func (e *DegenerateScaleError) Error() string {
	return fmt.Sprintf("node %q has degenerate scale %v", e.Node, e.Scale)
}

func IsDegenerateScale(err error) bool {
	var dse *DegenerateScaleError
	return errors.As(err, &dse)
}

type Generator struct {
	settings Settings
}

func NewGenerator(settings Settings) *Generator {
	return &Generator{settings: settings}
}

func (g *Generator) Settings() Settings {
	return g.settings
}

// Add appends one wall per node to dst, in node order.
// On error dst is returned unchanged.
func (g *Generator) Add(dst []Obstacle, nodes []*scene.Node, offset Offset) ([]Obstacle, error) {
	result := dst
	for _, node := range nodes {
		o, err := g.Obstacle(node, offset)
		if err != nil {
			return dst, err
		}
		result = append(result, o)
	}
	log.Printf("[walls] Generated %d walls", len(nodes))
	return result, nil
}

func (g *Generator) Generate(nodes []*scene.Node, offset Offset) ([]Obstacle, error) {
	return g.Add(make([]Obstacle, 0, len(nodes)), nodes, offset)
}

func (g *Generator) isHyper(name string) bool {
	return g.settings.HyperPrefix != "" && strings.HasPrefix(strings.ToLower(name), g.settings.HyperPrefix)
}

// Placement is the corner-pivoted position of a node in scene units
// together with its decomposition.
type Placement struct {
	Decomposition
	Corner mgl64.Vec3
}

// Place decomposes the offset node transform and moves the position from
// the cube center to the corner the wall is anchored at.
func (g *Generator) Place(node *scene.Node, offset Offset) (Placement, error) {
	var p Placement
	p.Decomposition = Decompose(offset.apply(node.Transform))

	for _, s := range p.Scale {
		if s == 0 || !(s >= g.settings.ScaleEpsilon) || math.IsInf(s, 0) {
			return p, &DegenerateScaleError{Node: node.Name, Scale: p.Scale}
		}
	}

	axes := g.settings.Axes
	rotation := p.Rotation

	// the wall rotates around its edge, not the cube center; keep the
	// visible geometry where the cube is
	pivot := utils.Vec3Mul(axes.pivotOffset(), p.Scale)
	correction := pivot.Sub(rotation.Mul3x1(pivot))

	corner := utils.Vec3Mul(axes.cornerOffset(), p.Scale)
	p.Corner = p.Position.Add(rotation.Mul3x1(corner)).Add(correction)
	return p, nil
}

func (g *Generator) Obstacle(node *scene.Node, offset Offset) (Obstacle, error) {
	p, err := g.Place(node, offset)
	if err != nil {
		return Obstacle{}, err
	}

	s := g.settings
	startX, startY := s.Axes.Plane(p.Corner)
	scaleX, scaleY := s.Axes.Plane(p.Scale)
	startX, startY = startX*s.Scale, startY*s.Scale
	scaleX, scaleY = scaleX*s.Scale, scaleY*s.Scale

	o := Obstacle{
		Time:     s.Axes.TimeOf(p.Corner),
		Duration: 2 * p.Scale[s.Axes.Time],
		Name:     node.Name,
		CustomData: CustomData{
			Position:                [2]float64{startX, startY},
			Scale:                   [2]float64{2 * scaleX, 2 * scaleY},
			Rotation:                offset.GlobalRotation,
			LocalRotation:           s.Axes.LocalRotation(p.Euler),
			NoteJumpStartBeatOffset: s.NoteJumpStartBeatOffset,
			Track:                   s.Track,
		},
	}
	if g.isHyper(node.Name) {
		o.Duration = s.HyperDuration
	}
	if node.Color != nil {
		color := [4]float64(*node.Color)
		o.CustomData.Color = &color
	}
	return o, nil
}
