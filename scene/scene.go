// Package scene loads the transform nodes of a COLLADA document exported
// from a modeling tool. Every top level node of the visual scene is expected
// to be an instance of a unit cube spanning [-1, 1] on each axis.
package scene

import (
	"encoding/xml"
	"io"
	"log"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/mogaika/scenewalls/config"
)

// Color is linear RGBA as written by the exporter.
type Color [4]float64

type Node struct {
	Name      string
	Transform mgl64.Mat4
	// nil when the node has no material bound
	Color    *Color
	Material string
}

type Options struct {
	// RGB of materials whose name contains UnnamedMaterialMarker is
	// multiplied by ColorMultiplier. Alpha is kept.
	ColorMultiplier       float64
	UnnamedMaterialMarker string
}

func DefaultOptions() Options {
	cfg := config.Default()
	return OptionsFromConfig(cfg)
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ColorMultiplier:       cfg.ColorMultiplier,
		UnnamedMaterialMarker: cfg.UnnamedMaterialMarker,
	}
}

func Load(path string, opts Options) ([]*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: errors.Wrapf(err, "Failed to open")}
	}
	defer f.Close()

	nodes, err := Decode(f, opts)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	log.Printf("[scene] Loaded %d nodes from %q", len(nodes), path)
	return nodes, nil
}

// Decode parses a COLLADA document. Nodes are returned in document order.
func Decode(r io.Reader, opts Options) ([]*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = config.CharsetReader

	var doc colladaDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, &LoadError{Err: errors.Wrapf(err, "Failed to parse xml")}
	}

	switch doc.XMLName.Space {
	case NamespaceCollada14, NamespaceCollada15:
	default:
		return nil, &LoadError{Err: errors.Errorf("Unknown COLLADA namespace %q", doc.XMLName.Space)}
	}

	vs, err := doc.visualScene()
	if err != nil {
		return nil, &LoadError{Err: err}
	}

	effects := make(map[string]*colladaEffect, len(doc.Effects))
	for i := range doc.Effects {
		effects[doc.Effects[i].Id] = &doc.Effects[i]
	}

	nodes := make([]*Node, 0, len(vs.Nodes))
	for i := range vs.Nodes {
		cn := &vs.Nodes[i]
		node, err := newNode(cn, effects, opts)
		if err != nil {
			name := cn.Name
			if name == "" {
				name = cn.Id
			}
			return nil, &LoadError{Node: name, Err: err}
		}
		nodes = append(nodes, node)
	}

	return nodes, nil
}

func newNode(cn *colladaNode, effects map[string]*colladaEffect, opts Options) (*Node, error) {
	node := &Node{Name: cn.Name}
	if node.Name == "" {
		node.Name = cn.Id
	}

	if cn.Matrix == nil {
		return nil, errors.Errorf("Missing matrix")
	}
	values, err := cn.Matrix.Floats(16)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid matrix")
	}
	node.Transform = mgl64.Mat4FromRows(
		mgl64.Vec4{values[0], values[1], values[2], values[3]},
		mgl64.Vec4{values[4], values[5], values[6], values[7]},
		mgl64.Vec4{values[8], values[9], values[10], values[11]},
		mgl64.Vec4{values[12], values[13], values[14], values[15]},
	)

	if len(cn.InstanceGeometry) == 0 || cn.InstanceGeometry[0].BindMaterial == nil {
		return node, nil
	}

	material, err := boundMaterialName(cn.InstanceGeometry[0].BindMaterial)
	if err != nil {
		return nil, err
	}
	node.Material = material

	// material without an effect keeps the default color
	effect, ok := effects[material+"-effect"]
	if !ok {
		return node, nil
	}

	color, err := effectColor(effect)
	if err != nil {
		return nil, errors.Wrapf(err, "Effect %q", effect.Id)
	}
	if opts.UnnamedMaterialMarker != "" && strings.Contains(material, opts.UnnamedMaterialMarker) {
		for i := 0; i < 3; i++ {
			color[i] *= opts.ColorMultiplier
		}
	}
	node.Color = &color

	return node, nil
}

// boundMaterialName turns the instance_material symbol ("Red-material")
// into the material name ("Red") by dropping the last dash separated part.
func boundMaterialName(bm *colladaBindMaterial) (string, error) {
	if bm.TechniqueCommon == nil {
		return "", errors.Errorf("bind_material without technique_common")
	}
	if len(bm.TechniqueCommon.InstanceMaterials) == 0 {
		return "", errors.Errorf("bind_material without instance_material")
	}
	symbol := bm.TechniqueCommon.InstanceMaterials[0].Symbol
	if symbol == nil {
		return "", errors.Errorf("instance_material without symbol")
	}

	parts := strings.Split(*symbol, "-")
	return strings.Join(parts[:len(parts)-1], "-"), nil
}

func effectColor(effect *colladaEffect) (Color, error) {
	var color Color
	if effect.ProfileCommon == nil || effect.ProfileCommon.Technique == nil {
		return color, errors.Errorf("Missing profile_COMMON technique")
	}
	text := effect.ProfileCommon.Technique.diffuse()
	if text == nil {
		return color, errors.Errorf("Missing diffuse color")
	}
	values, err := text.Floats(4)
	if err != nil {
		return color, errors.Wrapf(err, "Invalid diffuse color")
	}
	copy(color[:], values)
	return color, nil
}
