// Package preview exports generated walls as a glTF scene, so a map can be
// checked in any model viewer without starting the game.
package preview

import (
	"fmt"
	"io"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/scenewalls/utils"
	"github.com/mogaika/scenewalls/walls"
)

// walls with hyper or zero duration still get some depth
const minDepth = 0.1

var defaultColor = [4]float32{0.5, 0.5, 0.5, 1}

// unit cube spanning [0, 1], corner at origin like a wall
func writeCube(doc *gltf.Document) (positions, normals, indices uint32) {
	faces := []struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{1, 0, 0}, [4][3]float32{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
		{[3]float32{0, 0, 1}, [4][3]float32{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},
	}

	vertices := make([][3]float32, 0, 24)
	vertexNormals := make([][3]float32, 0, 24)
	triangles := make([]uint32, 0, 36)
	for _, face := range faces {
		base := uint32(len(vertices))
		for _, corner := range face.corners {
			vertices = append(vertices, corner)
			vertexNormals = append(vertexNormals, face.normal)
		}
		triangles = append(triangles, base, base+1, base+2, base, base+2, base+3)
	}

	return modeler.WritePosition(doc, vertices),
		modeler.WriteNormal(doc, vertexNormals),
		modeler.WriteIndices(doc, triangles)
}

type builder struct {
	doc       *gltf.Document
	materials map[[4]float32]uint32
	meshes    map[uint32]uint32
	positions uint32
	normals   uint32
	indices   uint32
}

func (b *builder) material(color [4]float32) uint32 {
	if id, ok := b.materials[color]; ok {
		return id
	}
	c := new([4]float32)
	*c = color

	id := uint32(len(b.doc.Materials))
	b.doc.Materials = append(b.doc.Materials, &gltf.Material{
		Name:        fmt.Sprintf("wall_%d", id),
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: c,
		},
	})
	b.materials[color] = id
	return id
}

// mesh returns the cube mesh using material, all of them share accessors
func (b *builder) mesh(material uint32) uint32 {
	if id, ok := b.meshes[material]; ok {
		return id
	}
	indices := b.indices
	id := uint32(len(b.doc.Meshes))
	b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{
		Name: fmt.Sprintf("cube_%d", material),
		Primitives: []*gltf.Primitive{
			&gltf.Primitive{
				Indices: &indices,
				Attributes: map[string]uint32{
					"POSITION": b.positions,
					"NORMAL":   b.normals,
				},
				Material: gltf.Index(material),
			},
		},
	})
	b.meshes[material] = id
	return id
}

func colorOf(o *walls.Obstacle) [4]float32 {
	if o.CustomData.Color == nil {
		return defaultColor
	}
	var c [4]float32
	for i, v := range o.CustomData.Color {
		c[i] = float32(mgl64.Clamp(v, 0, 1))
	}
	return c
}

func float32Vec3(v mgl64.Vec3) [3]float32 {
	var out [3]float32
	copy(out[:], utils.FloatArray64to32(v[:]))
	return out
}

// Build places every wall in lane space: x and y are the wall position,
// z is time multiplied by scale, so walls line up the way they were
// modeled. Local rotation uses the game's euler order but turns around the
// wall corner, so rotated walls are only approximately where the game
// draws them.
func Build(obstacles []walls.Obstacle, scale float64) (*gltf.Document, error) {
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, errors.Errorf("Invalid preview scale %v", scale)
	}

	b := &builder{
		doc:       gltf.NewDocument(),
		materials: make(map[[4]float32]uint32),
		meshes:    make(map[uint32]uint32),
	}
	b.positions, b.normals, b.indices = writeCube(b.doc)

	var names utils.RandomNameGenerator
	for i := range obstacles {
		o := &obstacles[i]
		cd := &o.CustomData

		depth := math.Max(o.Duration, minDepth) * scale
		q := utils.EulerZXYToQuat(mgl64.Vec3(cd.LocalRotation))

		mesh := b.mesh(b.material(colorOf(o)))
		b.doc.Nodes = append(b.doc.Nodes, &gltf.Node{
			Name:        names.UniqueName(o.Name),
			Translation: float32Vec3(mgl64.Vec3{cd.Position[0], cd.Position[1], o.Time * scale}),
			Rotation:    [4]float32{float32(q.V[0]), float32(q.V[1]), float32(q.V[2]), float32(q.W)},
			Scale:       float32Vec3(mgl64.Vec3{cd.Scale[0], cd.Scale[1], depth}),
			Mesh:        gltf.Index(mesh),
		})
	}

	for iNode := range b.doc.Nodes {
		b.doc.Scenes[0].Nodes = append(b.doc.Scenes[0].Nodes, uint32(iNode))
	}
	log.Printf("[preview] Built %d nodes, %d materials", len(b.doc.Nodes), len(b.doc.Materials))
	return b.doc, nil
}

func WriteBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return errors.Wrapf(encoder.Encode(doc), "Failed to encode glb")
}

// Save writes a binary glTF file, or a json one when path ends with .gltf.
func Save(doc *gltf.Document, path string) error {
	save := gltf.SaveBinary
	if strings.EqualFold(filepath.Ext(path), ".gltf") {
		save = gltf.Save
	}
	if err := save(doc, path); err != nil {
		return errors.Wrapf(err, "Failed to save %q", path)
	}
	log.Printf("[preview] Saved %q", path)
	return nil
}
