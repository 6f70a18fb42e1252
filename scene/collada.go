package scene

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Subset of COLLADA 1.4/1.5 needed to place walls: visual scene nodes with
// their matrices and the diffuse colors of bound materials.

const (
	NamespaceCollada14 = "http://www.collada.org/2005/11/COLLADASchema"
	NamespaceCollada15 = "http://www.collada.org/2008/03/COLLADASchema"
)

type colladaDocument struct {
	XMLName      xml.Name             `xml:"COLLADA"`
	Version      string               `xml:"version,attr"`
	Effects      []colladaEffect      `xml:"library_effects>effect"`
	VisualScenes []colladaVisualScene `xml:"library_visual_scenes>visual_scene"`
	Scene        *colladaScene        `xml:"scene"`
}

type colladaScene struct {
	InstanceVisualScene *colladaInstance `xml:"instance_visual_scene"`
}

type colladaInstance struct {
	Url string `xml:"url,attr"`
}

type colladaVisualScene struct {
	Id    string        `xml:"id,attr"`
	Name  string        `xml:"name,attr"`
	Nodes []colladaNode `xml:"node"`
}

type colladaNode struct {
	Id               string                    `xml:"id,attr"`
	Name             string                    `xml:"name,attr"`
	Matrix           *colladaText              `xml:"matrix"`
	InstanceGeometry []colladaInstanceGeometry `xml:"instance_geometry"`
}

type colladaInstanceGeometry struct {
	Url          string               `xml:"url,attr"`
	BindMaterial *colladaBindMaterial `xml:"bind_material"`
}

type colladaBindMaterial struct {
	TechniqueCommon *colladaBindTechnique `xml:"technique_common"`
}

type colladaBindTechnique struct {
	InstanceMaterials []colladaInstanceMaterial `xml:"instance_material"`
}

type colladaInstanceMaterial struct {
	Symbol *string `xml:"symbol,attr"`
	Target string  `xml:"target,attr"`
}

type colladaEffect struct {
	Id            string                `xml:"id,attr"`
	Name          string                `xml:"name,attr"`
	ProfileCommon *colladaProfileCommon `xml:"profile_COMMON"`
}

type colladaProfileCommon struct {
	Technique *colladaEffectTechnique `xml:"technique"`
}

type colladaEffectTechnique struct {
	Lambert *colladaShading `xml:"lambert"`
	Phong   *colladaShading `xml:"phong"`
	Blinn   *colladaShading `xml:"blinn"`
}

type colladaShading struct {
	Diffuse *colladaColorOrTexture `xml:"diffuse"`
}

type colladaColorOrTexture struct {
	Color *colladaText `xml:"color"`
}

type colladaText struct {
	Sid   string `xml:"sid,attr"`
	Value string `xml:",chardata"`
}

func (t *colladaText) Floats(expected int) ([]float64, error) {
	fields := strings.Fields(t.Value)
	if len(fields) != expected {
		return nil, errors.Errorf("Expected %d values, got %d", expected, len(fields))
	}

	result := make([]float64, len(fields))
	for i, field := range fields {
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Value %d", i)
		}
		result[i] = f
	}
	return result, nil
}

func (doc *colladaDocument) visualScene() (*colladaVisualScene, error) {
	if len(doc.VisualScenes) == 0 {
		return nil, errors.Errorf("No visual_scene in library_visual_scenes")
	}

	if doc.Scene != nil && doc.Scene.InstanceVisualScene != nil {
		id := strings.TrimPrefix(doc.Scene.InstanceVisualScene.Url, "#")
		for i := range doc.VisualScenes {
			if doc.VisualScenes[i].Id == id {
				return &doc.VisualScenes[i], nil
			}
		}
	}
	return &doc.VisualScenes[0], nil
}

// diffuse returns the diffuse color of the technique, whatever shading model
// the exporter picked.
func (t *colladaEffectTechnique) diffuse() *colladaText {
	for _, shading := range []*colladaShading{t.Lambert, t.Phong, t.Blinn} {
		if shading != nil && shading.Diffuse != nil && shading.Diffuse.Color != nil {
			return shading.Diffuse.Color
		}
	}
	return nil
}
