package convert

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scenewalls/config"
	"github.com/mogaika/scenewalls/level"
	"github.com/mogaika/scenewalls/scene"
	"github.com/mogaika/scenewalls/walls"
)

const levelJSON = `{"_version":"2.0.0","_notes":[{"_time":4,"_lineIndex":1}],"_obstacles":[],"_events":[]}`

func sceneXML(nodes ...string) string {
	var body string
	for _, n := range nodes {
		body += n
	}
	return `<?xml version="1.0" encoding="utf-8"?>
<COLLADA xmlns="http://www.collada.org/2005/11/COLLADASchema" version="1.4.1">
  <library_visual_scenes>
    <visual_scene id="Scene" name="Scene">` + body + `
    </visual_scene>
  </library_visual_scenes>
  <scene>
    <instance_visual_scene url="#Scene"/>
  </scene>
</COLLADA>`
}

func nodeXML(name, matrix string) string {
	return fmt.Sprintf(`
      <node id="%s" name="%s" type="NODE">
        <matrix sid="transform">%s</matrix>
        <instance_geometry url="#Cube-mesh" name="%s"/>
      </node>`, name, name, matrix, name)
}

func setup(t *testing.T, sceneData, levelData string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Scene = filepath.Join(dir, "track.dae")
	cfg.Level = filepath.Join(dir, "EasyOneSaber.dat")
	require.NoError(t, ioutil.WriteFile(cfg.Scene, []byte(sceneData), 0644))
	require.NoError(t, ioutil.WriteFile(cfg.Level, []byte(levelData), 0644))
	return cfg
}

func TestRunSingleWall(t *testing.T) {
	cfg := setup(t, sceneXML(nodeXML("Wall1", "1 0 0 2 0 1 0 1 0 0 1 1 0 0 0 1")), levelJSON)

	r, err := Run(cfg)
	require.NoError(t, err)
	require.Len(t, r.Nodes, 1)

	data, err := ioutil.ReadFile(cfg.Level)
	require.NoError(t, err)

	var out struct {
		Version    string            `json:"_version"`
		Notes      []json.RawMessage `json:"_notes"`
		Obstacles  []walls.Obstacle  `json:"_obstacles"`
		CustomData struct {
			CustomEvents []level.CustomEvent `json:"_customEvents"`
		} `json:"_customData"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	expected := []walls.Obstacle{{
		Time:     -3,
		Duration: 2,
		CustomData: walls.CustomData{
			Position:                [2]float64{0, 0},
			Scale:                   [2]float64{10, 10},
			LocalRotation:           [3]float64{0, 0, 0},
			NoteJumpStartBeatOffset: 4,
			Track:                   "New Mombasa",
		},
	}}
	if diff := cmp.Diff(expected, out.Obstacles); diff != "" {
		t.Errorf("obstacles mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "2.0.0", out.Version)
	assert.Len(t, out.Notes, 1)
	require.Len(t, out.CustomData.CustomEvents, 2)
	assert.Equal(t, level.EventAssignPathAnimation, out.CustomData.CustomEvents[0].Type)
	assert.Equal(t, level.EventAnimateTrack, out.CustomData.CustomEvents[1].Type)
	assert.Equal(t, 338.75, out.CustomData.CustomEvents[1].Time)

	assert.Contains(t, string(data), `{"_version":"2.0.0","_notes":[{"_time":4,"_lineIndex":1}],"_obstacles":[`)
	assert.Contains(t, string(data), `,"_events":[],"_customData":{"_customEvents":[`)
}

func TestRunIsRepeatable(t *testing.T) {
	cfg := setup(t, sceneXML(
		nodeXML("Wall2", "1 0 0 5 0 1 0 0 0 0 1 0 0 0 0 1"),
		nodeXML("Wall1", "1 0 0 2 0 1 0 1 0 0 1 1 0 0 0 1"),
		nodeXML("HyperWall", "0 -1 0 3 1 0 0 0 0 0 2 0 0 0 0 1"),
	), levelJSON)

	r, err := Run(cfg)
	require.NoError(t, err)
	first, err := ioutil.ReadFile(cfg.Level)
	require.NoError(t, err)

	// sorted by time, not by node order
	require.Len(t, r.Obstacles, 3)
	for i := 1; i < len(r.Obstacles); i++ {
		assert.LessOrEqual(t, r.Obstacles[i-1].Time, r.Obstacles[i].Time)
	}

	_, err = Run(cfg)
	require.NoError(t, err)
	second, err := ioutil.ReadFile(cfg.Level)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestBuildDoesNotWrite(t *testing.T) {
	cfg := setup(t, sceneXML(nodeXML("Wall1", "1 0 0 2 0 1 0 1 0 0 1 1 0 0 0 1")), levelJSON)

	r, err := Build(cfg)
	require.NoError(t, err)
	assert.True(t, r.Document.Has(level.KeyCustomData))

	data, err := ioutil.ReadFile(cfg.Level)
	require.NoError(t, err)
	assert.Equal(t, levelJSON, string(data))
}

func TestRunFailuresLeaveLevelUntouched(t *testing.T) {
	wall := nodeXML("Wall1", "1 0 0 2 0 1 0 1 0 0 1 1 0 0 0 1")

	for _, tc := range []struct {
		name  string
		scene string
		level string
		check func(error) bool
	}{
		{"broken scene", "<COLLADA", levelJSON, scene.IsLoadError},
		{"flat node", sceneXML(nodeXML("Flat", "1 0 0 0 0 0 0 0 0 0 1 0 0 0 0 1")), levelJSON, walls.IsDegenerateScale},
		{"no obstacles", sceneXML(wall), `{"_notes":[]}`, level.IsDocumentError},
		{"custom data list", sceneXML(wall), `{"_obstacles":[],"_customData":[]}`, level.IsDocumentError},
		{"not json", sceneXML(wall), `not json`, level.IsDocumentError},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := setup(t, tc.scene, tc.level)

			_, err := Run(cfg)
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error type: %v", err)

			data, err := ioutil.ReadFile(cfg.Level)
			require.NoError(t, err)
			assert.Equal(t, tc.level, string(data))
		})
	}
}

func TestRunMissingLevel(t *testing.T) {
	cfg := setup(t, sceneXML(nodeXML("Wall1", "1 0 0 2 0 1 0 1 0 0 1 1 0 0 0 1")), levelJSON)
	cfg.Level = filepath.Join(t.TempDir(), "missing.dat")

	_, err := Run(cfg)
	require.Error(t, err)
	assert.True(t, level.IsDocumentError(err))
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := setup(t, sceneXML(), levelJSON)
	cfg.Scale = 0

	_, err := Run(cfg)
	assert.Error(t, err)
}
