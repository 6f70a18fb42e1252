package web

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scenewalls/config"
	"github.com/mogaika/scenewalls/walls"
)

const (
	testLevel = `{"_version":"2.0.0","_obstacles":[]}`
	testScene = `<?xml version="1.0" encoding="utf-8"?>
<COLLADA xmlns="http://www.collada.org/2005/11/COLLADASchema" version="1.4.1">
  <library_visual_scenes>
    <visual_scene id="Scene" name="Scene">
      <node id="Wall1" name="Wall1" type="NODE">
        <matrix sid="transform">1 0 0 2 0 1 0 1 0 0 1 1 0 0 0 1</matrix>
        <instance_geometry url="#Cube-mesh" name="Wall1"/>
      </node>
    </visual_scene>
  </library_visual_scenes>
</COLLADA>`
)

func newTestServer(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Scene = filepath.Join(dir, "track.dae")
	cfg.Level = filepath.Join(dir, "EasyOneSaber.dat")
	require.NoError(t, ioutil.WriteFile(cfg.Scene, []byte(testScene), 0644))
	require.NoError(t, ioutil.WriteFile(cfg.Level, []byte(testLevel), 0644))

	server := httptest.NewServer(NewServer(cfg).Handler())
	t.Cleanup(server.Close)
	return server, cfg
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHandlerWalls(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := get(t, server.URL+"/json/walls")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var obstacles []walls.Obstacle
	require.NoError(t, json.Unmarshal(body, &obstacles))
	require.Len(t, obstacles, 1)
	assert.Equal(t, -3.0, obstacles[0].Time)
	assert.Equal(t, [2]float64{10, 10}, obstacles[0].CustomData.Scale)

	resp, _ = get(t, server.URL+"/json/walls?download=1")
	assert.Equal(t, `attachment; filename="walls.json"`, resp.Header.Get("Content-Disposition"))
}

func TestHandlerLevelDoesNotWrite(t *testing.T) {
	server, cfg := newTestServer(t)

	resp, body := get(t, server.URL+"/json/level")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(body), `{"_version":"2.0.0","_obstacles":[{`))
	assert.Contains(t, string(body), `"_customData":{"_customEvents":[`)

	data, err := ioutil.ReadFile(cfg.Level)
	require.NoError(t, err)
	assert.Equal(t, testLevel, string(data))
}

func TestHandlerPreview(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := get(t, server.URL+"/preview.glb")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "glTF", string(body[:4]))
}

func TestHandlerWrite(t *testing.T) {
	server, cfg := newTestServer(t)

	resp, _ := get(t, server.URL+"/action/write")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err := http.Post(server.URL+"/action/write", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Level string `json:"level"`
		Walls int    `json:"walls"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 1, result.Walls)

	data, err := ioutil.ReadFile(cfg.Level)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"_customEvents"`)
}

func TestHandlerErrors(t *testing.T) {
	server, cfg := newTestServer(t)
	require.NoError(t, ioutil.WriteFile(cfg.Level, []byte(`{"_notes":[]}`), 0644))

	resp, body := get(t, server.URL+"/json/level")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), `"error"`)
}

func TestHandlerDumpNodes(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := get(t, server.URL+"/dump/nodes")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"Wall1"`)
	assert.Contains(t, string(body), "Transform")
}

func TestHandlerLastStatus(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/action/write", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	resp, body := get(t, server.URL+"/json/status")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var last struct {
		Message  string  `json:"message"`
		Progress float64 `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(body, &last))
	assert.Contains(t, last.Message, "Wrote 1 walls")
	assert.Equal(t, 1.0, last.Progress)
}
