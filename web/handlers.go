package web

import (
	"bytes"
	"log"
	"net/http"
	"path/filepath"

	"github.com/mogaika/scenewalls/convert"
	"github.com/mogaika/scenewalls/preview"
	"github.com/mogaika/scenewalls/scene"
	"github.com/mogaika/scenewalls/status"
	"github.com/mogaika/scenewalls/utils"
	"github.com/mogaika/scenewalls/webutils"
)

func wantDownload(r *http.Request) bool {
	return r.URL.Query().Get("download") != ""
}

func (s *Server) HandlerConfig(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()
	webutils.WriteJson(w, s.cfg)
}

func (s *Server) HandlerWalls(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, obstacles, err := convert.Generate(s.cfg)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	if wantDownload(r) {
		webutils.WriteJsonFile(w, obstacles, "walls")
	} else {
		webutils.WriteJson(w, obstacles)
	}
}

func (s *Server) HandlerLevel(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	result, err := convert.Build(s.cfg)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	data, err := result.Document.Bytes()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	if wantDownload(r) {
		webutils.WriteFile(w, bytes.NewReader(data), filepath.Base(s.cfg.Level))
	} else {
		webutils.WriteRawJson(w, data)
	}
}

func (s *Server) HandlerPreview(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, obstacles, err := convert.Generate(s.cfg)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	doc, err := preview.Build(obstacles, s.cfg.Scale)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	var buffer bytes.Buffer
	if err := preview.WriteBinary(&buffer, doc); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buffer, "preview.glb")
}

func (s *Server) HandlerWrite(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	result, err := convert.Run(s.cfg)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, map[string]interface{}{
		"level": s.cfg.Level,
		"walls": len(result.Obstacles),
	})
}

// HandlerDumpNodes shows the loaded scene nodes as a spew dump.
func (s *Server) HandlerDumpNodes(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	nodes, err := scene.Load(s.cfg.Scene, scene.OptionsFromConfig(s.cfg))
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	webutils.WriteResult(w, []byte(utils.SDump(nodes)))
}

func (s *Server) HandlerLastStatus(w http.ResponseWriter, r *http.Request) {
	m, ok := status.Last()
	if !ok {
		webutils.WriteJson(w, nil)
		return
	}
	webutils.WriteJson(w, m)
}

func (s *Server) HandlerStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] Failed to upgrade status connection: %v", err)
		return
	}
	status.NewClient(conn)
}
