// Package web serves generated walls for checking a scene before it is
// written into the level.
package web

import (
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mogaika/scenewalls/config"
)

type Server struct {
	// conversions read the scene and write the level, one at a time
	lock     sync.Mutex
	cfg      *config.Config
	upgrader websocket.Upgrader
}

func NewServer(cfg *config.Config) *Server {
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/config", s.HandlerConfig).Methods("GET")
	r.HandleFunc("/json/walls", s.HandlerWalls).Methods("GET")
	r.HandleFunc("/json/level", s.HandlerLevel).Methods("GET")
	r.HandleFunc("/json/status", s.HandlerLastStatus).Methods("GET")
	r.HandleFunc("/dump/nodes", s.HandlerDumpNodes).Methods("GET")
	r.HandleFunc("/preview.glb", s.HandlerPreview).Methods("GET")
	r.HandleFunc("/action/write", s.HandlerWrite).Methods("POST")
	r.HandleFunc("/ws/status", s.HandlerStatus)
	return r
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router()
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	h = handlers.LoggingHandler(os.Stdout, h)
	return h
}

func StartServer(addr string, cfg *config.Config) error {
	log.Printf("[web] Starting server %v (scene %q, level %q)", addr, cfg.Scene, cfg.Level)
	return http.ListenAndServe(addr, NewServer(cfg).Handler())
}
