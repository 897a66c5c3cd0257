package web

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mogaika/bsg_viewer/bsg"
	"github.com/mogaika/bsg_viewer/status"
	"github.com/mogaika/bsg_viewer/vr"
)

// Host is the part of the frame loop the server talks to.
type Host interface {
	Inject(e *vr.Event) error
	Exec(ctx context.Context, fn func()) error
}

// SceneSource hands out the scene being rendered, nil until it is built.
type SceneSource interface {
	Scene() *bsg.Scene
}

type Server struct {
	host     Host
	scenes   SceneSource
	upgrader websocket.Upgrader
}

func NewServer(host Host, scenes SceneSource) *Server {
	return &Server{
		host:   host,
		scenes: scenes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
		},
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/scene", s.HandlerJsonScene).Methods("GET")
	r.HandleFunc("/json/scene/{path:.+}", s.HandlerJsonSceneObject).Methods("GET")
	r.HandleFunc("/action/event", s.HandlerActionEvent).Methods("POST")
	r.HandleFunc("/ws/events", s.HandlerWsEvents)
	r.HandleFunc("/ws/status", status.Handler)
	r.HandleFunc("/dump/scene.glb", s.HandlerDumpGLB).Methods("GET")
	r.HandleFunc("/dump/scene.fbx", s.HandlerDumpFBX).Methods("GET")
	return r
}

func (s *Server) Handler() http.Handler {
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s.Router())
	h = handlers.CompressHandler(h)
	return handlers.LoggingHandler(os.Stdout, h)
}

func (s *Server) ListenAndServe(addr string) error {
	log.Printf("[web] Starting server %v", addr)
	return http.ListenAndServe(addr, s.Handler())
}
