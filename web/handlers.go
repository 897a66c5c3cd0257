package web

import (
	"bytes"
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/bsg_viewer/bsg"
	"github.com/mogaika/bsg_viewer/utils/gltfutils"
	"github.com/mogaika/bsg_viewer/vr"
	"github.com/mogaika/bsg_viewer/webutils"
)

var errSceneNotReady = errors.New("Scene is not built yet")

type notFoundError struct{ error }

// withScene runs fn on the render thread.
func (s *Server) withScene(ctx context.Context, fn func(sc *bsg.Scene) error) error {
	var err error
	if execErr := s.host.Exec(ctx, func() {
		sc := s.scenes.Scene()
		if sc == nil {
			err = errSceneNotReady
			return
		}
		err = fn(sc)
	}); execErr != nil {
		return errors.Wrap(execErr, "Render thread")
	}
	return err
}

func writeSceneError(w http.ResponseWriter, err error) {
	switch {
	case err == errSceneNotReady:
		webutils.WriteErrorStatus(w, http.StatusServiceUnavailable, err)
	case errors.As(err, &notFoundError{}):
		webutils.WriteErrorStatus(w, http.StatusNotFound, err)
	default:
		webutils.WriteError(w, err)
	}
}

func (s *Server) HandlerJsonScene(w http.ResponseWriter, r *http.Request) {
	var info *bsg.NodeInfo
	if err := s.withScene(r.Context(), func(sc *bsg.Scene) error {
		info = bsg.Describe(sc.Root())
		return nil
	}); err != nil {
		writeSceneError(w, err)
		return
	}
	webutils.WriteJson(w, info)
}

func (s *Server) HandlerJsonSceneObject(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]
	var info *bsg.NodeInfo
	if err := s.withScene(r.Context(), func(sc *bsg.Scene) error {
		d, err := sc.Find(path)
		if err != nil {
			return notFoundError{err}
		}
		info = bsg.Describe(d)
		return nil
	}); err != nil {
		writeSceneError(w, err)
		return
	}
	webutils.WriteJson(w, info)
}

func (s *Server) HandlerActionEvent(w http.ResponseWriter, r *http.Request) {
	var e vr.Event
	if err := webutils.ReadJson(r, &e); err != nil {
		webutils.WriteErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	if e.Name == "" {
		webutils.WriteErrorStatus(w, http.StatusBadRequest, errors.Errorf("Event has no name"))
		return
	}
	if err := s.host.Inject(&e); err != nil {
		webutils.WriteErrorStatus(w, http.StatusServiceUnavailable, err)
		return
	}
	webutils.WriteJson(w, map[string]string{"result": "ok", "event": e.Name})
}

// HandlerWsEvents reads json events from a websocket, the way a networked
// tracker would stream them, and feeds them to the frame loop.
func (s *Server) HandlerWsEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	defer conn.Close()

	for {
		var e vr.Event
		if err := conn.ReadJSON(&e); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[web] ws events read error: %v", err)
			}
			return
		}
		if e.Name == "" {
			continue
		}
		if err := s.host.Inject(&e); err != nil {
			log.Printf("[web] ws events: %v", err)
			conn.WriteJSON(map[string]string{"error": err.Error()})
		}
	}
}

func (s *Server) HandlerDumpGLB(w http.ResponseWriter, r *http.Request) {
	var doc *gltf.Document
	if err := s.withScene(r.Context(), func(sc *bsg.Scene) error {
		doc = bsg.ExportGLTF(sc.Root())
		return nil
	}); err != nil {
		writeSceneError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := gltfutils.ExportBinary(&buf, doc); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to encode glb"))
		return
	}
	webutils.WriteFile(w, &buf, "scene.glb")
}

func (s *Server) HandlerDumpFBX(w http.ResponseWriter, r *http.Request) {
	var f *bsg.FBXDocument
	if err := s.withScene(r.Context(), func(sc *bsg.Scene) error {
		f = bsg.ExportFBX(sc.Root(), "scene.fbx")
		return nil
	}); err != nil {
		writeSceneError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to encode fbx"))
		return
	}
	webutils.WriteFile(w, &buf, "scene.fbx")
}
