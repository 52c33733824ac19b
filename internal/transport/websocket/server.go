package websocket

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/grid"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

//go:embed static
var staticFiles embed.FS

// ScoreSource lists stored scores.
type ScoreSource interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
}

// Server routes HTTP and WebSocket requests.
type Server struct {
	sessions *session.Manager
	hub      *Hub
	scores   ScoreSource
	router   *mux.Router
	logger   *log.Logger
}

// NewServer creates a server. scores may be nil, in which case the
// scores endpoint returns an empty list.
func NewServer(sessions *session.Manager, hub *Hub, scores ScoreSource, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		sessions: sessions,
		hub:      hub,
		scores:   scores,
		router:   mux.NewRouter(),
		logger:   logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scores/{game}", s.handleScores).Methods("GET")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")

	s.router.HandleFunc("/ws", s.handlePlay)
	s.router.HandleFunc("/ws/watch/{session}", s.handleWatch)

	static, _ := fs.Sub(staticFiles, "static")
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(static)))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["game"]

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries := []storage.ScoreEntry{}
	if s.scores != nil {
		found, err := s.scores.TopScores(gameID, limit)
		if err != nil {
			s.logger.Error("cannot load scores", "game", gameID, "err", err)
			respondError(w, http.StatusInternalServerError, "cannot load scores")
			return
		}
		if found != nil {
			entries = found
		}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.sessions.List())
}

// handlePlay upgrades the connection and gives it a new session.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.logger.Error("cannot create session", "err", err)
		respondError(w, http.StatusInternalServerError, "cannot create session")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		s.sessions.Delete(sess.ID) //nolint:errcheck
		return
	}

	c := &Client{
		hub:       s.hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: sess.ID,
		player:    true,
	}
	s.hub.Register(c)
	s.hub.Send(c, stateFrame(sess.ID, sess.Snapshot()))
	s.logger.Info("player connected", "session", sess.ID, "remote", r.RemoteAddr)

	go c.writePump()
	go c.readPump(s.handleFrame, func() {
		s.sessions.Delete(sess.ID) //nolint:errcheck
		s.logger.Info("player disconnected", "session", sess.ID)
	})
}

// handleWatch attaches a read-only spectator to an existing session.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["session"]
	sess, err := s.sessions.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := &Client{
		hub:       s.hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: id,
	}
	s.hub.Register(c)
	s.hub.Send(c, stateFrame(id, sess.Snapshot()))
	s.logger.Info("spectator connected", "session", id, "remote", r.RemoteAddr)

	go c.writePump()
	go c.readPump(nil, nil)
}

// handleFrame applies one player frame and publishes the result.
func (s *Server) handleFrame(c *Client, data []byte) {
	var f ClientFrame
	if err := json.Unmarshal(data, &f); err != nil {
		s.hub.Send(c, errorFrame(fmt.Errorf("malformed frame: %w", err)))
		return
	}

	sess, err := s.sessions.Get(c.sessionID)
	if err != nil {
		s.hub.Send(c, errorFrame(err))
		return
	}

	switch f.Type {
	case FrameMove:
		dir, err := grid.ParseDirection(f.Direction)
		if err != nil {
			s.hub.Send(c, errorFrame(err))
			return
		}
		res, err := sess.Move(dir)
		if err != nil {
			s.hub.Send(c, errorFrame(err))
			return
		}
		s.hub.Broadcast(c.sessionID, moveFrame(c.sessionID, sess.Snapshot(), res))

	case FrameNewGame:
		snap, err := sess.NewGame()
		if err != nil {
			s.hub.Send(c, errorFrame(err))
			return
		}
		s.hub.Broadcast(c.sessionID, stateFrame(c.sessionID, snap))

	case FrameState:
		s.hub.Send(c, stateFrame(c.sessionID, sess.Snapshot()))

	default:
		s.hub.Send(c, errorFrame(errors.New("unknown frame type "+strconv.Quote(f.Type))))
	}
}
