package websocket

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/grid"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

type fakeScores map[string][]storage.ScoreEntry

func (f fakeScores) TopScores(gameID string, limit int) ([]storage.ScoreEntry, error) {
	entries := f[gameID]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

type testEnv struct {
	server   *httptest.Server
	sessions *session.Manager
	hub      *Hub
}

func newTestEnv(t *testing.T, scores ScoreSource) *testEnv {
	t.Helper()

	logger := log.New(io.Discard)
	sessions, err := session.NewManager(session.Options{Engine: grid.DefaultConfig(), Seed: 1, Logger: logger})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger)
	go hub.Run(ctx)

	server := httptest.NewServer(NewServer(sessions, hub, scores, logger))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return &testEnv{server: server, sessions: sessions, hub: hub}
}

func (e *testEnv) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(e.server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial(%s) error = %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) (string, []byte) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		t.Fatalf("frame %s is not JSON: %v", data, err)
	}
	return head.Type, data
}

func readState(t *testing.T, conn *websocket.Conn) StateFrame {
	t.Helper()
	typ, data := readFrame(t, conn)
	if typ != FrameState {
		t.Fatalf("frame type = %q, want %q (%s)", typ, FrameState, data)
	}
	var f StateFrame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("cannot decode state frame: %v", err)
	}
	return f
}

func send(t *testing.T, conn *websocket.Conn, f ClientFrame) {
	t.Helper()
	if err := conn.WriteJSON(f); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := http.Get(env.server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("body = %v, want status ok", body)
	}
}

func TestScoresEndpoint(t *testing.T) {
	env := newTestEnv(t, fakeScores{
		"2048": {{ID: 1, GameID: "2048", Score: 900}, {ID: 2, GameID: "2048", Score: 500}},
	})

	tests := []struct {
		path   string
		status int
		count  int
	}{
		{"/api/scores/2048", http.StatusOK, 2},
		{"/api/scores/2048?limit=1", http.StatusOK, 1},
		{"/api/scores/2048_endless", http.StatusOK, 0},
		{"/api/scores/2048?limit=zero", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(env.server.URL + tt.path)
			if err != nil {
				t.Fatalf("GET error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			var entries []storage.ScoreEntry
			if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
				t.Fatalf("decode error = %v", err)
			}
			if len(entries) != tt.count {
				t.Errorf("entries = %d, want %d", len(entries), tt.count)
			}
		})
	}
}

func TestIndexPage(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := http.Get(env.server.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestPlayOverWebSocket(t *testing.T) {
	env := newTestEnv(t, nil)
	conn := env.dial(t, "/ws")

	initial := readState(t, conn)
	if initial.SessionID == "" {
		t.Fatal("initial frame has no session id")
	}
	if len(initial.Tiles) != 2 {
		t.Errorf("initial tiles = %d, want 2", len(initial.Tiles))
	}
	if len(initial.Board) != 4 {
		t.Errorf("initial board rows = %d, want 4", len(initial.Board))
	}
	if env.sessions.Len() != 1 {
		t.Errorf("sessions = %d, want 1", env.sessions.Len())
	}

	send(t, conn, ClientFrame{Type: FrameMove, Direction: "sideways"})
	if typ, _ := readFrame(t, conn); typ != FrameError {
		t.Errorf("bad direction frame type = %q, want %q", typ, FrameError)
	}

	send(t, conn, ClientFrame{Type: "jump"})
	if typ, _ := readFrame(t, conn); typ != FrameError {
		t.Errorf("unknown frame type = %q, want %q", typ, FrameError)
	}

	moved := false
	for _, dir := range []string{"left", "right", "up", "down"} {
		send(t, conn, ClientFrame{Type: FrameMove, Direction: dir})
		f := readState(t, conn)
		if f.SessionID != initial.SessionID {
			t.Errorf("session id changed to %s", f.SessionID)
		}
		if f.Moved {
			moved = true
			if f.Spawned == nil {
				t.Error("moved frame has no spawned tile")
			}
		}
	}
	if !moved {
		t.Error("no move changed the board")
	}

	send(t, conn, ClientFrame{Type: FrameNewGame})
	fresh := readState(t, conn)
	if fresh.Score != 0 || len(fresh.Tiles) != 2 {
		t.Errorf("new game frame score=%d tiles=%d, want 0 and 2", fresh.Score, len(fresh.Tiles))
	}
}

func TestPlayerDisconnectDeletesSession(t *testing.T) {
	env := newTestEnv(t, nil)
	conn := env.dial(t, "/ws")
	readState(t, conn)

	conn.Close()
	waitFor(t, "session cleanup", func() bool { return env.sessions.Len() == 0 })
}

func TestWatchReceivesUpdates(t *testing.T) {
	env := newTestEnv(t, nil)

	player := env.dial(t, "/ws")
	initial := readState(t, player)

	watcher := env.dial(t, "/ws/watch/"+initial.SessionID)
	watched := readState(t, watcher)
	if watched.Score != initial.Score || len(watched.Tiles) != len(initial.Tiles) {
		t.Errorf("watcher state = %+v, want %+v", watched.Snapshot, initial.Snapshot)
	}
	if got := env.hub.Clients(initial.SessionID); got != 2 {
		t.Errorf("Clients() = %d, want 2", got)
	}

	send(t, player, ClientFrame{Type: FrameNewGame})
	readState(t, player)
	update := readState(t, watcher)
	if update.SessionID != initial.SessionID {
		t.Errorf("watcher got session %s, want %s", update.SessionID, initial.SessionID)
	}

	// Spectators cannot move.
	sess, err := env.sessions.Get(initial.SessionID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	before := sess.Snapshot()
	for _, dir := range []string{"left", "right", "up", "down"} {
		send(t, watcher, ClientFrame{Type: FrameMove, Direction: dir})
	}
	time.Sleep(50 * time.Millisecond)
	if after := sess.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Error("spectator frames changed the board")
	}
}

func TestWatchUnknownSession(t *testing.T) {
	env := newTestEnv(t, nil)

	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/watch/missing"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("Dial() succeeded for an unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v, want 404", resp)
	}
}

func TestHubDropsUnregisteredClient(t *testing.T) {
	hub := NewHub(log.New(io.Discard))
	c := &Client{hub: hub, sessionID: "s", send: make(chan []byte, 1)}

	hub.registerClient(c)
	if hub.Clients("s") != 1 {
		t.Fatalf("Clients() = %d, want 1", hub.Clients("s"))
	}

	hub.deliver(envelope{sessionID: "s", data: []byte("a")})
	// The buffer is full, so the next frame drops the client.
	hub.deliver(envelope{sessionID: "s", data: []byte("b")})
	if hub.Clients("s") != 0 {
		t.Errorf("Clients() = %d after overflow, want 0", hub.Clients("s"))
	}
	if _, ok := <-c.send; !ok {
		t.Error("queued frame lost")
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel not closed")
	}

	// Unregistering twice is harmless.
	hub.unregisterClient(c)
}
