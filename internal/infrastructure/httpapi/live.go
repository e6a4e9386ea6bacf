package httpapi

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

var errSessionGone = errors.New("session not found or closed")

// TelemetryConns tracks the websocket connections of instrumented
// runtimes so control signals can be pushed and all connections dropped
// when the engine is cleared.
type TelemetryConns struct {
	mu sync.RWMutex
	m  map[string]*telemetryWS
}

type telemetryWS struct {
	conn *websocket.Conn
	// gorilla allows a single writer per conn
	writeMu sync.Mutex
}

func NewTelemetryConns() *TelemetryConns {
	return &TelemetryConns{m: make(map[string]*telemetryWS)}
}

func (tc *TelemetryConns) Register(sessionID string, conn *websocket.Conn) {
	if sessionID == "" {
		return
	}
	tc.mu.Lock()
	tc.m[sessionID] = &telemetryWS{conn: conn}
	tc.mu.Unlock()
}

func (tc *TelemetryConns) Unregister(sessionID string) {
	if sessionID == "" {
		return
	}
	tc.mu.Lock()
	delete(tc.m, sessionID)
	tc.mu.Unlock()
}

// SendControl pushes a JSON control message to one runtime.
func (tc *TelemetryConns) SendControl(sessionID string, payload any) error {
	tc.mu.RLock()
	w := tc.m[sessionID]
	tc.mu.RUnlock()
	if w == nil {
		return errSessionGone
	}
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	return w.conn.WriteJSON(payload)
}

// BroadcastControl pushes a JSON control message to every connected
// runtime. Returns the session ids that were reached.
func (tc *TelemetryConns) BroadcastControl(payload any) []string {
	tc.mu.RLock()
	targets := make(map[string]*telemetryWS, len(tc.m))
	for id, w := range tc.m {
		targets[id] = w
	}
	tc.mu.RUnlock()

	reached := make([]string, 0, len(targets))
	for id, w := range targets {
		w.writeMu.Lock()
		err := w.conn.WriteJSON(payload)
		w.writeMu.Unlock()
		if err == nil {
			reached = append(reached, id)
		}
	}
	return reached
}

// CloseAll drops every runtime connection; used when all sessions are
// cleared so stale streams cannot write into new state.
func (tc *TelemetryConns) CloseAll() {
	tc.mu.Lock()
	for id, w := range tc.m {
		_ = w.conn.Close()
		delete(tc.m, id)
	}
	tc.mu.Unlock()
}
