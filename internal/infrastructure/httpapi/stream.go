package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// handleReportStream pushes a fresh report over SSE whenever the
// session's data changes, plus a periodic keepalive so proxies do not
// cut the connection.
func (d *Deps) handleReportStream(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, "/api/report_stream/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", "missing session id", nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "no_stream", "streaming unsupported", nil)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func() bool {
		report, ok, err := d.Svc.Report(r.Context(), sessionID)
		if err != nil || !ok {
			return false
		}
		payload, err := json.Marshal(report)
		if err != nil {
			return false
		}
		if _, err := w.Write([]byte("event: report\ndata: ")); err != nil {
			return false
		}
		if _, err := w.Write(payload); err != nil {
			return false
		}
		if _, err := w.Write([]byte("\n\n")); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send() {
		writeError(w, http.StatusNotFound, "not_found", "session not found", nil)
		return
	}

	events := d.Monitor.Subscribe()
	defer d.Monitor.Unsubscribe(events)

	keepalive := time.NewTicker(25 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			if ev.Type == "sessions_cleared" {
				return
			}
			if ev.ID != sessionID {
				continue
			}
			if ev.Type == "session_deleted" {
				return
			}
			if !send() {
				return
			}
		}
	}
}
