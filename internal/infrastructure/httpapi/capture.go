package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/usecase"
)

type captureRequest struct {
	Action string `json:"action"` // "start" | "stop" | "reset"
	Hz     int    `json:"hz,omitempty"`
}

// captureControlOf digs the capture toggle out of the service's
// sessions repository. Only the in-memory store implements it today.
func (d *Deps) captureControlOf() (usecase.CaptureControlRepository, bool) {
	cc, ok := d.Svc.SessionsRepoUnsafe().(usecase.CaptureControlRepository)
	return cc, ok
}

// handleSessionControl relays a control signal to one connected
// runtime instead of all of them.
func (d *Deps) handleSessionControl(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid control request", nil)
		return
	}
	var payload map[string]any
	switch req.Action {
	case "start":
		hz := req.Hz
		if hz != 60 && hz != 120 {
			hz = d.budgetHz()
		}
		payload = map[string]any{"type": "capture_start", "hz": hz}
	case "stop":
		payload = map[string]any{"type": "capture_stop"}
	case "reset":
		payload = map[string]any{"type": "reset"}
	default:
		writeError(w, http.StatusBadRequest, "bad_action", "action must be start, stop or reset", nil)
		return
	}
	if err := d.Telemetry.SendControl(sessionID, payload); err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessionId": sessionID, "sent": req.Action})
}

// handleCapture is the REST mirror of the websocket control signals:
// it flips the process-wide recording toggle and relays the signal to
// every connected runtime.
func (d *Deps) handleCapture(w http.ResponseWriter, r *http.Request) {
	cc, ok := d.captureControlOf()
	if !ok {
		writeError(w, http.StatusNotImplemented, "unsupported", "capture control unavailable for this storage backend", nil)
		return
	}

	switch r.Method {
	case http.MethodGet:
		recording, captureID := cc.RecordingState()
		writeJSON(w, http.StatusOK, map[string]any{
			"recording": recording,
			"captureId": captureID,
		})
	case http.MethodPost:
		var req captureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json", "invalid capture request", nil)
			return
		}
		switch req.Action {
		case "start":
			hz := req.Hz
			if hz != 60 && hz != 120 {
				hz = d.budgetHz()
			}
			captureID := cc.StartCapture()
			reached := d.Telemetry.BroadcastControl(map[string]any{"type": "capture_start", "hz": hz})
			sort.Strings(reached)
			d.Monitor.Broadcast(MonitorEvent{Type: "capture_started"})
			d.Logger.Info().Int("capture", captureID).Int("hz", hz).Int("runtimes", len(reached)).Msg("capture started")
			writeJSON(w, http.StatusOK, map[string]any{
				"recording": true,
				"captureId": captureID,
				"notified":  reached,
			})
		case "stop":
			captureID := cc.StopCapture()
			reached := d.Telemetry.BroadcastControl(map[string]any{"type": "capture_stop"})
			sort.Strings(reached)
			d.Monitor.Broadcast(MonitorEvent{Type: "capture_stopped"})
			d.Logger.Info().Int("capture", captureID).Int("runtimes", len(reached)).Msg("capture stopped")
			writeJSON(w, http.StatusOK, map[string]any{
				"recording": false,
				"captureId": captureID,
				"notified":  reached,
			})
		case "reset":
			reached := d.Telemetry.BroadcastControl(map[string]any{"type": "reset"})
			sort.Strings(reached)
			d.Monitor.Broadcast(MonitorEvent{Type: "capture_reset"})
			writeJSON(w, http.StatusOK, map[string]any{"notified": reached})
		default:
			writeError(w, http.StatusBadRequest, "bad_action", "action must be start, stop or reset", nil)
		}
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET or POST", nil)
	}
}
