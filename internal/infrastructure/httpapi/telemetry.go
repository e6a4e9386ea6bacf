package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/adapters/decoders/profilejson"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/domain"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/pkg/shared/id"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/pkg/shared/preview"
)

// telemetryMessage is the envelope the instrumented runtime sends on
// the telemetry socket. type selects which fields matter:
//
//	sample        {fps, jsStallsMs}
//	capture_start {hz}
//	capture_stop  {}
//	reset         {}
//	profile       {document} — final or incremental export
type telemetryMessage struct {
	Type       string          `json:"type"`
	FPS        float64         `json:"fps"`
	JSStallsMs float64         `json:"jsStallsMs"`
	Hz         int             `json:"hz"`
	Document   json.RawMessage `json:"document"`
}

func (d *Deps) handleTelemetryWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.Logger.Error().Err(err).Msg("telemetry upgrade failed")
		d.Metrics.IngestErrorsTotal.WithLabelValues("upgrade").Inc()
		return
	}

	sessionID := id.New()
	sess := domain.CaptureSession{
		ID:         sessionID,
		Kind:       "live",
		ClientAddr: clientHost(r.RemoteAddr),
		StartedAt:  time.Now().UTC(),
		BudgetHz:   d.budgetHz(),
	}
	if err := d.Svc.Create(r.Context(), sess); err != nil {
		d.Logger.Error().Err(err).Msg("telemetry session create failed")
		_ = conn.Close()
		return
	}
	d.Telemetry.Register(sessionID, conn)
	d.Metrics.ActiveSessions.Inc()
	d.Monitor.Broadcast(MonitorEvent{Type: "session_started", ID: sessionID})
	d.Logger.Info().Str("session", sessionID).Str("client", sess.ClientAddr).Msg("runtime connected")

	defer func() {
		d.Telemetry.Unregister(sessionID)
		d.Metrics.ActiveSessions.Dec()
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// The terminal pass runs even when the runtime drops without
			// a capture_stop, but a stop already seen counts as the one
			// terminal pass.
			if sess, ok, _ := d.Svc.Get(r.Context(), sessionID); ok && sess.StoppedAt == nil {
				var errMsg *string
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					errMsg = strPtr(err.Error())
				}
				if _, _, serr := d.Svc.StopSession(r.Context(), sessionID, errMsg); serr != nil {
					d.Logger.Error().Err(serr).Str("session", sessionID).Msg("terminal aggregation failed")
				}
			}
			d.Monitor.Broadcast(MonitorEvent{Type: "session_ended", ID: sessionID})
			d.Logger.Info().Str("session", sessionID).Msg("runtime disconnected")
			return
		}
		var msg telemetryMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			d.Metrics.IngestErrorsTotal.WithLabelValues("decode").Inc()
			continue
		}
		switch msg.Type {
		case "sample":
			if err := d.Svc.RecordSample(r.Context(), sessionID, domain.LiveSample{FPS: msg.FPS, JSStallsMs: msg.JSStallsMs}); err != nil {
				d.Metrics.IngestErrorsTotal.WithLabelValues("sample").Inc()
				continue
			}
			d.Metrics.TelemetrySamplesTotal.Inc()
			d.Monitor.Broadcast(MonitorEvent{Type: "sample_added", ID: sessionID})
		case "capture_start":
			hz := msg.Hz
			if hz != 60 && hz != 120 {
				hz = d.budgetHz()
			}
			_ = d.Svc.SetBudgetHz(r.Context(), sessionID, hz)
			if err := d.Svc.ResetSession(r.Context(), sessionID); err != nil {
				d.Metrics.IngestErrorsTotal.WithLabelValues("capture_start").Inc()
				continue
			}
			d.Monitor.Broadcast(MonitorEvent{Type: "capture_started", ID: sessionID})
			d.Logger.Info().Str("session", sessionID).Int("hz", hz).Msg("capture started")
		case "capture_stop":
			if _, _, err := d.Svc.StopSession(r.Context(), sessionID, nil); err != nil {
				d.Metrics.IngestErrorsTotal.WithLabelValues("capture_stop").Inc()
				continue
			}
			d.Monitor.Broadcast(MonitorEvent{Type: "capture_stopped", ID: sessionID})
			d.Logger.Info().Str("session", sessionID).Msg("capture stopped")
		case "reset":
			if err := d.Svc.ResetSession(r.Context(), sessionID); err != nil {
				d.Metrics.IngestErrorsTotal.WithLabelValues("reset").Inc()
				continue
			}
			d.Monitor.Broadcast(MonitorEvent{Type: "session_reset", ID: sessionID})
		case "profile":
			doc, ok := profilejson.Decode(msg.Document)
			if !ok {
				// malformed exports degrade to "no data", not an error
				doc = domain.ProfileDocument{}
			}
			n, err := d.Svc.IngestDocument(r.Context(), sessionID, doc,
				"live-export", preview.Document(msg.Document, d.Cfg.PreviewMaxBytes))
			if err != nil {
				d.Metrics.IngestErrorsTotal.WithLabelValues("profile").Inc()
				continue
			}
			d.Metrics.CommitsIngestedTotal.Add(float64(n))
			d.Monitor.Broadcast(MonitorEvent{Type: "profile_ingested", ID: sessionID})
			d.Logger.Info().Str("session", sessionID).Int("commits", n).Msg("profile export ingested")
		default:
			d.Metrics.IngestErrorsTotal.WithLabelValues("unknown_type").Inc()
		}
	}
}
