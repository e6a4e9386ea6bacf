package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/adapters/decoders/profilejson"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/domain"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/usecase"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/pkg/shared/id"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/pkg/shared/preview"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleUploadProfile accepts a raw profile export and computes its
// report under a fresh "import" session. The whole body is the
// document; no multipart.
func (d *Deps) handleUploadProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST", nil)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, d.Cfg.MaxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read_failed", "could not read body", nil)
		return
	}
	if int64(len(body)) > d.Cfg.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", "profile export exceeds upload limit", nil)
		return
	}

	doc, ok := profilejson.Decode(body)
	if !ok {
		doc = domain.ProfileDocument{}
	}

	hz := d.budgetHz()
	if v := r.URL.Query().Get("hz"); v == "60" || v == "120" {
		hz, _ = strconv.Atoi(v)
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "import"
	}

	sessionID := id.New()
	sess := domain.CaptureSession{
		ID:         sessionID,
		Kind:       "import",
		ClientAddr: clientHost(r.RemoteAddr),
		StartedAt:  time.Now().UTC(),
		BudgetHz:   hz,
	}
	if err := d.Svc.Create(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, "create_failed", err.Error(), nil)
		return
	}
	n, err := d.Svc.IngestDocument(r.Context(), sessionID, doc, name, preview.Document(body, d.Cfg.PreviewMaxBytes))
	if err != nil {
		d.Metrics.IngestErrorsTotal.WithLabelValues("import").Inc()
		writeError(w, http.StatusInternalServerError, "ingest_failed", err.Error(), nil)
		return
	}
	d.Metrics.CommitsIngestedTotal.Add(float64(n))
	d.Monitor.Broadcast(MonitorEvent{Type: "session_started", ID: sessionID})

	report, _, err := d.Svc.Report(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "report_failed", err.Error(), nil)
		return
	}
	if report.Stats != nil {
		d.Metrics.SuggestionsServed.Add(float64(len(report.Suggestions)))
	}
	d.Logger.Info().Str("session", sessionID).Int("commits", n).Msg("profile imported")
	writeJSON(w, http.StatusCreated, map[string]any{
		"sessionId": sessionID,
		"commits":   n,
		"report":    report,
	})
}

func (d *Deps) handleListSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		f := usecase.SessionFilter{
			Q:    r.URL.Query().Get("q"),
			Kind: r.URL.Query().Get("kind"),
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			f.Limit, _ = strconv.Atoi(v)
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			f.Offset, _ = strconv.Atoi(v)
		}
		switch v := r.URL.Query().Get("capture"); {
		case v == "current":
			cur := -1
			f.CaptureID = &cur
		case v != "":
			if n, err := strconv.Atoi(v); err == nil {
				f.CaptureID = &n
			}
		}
		f.IncludeUnassigned = r.URL.Query().Get("include_unassigned") == "true"

		items, total, err := d.Svc.List(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "list_failed", err.Error(), nil)
			return
		}
		if items == nil {
			items = []domain.CaptureSession{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
	case http.MethodDelete:
		d.Telemetry.CloseAll()
		if err := d.Svc.ClearAll(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "clear_failed", err.Error(), nil)
			return
		}
		d.Monitor.Broadcast(MonitorEvent{Type: "sessions_cleared"})
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET or DELETE", nil)
	}
}

// handleSessionByID dispatches /api/sessions/{id} and its subresources.
func (d *Deps) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.SplitN(rest, "/", 2)
	sessionID := parts[0]
	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing session id", nil)
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		sess, ok, err := d.Svc.Get(r.Context(), sessionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "get_failed", err.Error(), nil)
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "session not found", nil)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	case sub == "" && r.Method == http.MethodDelete:
		d.Telemetry.Unregister(sessionID)
		if err := d.Svc.Delete(r.Context(), sessionID); err != nil {
			writeError(w, http.StatusInternalServerError, "delete_failed", err.Error(), nil)
			return
		}
		d.Monitor.Broadcast(MonitorEvent{Type: "session_deleted", ID: sessionID})
		w.WriteHeader(http.StatusNoContent)
	case sub == "profile" && r.Method == http.MethodPost:
		d.handleAttachProfile(w, r, sessionID)
	case sub == "control" && r.Method == http.MethodPost:
		d.handleSessionControl(w, r, sessionID)
	case r.Method == http.MethodGet:
		d.handleSessionSubresource(w, r, sessionID, sub)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method for resource", nil)
	}
}

// handleAttachProfile ingests an export into an existing (usually live)
// session, replacing whatever sequence it held.
func (d *Deps) handleAttachProfile(w http.ResponseWriter, r *http.Request, sessionID string) {
	if _, ok, err := d.Svc.Get(r.Context(), sessionID); err != nil || !ok {
		if err != nil {
			writeError(w, http.StatusInternalServerError, "get_failed", err.Error(), nil)
			return
		}
		writeError(w, http.StatusNotFound, "not_found", "session not found", nil)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, d.Cfg.MaxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read_failed", "could not read body", nil)
		return
	}
	if int64(len(body)) > d.Cfg.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", "profile export exceeds upload limit", nil)
		return
	}
	doc, ok := profilejson.Decode(body)
	if !ok {
		doc = domain.ProfileDocument{}
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "attached-export"
	}
	n, err := d.Svc.IngestDocument(r.Context(), sessionID, doc, name, preview.Document(body, d.Cfg.PreviewMaxBytes))
	if err != nil {
		d.Metrics.IngestErrorsTotal.WithLabelValues("attach").Inc()
		writeError(w, http.StatusInternalServerError, "ingest_failed", err.Error(), nil)
		return
	}
	d.Metrics.CommitsIngestedTotal.Add(float64(n))
	d.Monitor.Broadcast(MonitorEvent{Type: "profile_ingested", ID: sessionID})
	writeJSON(w, http.StatusOK, map[string]any{"sessionId": sessionID, "commits": n})
}

func (d *Deps) handleSessionSubresource(w http.ResponseWriter, r *http.Request, sessionID, sub string) {
	report, ok, err := d.Svc.Report(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "report_failed", err.Error(), nil)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "session not found", nil)
		return
	}

	switch sub {
	case "report":
		d.Metrics.SuggestionsServed.Add(float64(len(report.Suggestions)))
		writeJSON(w, http.StatusOK, report)
	case "jank":
		writeJSON(w, http.StatusOK, map[string]any{"items": report.Jank, "budgetMs": report.BudgetMs})
	case "suggestions":
		d.Metrics.SuggestionsServed.Add(float64(len(report.Suggestions)))
		writeJSON(w, http.StatusOK, map[string]any{"items": report.Suggestions})
	case "commits":
		d.writeCommits(w, r, sessionID)
	case "export":
		sess, _, err := d.Svc.Get(r.Context(), sessionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "get_failed", err.Error(), nil)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="perf-report-`+sessionID+`.json"`)
		writeJSON(w, http.StatusOK, map[string]any{"session": sess, "report": report})
	default:
		if strings.HasPrefix(sub, "commits/") {
			d.writeCommitBreakdown(w, r, sessionID, strings.TrimPrefix(sub, "commits/"))
			return
		}
		writeError(w, http.StatusNotFound, "not_found", "unknown subresource", nil)
	}
}

func (d *Deps) writeCommits(w http.ResponseWriter, r *http.Request, sessionID string) {
	svc := d.Svc
	sess, ok, err := svc.Get(r.Context(), sessionID)
	if err != nil || !ok {
		if err != nil {
			writeError(w, http.StatusInternalServerError, "get_failed", err.Error(), nil)
			return
		}
		writeError(w, http.StatusNotFound, "not_found", "session not found", nil)
		return
	}
	commits, windowMs, err := svc.Commits(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed", err.Error(), nil)
		return
	}
	if commits == nil {
		commits = []domain.Commit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":    commits,
		"windowMs": windowMs,
		"budgetHz": sess.BudgetHz,
	})
}

// writeCommitBreakdown serves commits/{index}/breakdown for a single
// commit's render/effect/passive split.
func (d *Deps) writeCommitBreakdown(w http.ResponseWriter, r *http.Request, sessionID, rest string) {
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[1] != "breakdown" {
		writeError(w, http.StatusNotFound, "not_found", "unknown subresource", nil)
		return
	}
	idx, err := strconv.Atoi(parts[0])
	if err != nil || idx < 0 {
		writeError(w, http.StatusBadRequest, "bad_index", "commit index must be a non-negative integer", nil)
		return
	}
	bd, ok, err := d.Svc.Breakdown(r.Context(), sessionID, idx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "breakdown_failed", err.Error(), nil)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "session or commit not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, bd)
}
