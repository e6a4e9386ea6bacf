package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/adapters/storage/memory"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/infrastructure/config"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/infrastructure/httpapi"
	obs "github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/infrastructure/observability"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Config{
		DefaultBudgetHz:      60,
		MaxSessions:          50,
		MaxCommitsPerSession: 1000,
		SessionTTL:           time.Hour,
		MaxUploadBytes:       1 << 20,
		PreviewMaxBytes:      256,
		CORSAllowOrigin:      "*",
	}
	logger := zerolog.Nop()
	store := memory.NewStore(cfg.MaxSessions, cfg.MaxCommitsPerSession, cfg.SessionTTL)
	deps := &httpapi.Deps{
		Cfg:       cfg,
		Logger:    &logger,
		Metrics:   obs.NewMetrics(),
		Svc:       usecase.NewProfilerService(store, store, store),
		Monitor:   httpapi.NewMonitorHub(),
		Telemetry: httpapi.NewTelemetryConns(),
		Settings:  httpapi.NewRuntimeSettings(cfg.DefaultBudgetHz),
	}
	srv := httptest.NewServer(httpapi.NewRouterWithDeps(deps))
	t.Cleanup(srv.Close)
	return srv
}

const exportJSON = `{
	"version": 5,
	"profilingStartTime": 0,
	"profilingEndTime": 60000,
	"dataForRoots": [{
		"displayName": "App",
		"commitData": [
			{"timestamp": 100, "duration": 20, "effectDuration": 2, "passiveEffectDuration": 1, "priority": "Immediate", "updaters": [{"displayName": "FeedList"}]},
			{"timestamp": 200, "duration": 5, "priority": "Normal", "updaters": [{"displayName": "Avatar"}]},
			{"timestamp": 300, "duration": 30, "priority": "Idle", "updaters": [{"displayName": "FeedList"}]}
		]
	}]
}`

func TestProfileUploadAndReport(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/profiles?name=demo", "application/json", strings.NewReader(exportJSON))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201", resp.StatusCode)
	}
	var up struct {
		SessionID string `json:"sessionId"`
		Commits   int    `json:"commits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if up.Commits != 3 {
		t.Fatalf("commits = %d, want 3", up.Commits)
	}

	// full report
	rresp, err := http.Get(srv.URL + "/api/sessions/" + up.SessionID + "/report")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	defer rresp.Body.Close()
	var report struct {
		Stats *struct {
			TotalCommits int `json:"totalCommits"`
			JankyCommits int `json:"jankyCommits"`
			JankRatePct  int `json:"jankRatePct"`
		} `json:"stats"`
		Jank []struct {
			Index    int     `json:"index"`
			Duration float64 `json:"duration"`
		} `json:"jank"`
		Suggestions []string `json:"suggestions"`
		BudgetMs    float64  `json:"budgetMs"`
	}
	if err := json.NewDecoder(rresp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Stats == nil || report.Stats.TotalCommits != 3 {
		t.Fatalf("stats = %+v, want 3 commits", report.Stats)
	}
	if report.Stats.JankyCommits != 2 || report.Stats.JankRatePct != 67 {
		t.Fatalf("janky = %d rate = %d, want 2/67", report.Stats.JankyCommits, report.Stats.JankRatePct)
	}
	if report.BudgetMs != 16.7 {
		t.Fatalf("budgetMs = %v, want 16.7", report.BudgetMs)
	}
	// jank sorted worst first, original indices preserved
	if len(report.Jank) != 2 || report.Jank[0].Index != 2 || report.Jank[1].Index != 0 {
		t.Fatalf("jank = %+v, want indices [2 0]", report.Jank)
	}
	if len(report.Suggestions) == 0 {
		t.Fatalf("expected at least one suggestion for a janky profile")
	}

	// breakdown subresource
	bresp, err := http.Get(srv.URL + "/api/sessions/" + up.SessionID + "/commits/0/breakdown")
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	defer bresp.Body.Close()
	if bresp.StatusCode != http.StatusOK {
		t.Fatalf("breakdown status = %d", bresp.StatusCode)
	}
	var bd struct {
		RenderMs  float64 `json:"renderMs"`
		EffectMs  float64 `json:"effectMs"`
		PassiveMs float64 `json:"passiveMs"`
	}
	if err := json.NewDecoder(bresp.Body).Decode(&bd); err != nil {
		t.Fatalf("decode breakdown: %v", err)
	}
	if bd.RenderMs != 17 || bd.EffectMs != 2 || bd.PassiveMs != 1 {
		t.Fatalf("breakdown = %+v, want render 17 effect 2 passive 1", bd)
	}
}

func TestUploadRejectsOversizedBody(t *testing.T) {
	srv := newTestServer(t)

	big := bytes.Repeat([]byte("x"), (1<<20)+1)
	resp, err := http.Post(srv.URL+"/api/profiles", "application/json", bytes.NewReader(big))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", resp.StatusCode)
	}
}

func TestTelemetrySessionFlow(t *testing.T) {
	srv := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/telemetry/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial telemetry: %v", err)
	}
	defer conn.Close()

	send := func(v any) {
		t.Helper()
		if err := conn.WriteJSON(v); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	send(map[string]any{"type": "capture_start", "hz": 120})
	send(map[string]any{"type": "sample", "fps": 60, "jsStallsMs": 10})
	send(map[string]any{"type": "sample", "fps": 45, "jsStallsMs": 300})
	send(map[string]any{"type": "sample", "fps": 70, "jsStallsMs": 5})

	// the session shows up in the list once the handshake lands
	var sessionID string
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(srv.URL + "/api/sessions?kind=live")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		var out struct {
			Items []struct {
				ID       string `json:"id"`
				BudgetHz int    `json:"budgetHz"`
				Samples  struct {
					Total int `json:"total"`
				} `json:"samples"`
			} `json:"items"`
		}
		err = json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("decode list: %v", err)
		}
		if len(out.Items) == 1 && out.Items[0].Samples.Total == 3 {
			sessionID = out.Items[0].ID
			if out.Items[0].BudgetHz != 120 {
				t.Fatalf("budgetHz = %d, want 120 after capture_start", out.Items[0].BudgetHz)
			}
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if sessionID == "" {
		t.Fatalf("live session with 3 samples never appeared")
	}

	rresp, err := http.Get(srv.URL + "/api/sessions/" + sessionID + "/report")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	defer rresp.Body.Close()
	var report struct {
		Live struct {
			WorstFPS     *float64 `json:"worstFps"`
			StallTotalMs float64  `json:"stallTotalMs"`
		} `json:"live"`
	}
	if err := json.NewDecoder(rresp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Live.WorstFPS == nil || *report.Live.WorstFPS != 45 {
		t.Fatalf("worstFps = %v, want 45", report.Live.WorstFPS)
	}
	if report.Live.StallTotalMs != 315 {
		t.Fatalf("stallTotalMs = %v, want 315", report.Live.StallTotalMs)
	}
}

func TestCaptureControlRelay(t *testing.T) {
	srv := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/telemetry/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial telemetry: %v", err)
	}
	defer conn.Close()

	// wait until the session registers so the relay can reach it
	deadline := time.Now().Add(2 * time.Second)
	notified := 0
	for time.Now().Before(deadline) {
		body, _ := json.Marshal(map[string]any{"action": "start", "hz": 60})
		resp, err := http.Post(srv.URL+"/api/capture", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("capture start: %v", err)
		}
		var out struct {
			Recording bool     `json:"recording"`
			Notified  []string `json:"notified"`
		}
		err = json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("decode capture: %v", err)
		}
		if !out.Recording {
			t.Fatalf("recording = false after start")
		}
		if len(out.Notified) == 1 {
			notified = 1
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if notified != 1 {
		t.Fatalf("capture start never reached the connected runtime")
	}

	// the runtime receives the relayed control signal
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ctl struct {
		Type string `json:"type"`
		Hz   int    `json:"hz"`
	}
	if err := conn.ReadJSON(&ctl); err != nil {
		t.Fatalf("read control: %v", err)
	}
	if ctl.Type != "capture_start" || ctl.Hz != 60 {
		t.Fatalf("control = %+v, want capture_start hz 60", ctl)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]any{"defaultBudgetHz": 120})
	resp, err := http.Post(srv.URL+"/api/settings", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post settings: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post settings status = %d", resp.StatusCode)
	}

	gresp, err := http.Get(srv.URL + "/api/settings")
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	defer gresp.Body.Close()
	var out struct {
		DefaultBudgetHz int `json:"defaultBudgetHz"`
	}
	if err := json.NewDecoder(gresp.Body).Decode(&out); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if out.DefaultBudgetHz != 120 {
		t.Fatalf("defaultBudgetHz = %d, want 120", out.DefaultBudgetHz)
	}

	// invalid value rejected
	body, _ = json.Marshal(map[string]any{"defaultBudgetHz": 90})
	bresp, err := http.Post(srv.URL+"/api/settings", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post bad settings: %v", err)
	}
	bresp.Body.Close()
	if bresp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad settings status = %d, want 400", bresp.StatusCode)
	}
}

func TestClearAllSessions(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/profiles", "application/json", strings.NewReader(exportJSON))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/sessions", nil)
	dresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	dresp.Body.Close()
	if dresp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", dresp.StatusCode)
	}

	lresp, err := http.Get(srv.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer lresp.Body.Close()
	var out struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(lresp.Body).Decode(&out); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if out.Total != 0 {
		t.Fatalf("total = %d after clear, want 0", out.Total)
	}
}
