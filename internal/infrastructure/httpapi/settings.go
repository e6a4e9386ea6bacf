package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
)

// RuntimeSettings holds the mutable subset of configuration that the
// API can change without a restart.
type RuntimeSettings struct {
	mu              sync.RWMutex
	defaultBudgetHz int
}

func NewRuntimeSettings(defaultBudgetHz int) *RuntimeSettings {
	if defaultBudgetHz != 60 && defaultBudgetHz != 120 {
		defaultBudgetHz = 60
	}
	return &RuntimeSettings{defaultBudgetHz: defaultBudgetHz}
}

func (s *RuntimeSettings) DefaultBudgetHz() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultBudgetHz
}

func (s *RuntimeSettings) SetDefaultBudgetHz(hz int) bool {
	if hz != 60 && hz != 120 {
		return false
	}
	s.mu.Lock()
	s.defaultBudgetHz = hz
	s.mu.Unlock()
	return true
}

// budgetHz is the default frame budget for new sessions, honoring any
// runtime override.
func (d *Deps) budgetHz() int {
	if d.Settings != nil {
		return d.Settings.DefaultBudgetHz()
	}
	return d.Cfg.DefaultBudgetHz
}

func (d *Deps) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"defaultBudgetHz": d.budgetHz()})
	case http.MethodPost:
		var req struct {
			DefaultBudgetHz int `json:"defaultBudgetHz"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json", "invalid settings payload", nil)
			return
		}
		if d.Settings == nil || !d.Settings.SetDefaultBudgetHz(req.DefaultBudgetHz) {
			writeError(w, http.StatusBadRequest, "bad_budget", "defaultBudgetHz must be 60 or 120", nil)
			return
		}
		d.Logger.Info().Int("hz", req.DefaultBudgetHz).Msg("default budget changed")
		writeJSON(w, http.StatusOK, map[string]any{"defaultBudgetHz": req.DefaultBudgetHz})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET or POST", nil)
	}
}
