// Package profilejson decodes user-supplied profiling exports into the
// domain document shape. The export format varies across profiler
// versions, so decoding is deliberately tolerant: unexpected shapes
// degrade to an empty document section instead of an error.
package profilejson

import (
	"encoding/json"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/domain"
)

// wireDoc stages the loose top-level shape. Nested sections are kept
// raw so a malformed section drops only itself.
type wireDoc struct {
	DataForRoots       json.RawMessage `json:"dataForRoots"`
	ProfilingStartTime float64         `json:"profilingStartTime"`
	ProfilingEndTime   float64         `json:"profilingEndTime"`
	Version            int             `json:"version"`
}

type wireRoot struct {
	DisplayName string          `json:"displayName"`
	CommitData  json.RawMessage `json:"commitData"`
}

type wireCommit struct {
	Timestamp             *float64        `json:"timestamp"`
	Duration              *float64        `json:"duration"`
	EffectDuration        *float64        `json:"effectDuration"`
	PassiveEffectDuration *float64        `json:"passiveEffectDuration"`
	Priority              string          `json:"priority"`
	Updaters              json.RawMessage `json:"updaters"`
}

type wireUpdater struct {
	DisplayName string `json:"displayName"`
}

// Decode parses an export payload. ok is false only when the payload is
// not a JSON object at all; missing or mis-typed fields inside an
// object decode to their empty equivalents.
func Decode(data []byte) (domain.ProfileDocument, bool) {
	var w wireDoc
	if err := json.Unmarshal(data, &w); err != nil {
		return domain.ProfileDocument{}, false
	}
	doc := domain.ProfileDocument{
		ProfilingStartTime: w.ProfilingStartTime,
		ProfilingEndTime:   w.ProfilingEndTime,
		Version:            w.Version,
	}
	var roots []wireRoot
	if len(w.DataForRoots) > 0 {
		// non-array dataForRoots resolves to zero roots
		_ = json.Unmarshal(w.DataForRoots, &roots)
	}
	for _, r := range roots {
		doc.DataForRoots = append(doc.DataForRoots, domain.ProfileRoot{
			DisplayName: r.DisplayName,
			CommitData:  decodeCommits(r.CommitData),
		})
	}
	return doc, true
}

func decodeCommits(raw json.RawMessage) []domain.Commit {
	if len(raw) == 0 {
		return nil
	}
	var wire []wireCommit
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil
	}
	out := make([]domain.Commit, 0, len(wire))
	for _, c := range wire {
		commit := domain.Commit{
			Timestamp:             c.Timestamp,
			EffectDuration:        c.EffectDuration,
			PassiveEffectDuration: c.PassiveEffectDuration,
			Priority:              c.Priority,
			Updaters:              decodeUpdaters(c.Updaters),
		}
		if c.Duration != nil {
			commit.Duration = *c.Duration
		}
		out = append(out, commit)
	}
	return out
}

func decodeUpdaters(raw json.RawMessage) []domain.Updater {
	if len(raw) == 0 {
		return nil
	}
	var wire []wireUpdater
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil
	}
	out := make([]domain.Updater, 0, len(wire))
	for _, u := range wire {
		out = append(out, domain.Updater{DisplayName: u.DisplayName})
	}
	return out
}
