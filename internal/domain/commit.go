package domain

// AnonymousName is the sentinel recorded for updaters without a display
// name. Anonymous updaters are excluded from name-based rankings.
const AnonymousName = "(anonymous)"

// Updater is a component that triggered or participated in a commit.
type Updater struct {
	DisplayName string `json:"displayName,omitempty"`
}

// Name returns the updater's display name or the anonymous sentinel.
func (u Updater) Name() string {
	if u.DisplayName == "" {
		return AnonymousName
	}
	return u.DisplayName
}

// Commit is one completed unit of React render work. Duration is the only
// required field; everything else may be absent in older export formats.
type Commit struct {
	Timestamp             *float64  `json:"timestamp,omitempty"`
	Duration              float64   `json:"duration"`
	EffectDuration        *float64  `json:"effectDuration,omitempty"`
	PassiveEffectDuration *float64  `json:"passiveEffectDuration,omitempty"`
	Priority              string    `json:"priority,omitempty"`
	Updaters              []Updater `json:"updaters,omitempty"`
}

// EffectMs returns the synchronous effect cost, treating absent as zero.
func (c Commit) EffectMs() float64 {
	if c.EffectDuration == nil {
		return 0
	}
	return *c.EffectDuration
}

// PassiveMs returns the passive effect cost, treating absent as zero.
func (c Commit) PassiveMs() float64 {
	if c.PassiveEffectDuration == nil {
		return 0
	}
	return *c.PassiveEffectDuration
}
