package domain

import "time"

// SampleCounters tracks raw telemetry volume per session.
type SampleCounters struct {
	Total int `json:"total"`
}

// CaptureSession is one bounded capture interval. Live sessions are
// created when an instrumented runtime connects; import sessions when a
// profile export is uploaded directly.
type CaptureSession struct {
	ID          string         `json:"id"`
	Kind        string         `json:"kind"` // "live" | "import"
	ClientAddr  string         `json:"clientAddr,omitempty"`
	StartedAt   time.Time      `json:"startedAt"`
	StoppedAt   *time.Time     `json:"stoppedAt"`
	Error       *string        `json:"error"`
	BudgetHz    int            `json:"budgetHz"`
	CommitCount int            `json:"commitCount"`
	Samples     SampleCounters `json:"samples"`

	DocumentName string `json:"documentName,omitempty"`
	// DocumentPreview is a redacted, truncated excerpt of the uploaded
	// export, kept for display only.
	DocumentPreview string `json:"documentPreview,omitempty"`

	Evicted   bool `json:"evicted"`
	CaptureID *int `json:"captureId,omitempty"`
}
