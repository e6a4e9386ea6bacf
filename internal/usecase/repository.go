package usecase

import (
	"context"
	"time"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/domain"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, s domain.CaptureSession) error
	GetSession(ctx context.Context, id string) (domain.CaptureSession, bool, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, f SessionFilter) ([]domain.CaptureSession, int, error)
	// SetStopped marks the session stopped; a nil stoppedAt re-arms it.
	SetStopped(ctx context.Context, id string, stoppedAt *time.Time, errMsg *string) error
	SetBudgetHz(ctx context.Context, id string, hz int) error
	SetDocument(ctx context.Context, id, name, preview string, commitCount int) error
	ClearAllSessions(ctx context.Context) error
}

type CommitRepository interface {
	// ReplaceCommits swaps the session's commit sequence wholesale; each
	// ingested document is an independent, fully-replacing computation.
	ReplaceCommits(ctx context.Context, sessionID string, commits []domain.Commit, windowMs float64) error
	ListCommits(ctx context.Context, sessionID string) ([]domain.Commit, float64, error)
}

type LiveMetricsRepository interface {
	FoldSample(ctx context.Context, sessionID string, s domain.LiveSample) error
	LiveMetrics(ctx context.Context, sessionID string) (domain.LiveSessionMetrics, error)
	ResetLive(ctx context.Context, sessionID string) error
}

// CaptureControlRepository tracks the process-local recording toggle and
// the monotonically increasing capture id.
type CaptureControlRepository interface {
	RecordingState() (bool, int)
	StartCapture() int
	StopCapture() int
}

type SessionFilter struct {
	Q                 string
	Kind              string // "live" | "import" | ""
	Limit             int
	Offset            int
	CaptureID         *int // nil: any; -1 means current; otherwise exact id
	IncludeUnassigned bool // include sessions with CaptureID==nil
}
