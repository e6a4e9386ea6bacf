package usecase

import (
	"context"
	"time"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/analysis"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/domain"
)

// ProfilerService coordinates session storage with the analysis engine.
// All reports are recomputed fresh from the stored commit sequence and
// the session's budget; nothing is carried between documents except the
// live accumulators.
type ProfilerService struct {
	sessions SessionRepository
	commits  CommitRepository
	live     LiveMetricsRepository
}

func NewProfilerService(s SessionRepository, c CommitRepository, l LiveMetricsRepository) *ProfilerService {
	return &ProfilerService{sessions: s, commits: c, live: l}
}

// SessionsRepoUnsafe exposes the underlying sessions repository for the
// in-memory capture control. Should become an interface on Deps later.
func (p *ProfilerService) SessionsRepoUnsafe() any { return p.sessions }

func (p *ProfilerService) Create(ctx context.Context, s domain.CaptureSession) error {
	return p.sessions.CreateSession(ctx, s)
}

func (p *ProfilerService) Get(ctx context.Context, id string) (domain.CaptureSession, bool, error) {
	return p.sessions.GetSession(ctx, id)
}

func (p *ProfilerService) List(ctx context.Context, f SessionFilter) ([]domain.CaptureSession, int, error) {
	return p.sessions.ListSessions(ctx, f)
}

func (p *ProfilerService) Delete(ctx context.Context, id string) error {
	return p.sessions.DeleteSession(ctx, id)
}

func (p *ProfilerService) ClearAll(ctx context.Context) error {
	return p.sessions.ClearAllSessions(ctx)
}

func (p *ProfilerService) SetBudgetHz(ctx context.Context, id string, hz int) error {
	return p.sessions.SetBudgetHz(ctx, id, hz)
}

// IngestDocument extracts the commit sequence from a profile export and
// replaces the session's previous sequence with it. Returns the number
// of commits extracted; malformed documents yield zero, not an error.
func (p *ProfilerService) IngestDocument(ctx context.Context, sessionID string, doc domain.ProfileDocument, name, preview string) (int, error) {
	commits := analysis.ExtractCommits(doc)
	if err := p.commits.ReplaceCommits(ctx, sessionID, commits, doc.ProfilingWindowMs()); err != nil {
		return 0, err
	}
	if err := p.sessions.SetDocument(ctx, sessionID, name, preview, len(commits)); err != nil {
		return 0, err
	}
	return len(commits), nil
}

// Commits returns the session's stored commit sequence and the
// document's profiling window in milliseconds.
func (p *ProfilerService) Commits(ctx context.Context, sessionID string) ([]domain.Commit, float64, error) {
	return p.commits.ListCommits(ctx, sessionID)
}

// Breakdown splits one stored commit by original sequence index. ok is
// false when the session does not exist or the index is out of range.
func (p *ProfilerService) Breakdown(ctx context.Context, sessionID string, index int) (domain.CommitBreakdown, bool, error) {
	commits, _, err := p.commits.ListCommits(ctx, sessionID)
	if err != nil {
		return domain.CommitBreakdown{}, false, err
	}
	if index < 0 || index >= len(commits) {
		return domain.CommitBreakdown{}, false, nil
	}
	return analysis.Breakdown(commits[index]), true, nil
}

// RecordSample folds one live telemetry sample into the session's
// accumulators.
func (p *ProfilerService) RecordSample(ctx context.Context, sessionID string, s domain.LiveSample) error {
	return p.live.FoldSample(ctx, sessionID, s)
}

// Report runs the full analysis pass for a session: aggregate stats,
// jank table, suggestions, live snapshot. ok is false when the session
// does not exist. A session without commits yields a report with nil
// stats — "no data", not an error.
func (p *ProfilerService) Report(ctx context.Context, sessionID string) (domain.Report, bool, error) {
	sess, ok, err := p.sessions.GetSession(ctx, sessionID)
	if err != nil || !ok {
		return domain.Report{}, ok, err
	}
	commits, windowMs, err := p.commits.ListCommits(ctx, sessionID)
	if err != nil {
		return domain.Report{}, true, err
	}
	live, err := p.live.LiveMetrics(ctx, sessionID)
	if err != nil {
		return domain.Report{}, true, err
	}
	budget := domain.BudgetForHz(sess.BudgetHz)
	stats := analysis.Aggregate(commits, budget)
	if stats != nil {
		stats.CommitsPerMinute = analysis.CommitsPerMinute(len(commits), windowMs)
	}
	return domain.Report{
		Stats:       stats,
		Jank:        analysis.JankTable(commits, budget),
		Suggestions: analysis.Suggest(stats, budget, &live),
		Live:        live,
		BudgetMs:    budget.Ms(),
	}, true, nil
}

// StopSession marks the session stopped and runs the one terminal
// aggregation pass over whatever commits were collected, even when the
// runtime never delivered a final export.
func (p *ProfilerService) StopSession(ctx context.Context, id string, errMsg *string) (domain.Report, bool, error) {
	now := time.Now().UTC()
	if err := p.sessions.SetStopped(ctx, id, &now, errMsg); err != nil {
		return domain.Report{}, false, err
	}
	return p.Report(ctx, id)
}

// ResetSession clears the session back to "no data": commits gone, live
// accumulators at (nil, 0), stop state re-armed so a new capture can
// run its own terminal pass.
func (p *ProfilerService) ResetSession(ctx context.Context, id string) error {
	if err := p.commits.ReplaceCommits(ctx, id, nil, 0); err != nil {
		return err
	}
	if err := p.sessions.SetStopped(ctx, id, nil, nil); err != nil {
		return err
	}
	if err := p.sessions.SetDocument(ctx, id, "", "", 0); err != nil {
		return err
	}
	return p.live.ResetLive(ctx, id)
}
