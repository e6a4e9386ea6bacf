package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/adapters/storage/memory"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/domain"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/usecase"
)

func newService() *usecase.ProfilerService {
	store := memory.NewStore(10, 100, time.Hour)
	return usecase.NewProfilerService(store, store, store)
}

func commitOf(dur float64, name string) domain.Commit {
	return domain.Commit{Duration: dur, Updaters: []domain.Updater{{DisplayName: name}}}
}

func docOf(windowMs float64, commits ...domain.Commit) domain.ProfileDocument {
	return domain.ProfileDocument{
		DataForRoots:     []domain.ProfileRoot{{DisplayName: "App", CommitData: commits}},
		ProfilingEndTime: windowMs,
	}
}

func TestIngestReplacesPreviousDocument(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	if err := svc.Create(ctx, domain.CaptureSession{ID: "s1", Kind: "import", BudgetHz: 60}); err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := svc.IngestDocument(ctx, "s1", docOf(1000, commitOf(20, "A"), commitOf(5, "B")), "first", "")
	if err != nil || n != 2 {
		t.Fatalf("first ingest = (%d, %v), want (2, nil)", n, err)
	}
	n, err = svc.IngestDocument(ctx, "s1", docOf(1000, commitOf(3, "C")), "second", "")
	if err != nil || n != 1 {
		t.Fatalf("second ingest = (%d, %v), want (1, nil)", n, err)
	}

	report, ok, err := svc.Report(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("report = (%v, %v)", ok, err)
	}
	if report.Stats.TotalCommits != 1 {
		t.Fatalf("totalCommits = %d after replacement, want 1", report.Stats.TotalCommits)
	}
	if len(report.Jank) != 0 {
		t.Fatalf("jank = %v after replacement, want empty", report.Jank)
	}
}

func TestReportMissingSession(t *testing.T) {
	svc := newService()
	_, ok, err := svc.Report(context.Background(), "nope")
	if err != nil {
		t.Fatalf("report err = %v", err)
	}
	if ok {
		t.Fatalf("ok = true for missing session")
	}
}

func TestReportWithoutCommitsHasNilStats(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	if err := svc.Create(ctx, domain.CaptureSession{ID: "s1", Kind: "live", BudgetHz: 60}); err != nil {
		t.Fatalf("create: %v", err)
	}
	report, ok, err := svc.Report(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("report = (%v, %v)", ok, err)
	}
	if report.Stats != nil {
		t.Fatalf("stats = %+v for empty session, want nil", report.Stats)
	}
	if report.BudgetMs != 16.7 {
		t.Fatalf("budgetMs = %v, want 16.7", report.BudgetMs)
	}
}

func TestStopSessionRunsTerminalReport(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	if err := svc.Create(ctx, domain.CaptureSession{ID: "s1", Kind: "live", BudgetHz: 60}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.IngestDocument(ctx, "s1", docOf(0, commitOf(25, "Slow")), "export", ""); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	report, ok, err := svc.StopSession(ctx, "s1", nil)
	if err != nil || !ok {
		t.Fatalf("stop = (%v, %v)", ok, err)
	}
	if report.Stats == nil || report.Stats.JankyCommits != 1 {
		t.Fatalf("terminal report stats = %+v, want 1 janky commit", report.Stats)
	}
	sess, _, _ := svc.Get(ctx, "s1")
	if sess.StoppedAt == nil {
		t.Fatalf("stoppedAt not set after stop")
	}
	// zero window: commits-per-minute undefined
	if report.Stats.CommitsPerMinute != nil {
		t.Fatalf("commitsPerMinute = %v for zero window, want nil", *report.Stats.CommitsPerMinute)
	}
}

func TestResetSessionClearsEverything(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	if err := svc.Create(ctx, domain.CaptureSession{ID: "s1", Kind: "live", BudgetHz: 60}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.IngestDocument(ctx, "s1", docOf(1000, commitOf(25, "A")), "export", "preview"); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := svc.RecordSample(ctx, "s1", domain.LiveSample{FPS: 42, JSStallsMs: 100}); err != nil {
		t.Fatalf("sample: %v", err)
	}

	if err := svc.ResetSession(ctx, "s1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	report, _, err := svc.Report(ctx, "s1")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Stats != nil {
		t.Fatalf("stats survived reset: %+v", report.Stats)
	}
	if report.Live.WorstFPS != nil || report.Live.StallTotalMs != 0 {
		t.Fatalf("live = %+v after reset, want (nil, 0)", report.Live)
	}
}

func TestBreakdownIndexBounds(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	if err := svc.Create(ctx, domain.CaptureSession{ID: "s1", Kind: "import", BudgetHz: 60}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.IngestDocument(ctx, "s1", docOf(1000, commitOf(10, "A")), "export", ""); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if _, ok, _ := svc.Breakdown(ctx, "s1", 0); !ok {
		t.Fatalf("breakdown(0) not found")
	}
	if _, ok, _ := svc.Breakdown(ctx, "s1", 1); ok {
		t.Fatalf("breakdown(1) found, want out of range")
	}
	if _, ok, _ := svc.Breakdown(ctx, "s1", -1); ok {
		t.Fatalf("breakdown(-1) found, want out of range")
	}
}
