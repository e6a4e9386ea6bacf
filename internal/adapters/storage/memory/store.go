package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/analysis"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/domain"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/usecase"
)

type sessionEntry struct {
	session   domain.CaptureSession
	commits   []domain.Commit
	windowMs  float64
	tracker   *analysis.LiveTracker
	createdAt time.Time
}

// Store keeps capture sessions in memory. Sessions are evicted by
// capacity (oldest first) and by TTL; nothing is persisted, per the
// plugin's session-scoped design.
type Store struct {
	mu sync.RWMutex
	// ring by insertion order of session ids
	order []string
	items map[string]*sessionEntry

	maxSessions          int
	maxCommitsPerSession int
	ttl                  time.Duration

	// capture state (process-local)
	currentCapture int
	recording      bool

	// onEvict is called once per evicted session, outside hot paths but
	// under the store lock; keep it cheap.
	onEvict func(n int)
}

// SetEvictionHook registers a callback invoked with the number of
// sessions dropped by capacity or TTL eviction.
func (s *Store) SetEvictionHook(fn func(n int)) {
	s.mu.Lock()
	s.onEvict = fn
	s.mu.Unlock()
}

func (s *Store) notifyEvictedLocked(n int) {
	if n > 0 && s.onEvict != nil {
		s.onEvict(n)
	}
}

func NewStore(maxSessions, maxCommits int, ttl time.Duration) *Store {
	return &Store{
		order:                make([]string, 0, maxSessions),
		items:                make(map[string]*sessionEntry, maxSessions),
		maxSessions:          maxSessions,
		maxCommitsPerSession: maxCommits,
		ttl:                  ttl,
		currentCapture:       0,
		recording:            true,
	}
}

// CaptureControlRepository
func (s *Store) RecordingState() (bool, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recording, s.currentCapture
}

func (s *Store) StartCapture() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentCapture++
	s.recording = true
	return s.currentCapture
}

func (s *Store) StopCapture() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording = false
	return s.currentCapture
}

// SessionRepository
func (s *Store) CreateSession(ctx context.Context, sess domain.CaptureSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()
	if len(s.items) >= s.maxSessions {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.items, oldest)
		s.notifyEvictedLocked(1)
	}
	if s.recording {
		cid := s.currentCapture
		sess.CaptureID = &cid
	}
	s.items[sess.ID] = &sessionEntry{
		session:   sess,
		tracker:   analysis.NewLiveTracker(),
		createdAt: time.Now(),
	}
	s.order = append(s.order, sess.ID)
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (domain.CaptureSession, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.items[id]; ok {
		return e.session, true, nil
	}
	return domain.CaptureSession{}, false, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; ok {
		delete(s.items, id)
		for i, sid := range s.order {
			if sid == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (s *Store) ClearAllSessions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*sessionEntry, len(s.items))
	s.order = s.order[:0]
	// capture counter survives so old capture ids stay unique
	return nil
}

func (s *Store) ListSessions(ctx context.Context, f usecase.SessionFilter) ([]domain.CaptureSession, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]domain.CaptureSession, 0, len(s.items))
	for _, id := range s.order { // preserve insertion order
		e := s.items[id]
		if e == nil {
			continue
		}
		if f.CaptureID != nil {
			if *f.CaptureID >= 0 {
				if e.session.CaptureID == nil || *e.session.CaptureID != *f.CaptureID {
					continue
				}
			} else {
				// -1 treated as current
				if e.session.CaptureID == nil || *e.session.CaptureID != s.currentCapture {
					continue
				}
			}
		} else if !f.IncludeUnassigned {
			if e.session.CaptureID == nil {
				continue
			}
		}
		if f.Kind != "" && e.session.Kind != f.Kind {
			continue
		}
		if f.Q != "" && !matchesQuery(e.session, f.Q) {
			continue
		}
		results = append(results, e.session)
	}
	total := len(results)
	start := f.Offset
	if start > total {
		start = total
	}
	end := start + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return results[start:end], total, nil
}

func (s *Store) SetStopped(ctx context.Context, id string, ts *time.Time, errMsg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[id]; ok {
		e.session.StoppedAt = ts
		e.session.Error = errMsg
	}
	return nil
}

func (s *Store) SetBudgetHz(ctx context.Context, id string, hz int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[id]; ok {
		e.session.BudgetHz = hz
	}
	return nil
}

func (s *Store) SetDocument(ctx context.Context, id, name, preview string, commitCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[id]; ok {
		e.session.DocumentName = name
		e.session.DocumentPreview = preview
		e.session.CommitCount = commitCount
	}
	return nil
}

// CommitRepository
func (s *Store) ReplaceCommits(ctx context.Context, sessionID string, commits []domain.Commit, windowMs float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[sessionID]
	if !ok {
		return nil
	}
	if s.maxCommitsPerSession > 0 && len(commits) > s.maxCommitsPerSession {
		commits = commits[:s.maxCommitsPerSession]
	}
	e.commits = make([]domain.Commit, len(commits))
	copy(e.commits, commits)
	e.windowMs = windowMs
	return nil
}

func (s *Store) ListCommits(ctx context.Context, sessionID string) ([]domain.Commit, float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[sessionID]
	if !ok {
		return nil, 0, nil
	}
	out := make([]domain.Commit, len(e.commits))
	copy(out, e.commits)
	return out, e.windowMs, nil
}

// LiveMetricsRepository
func (s *Store) FoldSample(ctx context.Context, sessionID string, sample domain.LiveSample) error {
	s.mu.Lock()
	e, ok := s.items[sessionID]
	if ok {
		e.session.Samples.Total++
	}
	s.mu.Unlock()
	if ok {
		e.tracker.OnSample(sample.FPS, sample.JSStallsMs)
	}
	return nil
}

func (s *Store) LiveMetrics(ctx context.Context, sessionID string) (domain.LiveSessionMetrics, error) {
	s.mu.RLock()
	e, ok := s.items[sessionID]
	s.mu.RUnlock()
	if !ok {
		return domain.LiveSessionMetrics{}, nil
	}
	return e.tracker.Snapshot(), nil
}

func (s *Store) ResetLive(ctx context.Context, sessionID string) error {
	s.mu.RLock()
	e, ok := s.items[sessionID]
	s.mu.RUnlock()
	if ok {
		e.tracker.Reset()
	}
	return nil
}

func (s *Store) evictExpiredLocked() {
	if s.ttl <= 0 {
		return
	}
	now := time.Now()
	evicted := 0
	i := 0
	for i < len(s.order) {
		id := s.order[i]
		e := s.items[id]
		if e == nil || now.Sub(e.createdAt) > s.ttl {
			delete(s.items, id)
			s.order = append(s.order[:i], s.order[i+1:]...)
			evicted++
			continue
		}
		i++
	}
	s.notifyEvictedLocked(evicted)
}

func matchesQuery(sess domain.CaptureSession, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(sess.DocumentName), q) ||
		strings.Contains(strings.ToLower(sess.ClientAddr), q) ||
		strings.Contains(strings.ToLower(sess.ID), q)
}
