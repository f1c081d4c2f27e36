/*
scheduler.go - Periodic leaderboard refresh

PURPOSE:
  Re-renders the school leaderboards on a fixed interval so the pages
  published from the output directory track incoming sales.

DESIGN:
  - Runs a background goroutine with a configurable interval
  - Each refresh goes through Handler.execute, so it waits for any running
    operation and shows up in the run history
  - A failed refresh is logged and retried at the next tick

CONFIGURATION:
  - Interval: server.refresh_interval; zero disables the scheduler

USAGE:
  scheduler := NewLeaderboardScheduler(handler, interval)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: Leaderboards endpoint (manual refresh)
  - automation/reports.go: Runner.Leaderboards
*/
package api

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// LeaderboardScheduler refreshes leaderboards periodically.
type LeaderboardScheduler struct {
	Handler  *Handler
	Interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewLeaderboardScheduler creates a new scheduler.
func NewLeaderboardScheduler(h *Handler, interval time.Duration) *LeaderboardScheduler {
	return &LeaderboardScheduler{
		Handler:  h,
		Interval: interval,
		stop:     make(chan struct{}),
	}
}

// Enabled reports whether Start will run anything.
func (s *LeaderboardScheduler) Enabled() bool { return s.Interval > 0 }

// Start begins the scheduler.
func (s *LeaderboardScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.Handler.Logger
	if !s.Enabled() {
		log.Info("leaderboard scheduler disabled")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.Interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.run()

	log.Info("leaderboard scheduler started", zap.Duration("interval", s.Interval))
}

// Stop stops the scheduler and waits for a refresh in progress.
func (s *LeaderboardScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		s.ticker = nil
		s.Handler.Logger.Info("leaderboard scheduler stopped")
	}
}

func (s *LeaderboardScheduler) run() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ticker.C:
			s.refresh()
		case <-s.stop:
			return
		}
	}
}

func (s *LeaderboardScheduler) refresh() {
	h := s.Handler
	rec := h.runAt("leaderboards", h.Runner.Leaderboards)
	if err := rec.result.Err; err != nil {
		h.Logger.Warn("scheduled leaderboard refresh failed", zap.String("run_id", rec.id), zap.Error(err))
		return
	}
	h.Logger.Debug("scheduled leaderboard refresh", zap.String("run_id", rec.id), zap.Int("files", len(rec.result.Files)))
}
