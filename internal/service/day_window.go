package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DayWindow implements ports.WindowProvider. It holds the start of the
// current aggregation day (local midnight) and is advanced by the reset
// scheduler; dashboard reads with no explicit window start here.
type DayWindow struct {
	mu    sync.RWMutex
	start time.Time
	clock func() time.Time
}

// NewDayWindow creates a DayWindow anchored at the current local midnight.
// clock defaults to time.Now when nil; tests inject their own.
func NewDayWindow(clock func() time.Time) *DayWindow {
	if clock == nil {
		clock = time.Now
	}
	return &DayWindow{
		start: midnightOf(clock()),
		clock: clock,
	}
}

// DayStart returns the start of the current aggregation day.
func (w *DayWindow) DayStart() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.start
}

// Advance moves the window to the current local midnight if the day has
// rolled over. Returns true when the window moved.
func (w *DayWindow) Advance() bool {
	now := w.clock()

	w.mu.Lock()
	defer w.mu.Unlock()

	next := midnightOf(now)
	if !next.After(w.start) {
		return false
	}
	w.start = next
	return true
}

func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ResetScheduler runs the daily window rollover in the background. The
// check is cheap, so a short interval only bounds how stale the window can
// get right after midnight.
type ResetScheduler struct {
	window        *DayWindow
	checkInterval time.Duration
	log           zerolog.Logger

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewResetScheduler creates a scheduler for the day window.
func NewResetScheduler(window *DayWindow, checkInterval time.Duration, log zerolog.Logger) *ResetScheduler {
	return &ResetScheduler{
		window:        window,
		checkInterval: checkInterval,
		log:           log,
		stop:          make(chan struct{}),
	}
}

// Start begins the background rollover checks.
func (s *ResetScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ticker = time.NewTicker(s.checkInterval)
	s.wg.Add(1)
	go s.run()

	s.log.Info().Dur("check_interval", s.checkInterval).Msg("daily reset scheduler started")
}

// Stop stops the scheduler and waits for the background goroutine.
func (s *ResetScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		s.log.Info().Msg("daily reset scheduler stopped")
	}
}

func (s *ResetScheduler) run() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ticker.C:
			if s.window.Advance() {
				s.log.Info().
					Time("day_start", s.window.DayStart()).
					Msg("dashboard window reset for new day")
			}
		case <-s.stop:
			return
		}
	}
}
