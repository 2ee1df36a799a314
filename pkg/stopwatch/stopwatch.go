// Package stopwatch logs how long a named step took.
package stopwatch

import (
	"log/slog"
	"sync"
	"time"
)

// Stopwatch measures one step. Use it as
//
//	sw := stopwatch.Start(logger, "load dictionary")
//	defer sw.Stop()
type Stopwatch struct {
	name  string
	log   *slog.Logger
	start time.Time
	now   func() time.Time

	once    sync.Once
	elapsed time.Duration
}

// Start begins timing name.
func Start(logger *slog.Logger, name string) *Stopwatch {
	return start(logger, name, time.Now)
}

func start(logger *slog.Logger, name string, now func() time.Time) *Stopwatch {
	return &Stopwatch{name: name, log: logger, start: now(), now: now}
}

// Stop records the elapsed time and logs it at info level. Only the first call
// logs; later calls return the same duration.
func (s *Stopwatch) Stop() time.Duration {
	s.once.Do(func() {
		s.elapsed = s.now().Sub(s.start)
		s.log.Info("elapsed",
			slog.String("step", s.name),
			slog.Float64("seconds", s.elapsed.Round(10*time.Millisecond).Seconds()),
		)
	})
	return s.elapsed
}
