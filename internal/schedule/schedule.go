package schedule

import (
	"context"
	"log"
	"sort"
	"time"
)

// TickFunc is the work a Scheduler fires: in this service, the
// idempotent invalidate-and-refresh of the edition aggregate.
type TickFunc func(ctx context.Context)

// Scheduler fires once at the top of each configured wall-clock hour,
// every day. It stands in for an external cron: the hours are
// configuration, the tick is the semantics.
type Scheduler struct {
	Hours []int
	Tick  TickFunc
}

func New(hours []int, tick TickFunc) *Scheduler {
	return &Scheduler{Hours: hours, Tick: tick}
}

// NextRun returns the first instant strictly after now that falls on
// the top of one of the given hours, in now's location.
func NextRun(now time.Time, hours []int) time.Time {
	sorted := append([]int(nil), hours...)
	sort.Ints(sorted)

	for dayOffset := 0; dayOffset <= 1; dayOffset++ {
		day := now.AddDate(0, 0, dayOffset)
		for _, h := range sorted {
			candidate := time.Date(day.Year(), day.Month(), day.Day(), h, 0, 0, 0, now.Location())
			if candidate.After(now) {
				return candidate
			}
		}
	}
	// unreachable for a non-empty hour list; fall back to a day ahead
	return now.AddDate(0, 0, 1)
}

// Run blocks until ctx is cancelled, firing the tick at each scheduled
// hour.
func (s *Scheduler) Run(ctx context.Context) {
	if len(s.Hours) == 0 || s.Tick == nil {
		return
	}

	for {
		next := NextRun(time.Now(), s.Hours)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			log.Printf("[schedule] daily tick at %02d:00", next.Hour())
			s.Tick(ctx)
		}
	}
}
