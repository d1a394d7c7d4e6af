package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/temperature-analysis/internal/monitor"
)

// Scheduler periodically evaluates the live temperature for configured cities.
type Scheduler struct {
	scheduler *gocron.Scheduler
	monitor   *monitor.Monitor
	cities    []string
	interval  time.Duration
}

// New creates a new Scheduler.
func New(cities []string, interval time.Duration, mon *monitor.Monitor) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		monitor:   mon,
		cities:    cities,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// Cities are evaluated sequentially: the per-city work is one outbound
// fetch plus a range check, so there is nothing to gain from fan-out.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		log.Println("scheduler: no cities configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running live temperature evaluation")

		for _, city := range s.cities {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

			rec, err := s.monitor.Evaluate(ctx, city)
			cancel()
			if err != nil {
				log.Printf("scheduler: evaluation failed for %s: %v", city, err)
				continue
			}

			verdict := "within"
			if !rec.Assessment.InRange {
				verdict = "outside"
			}
			log.Printf("scheduler: %s is %.1f°C, %s the normal range for %s [%.1f, %.1f]",
				city, rec.Assessment.Temperature, verdict, rec.Season,
				rec.Assessment.LowerBound, rec.Assessment.UpperBound)
		}

		log.Println("scheduler: completed live temperature evaluation")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
