package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/metrics"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=scheduler_test
type sessionCleaner interface {
	ScanAndClean(ctx context.Context) int
}

// Scheduler runs the periodic housekeeping jobs of the service.
type Scheduler struct {
	scheduler gocron.Scheduler
	metrics   *metrics.Manager
}

func New(metricsManager *metrics.Manager) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create gocron scheduler: %w", err)
	}
	return &Scheduler{
		scheduler: s,
		metrics:   metricsManager,
	}, nil
}

// ScheduleSessionCleanup removes expired login sessions every interval, starting right away.
func (s *Scheduler) ScheduleSessionCleanup(ctx context.Context, interval time.Duration, cleaner sessionCleaner) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			removed := cleaner.ScanAndClean(ctx)
			if removed > 0 {
				log.Infof("scheduler: %d expired sessions removed", removed)
			}
			s.metrics.CounterSessionsCleaned.Add(float64(removed))
		}),
		gocron.WithName("session-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule session cleanup: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	log.Debugln("scheduler: starting")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	log.Debugln("scheduler: stopping")
	return s.scheduler.Shutdown()
}
