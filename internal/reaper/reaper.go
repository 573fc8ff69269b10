// Package reaper stops mission containers that outlive their time-to-live.
package reaper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/projectsol/solclient/internal/foundation/errors"
	"github.com/projectsol/solclient/internal/journal"
	"github.com/projectsol/solclient/internal/logfields"
	"github.com/projectsol/solclient/internal/metrics"
)

// StopReason is recorded in the journal for missions stopped here.
const StopReason = "expired"

// Stopper stops a container on the platform.
type Stopper interface {
	StopContainer(ctx context.Context, containerID string) error
}

// Journal is the subset of the mission journal the reaper needs.
type Journal interface {
	ExpiredMissions(ctx context.Context, cutoff time.Time) ([]journal.Mission, error)
	MarkStopped(ctx context.Context, containerID, reason string) error
}

// Reaper wraps a gocron scheduler running a periodic sweep of expired missions.
type Reaper struct {
	scheduler gocron.Scheduler
	stopper   Stopper
	journal   Journal
	ttl       time.Duration
	interval  time.Duration
	recorder  metrics.Recorder
	now       func() time.Time
}

// New creates a reaper. It does not run until Start is called.
func New(stopper Stopper, j Journal, ttl, interval time.Duration, recorder metrics.Recorder) (*Reaper, error) {
	if ttl <= 0 || interval <= 0 {
		return nil, errors.ConfigError("reaper ttl and interval must be positive").
			WithContext("ttl", ttl.String()).
			WithContext("interval", interval.String()).
			Build()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Reaper{
		scheduler: s,
		stopper:   stopper,
		journal:   j,
		ttl:       ttl,
		interval:  interval,
		recorder:  recorder,
		now:       time.Now,
	}, nil
}

// Start schedules the sweep every interval and starts the scheduler.
func (r *Reaper) Start(ctx context.Context) error {
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() { r.sweepAndLog(ctx) }),
		gocron.WithName("mission-reaper"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create reaper job: %w", err)
	}
	slog.Info("Starting mission reaper",
		slog.Duration("ttl", r.ttl),
		slog.Duration("interval", r.interval))
	r.scheduler.Start()
	return nil
}

// Stop gracefully shuts down the scheduler.
func (r *Reaper) Stop() error {
	slog.Info("Stopping mission reaper")
	return r.scheduler.Shutdown()
}

func (r *Reaper) sweepAndLog(ctx context.Context) {
	n, err := r.Sweep(ctx)
	if err != nil {
		slog.Error("Mission reaper sweep failed", logfields.Error(err))
		return
	}
	if n > 0 {
		slog.Info("Reaped expired missions", slog.Int("count", n))
	}
}

// Sweep stops every active mission older than the TTL and returns how many were closed.
// A container the platform no longer knows about is still closed in the journal.
func (r *Reaper) Sweep(ctx context.Context) (int, error) {
	expired, err := r.journal.ExpiredMissions(ctx, r.now().Add(-r.ttl))
	if err != nil {
		return 0, err
	}

	reaped := 0
	for _, m := range expired {
		if err := r.stopper.StopContainer(ctx, m.ContainerID); err != nil && !errors.HasCategory(err, errors.CategoryNotFound) {
			slog.Warn("Failed to stop expired mission",
				logfields.MissionID(m.ID),
				logfields.ContainerID(m.ContainerID),
				logfields.ChallengeID(m.ChallengeID),
				logfields.Error(err))
			continue
		}
		if err := r.journal.MarkStopped(ctx, m.ContainerID, StopReason); err != nil {
			slog.Warn("Failed to close expired mission in journal",
				logfields.MissionID(m.ID),
				logfields.ContainerID(m.ContainerID),
				logfields.Error(err))
			continue
		}
		reaped++
	}
	r.recorder.AddMissionsReaped(reaped)
	return reaped, nil
}
