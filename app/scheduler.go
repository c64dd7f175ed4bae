package app

import (
	"context"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wicketwatch/config"
	"wicketwatch/lib/ingest"
	"wicketwatch/lib/matcher"
)

// NewScheduler drives the two periodic loops: match ingestion (daily) and the
// notification matching cycle (minutely). Jobs run in singleton mode so a slow
// cycle delays its own next tick instead of overlapping it; Shutdown waits for
// in-flight cycles.
func NewScheduler(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, engine *matcher.Engine, task *ingest.Task) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	runIngestion := func() {
		if err := task.RunCycle(context.Background()); err != nil {
			log.Sugar().Errorw("Match ingestion cycle failed", "err", err)
		}
	}
	runMatching := func() {
		satisfied, err := engine.EvaluateCycle(context.Background())
		if err != nil {
			log.Sugar().Errorw("Matching cycle failed", "err", err)
			return
		}
		if satisfied > 0 {
			log.Sugar().Infof("%d notifications have been satisfied", satisfied)
		}
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.IngestInterval),
		gocron.NewTask(runIngestion),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return nil, err
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.CheckInterval),
		gocron.NewTask(runMatching),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sched.Start()

			// Catch-up: make sure a fresh deployment has today's catalog
			// before the first scheduled ingestion tick.
			ingested, err := task.HasRecordsFor(ctx, task.Today())
			if err != nil {
				log.Sugar().Errorw("Failed to check today's stored matches", "err", err)
				return nil
			}
			if !ingested {
				go runIngestion()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Sugar().Info("Stopping scheduler")
			return sched.Shutdown()
		},
	})

	return sched, nil
}
