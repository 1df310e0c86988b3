package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"cross-country/runflow/internal/logging"
)

// InitializeJobs runs the startup resync when due and schedules the periodic one.
// The returned scheduler is already started; Stop it on shutdown.
func InitializeJobs(ctx context.Context, resync *MirrorResyncJob, schedule string) (*cron.Cron, error) {
	if resync.ShouldRunInitialSync(ctx) {
		resync.Run(ctx)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() { resync.Run(ctx) }); err != nil {
		return nil, fmt.Errorf("invalid mirror resync schedule %q: %w", schedule, err)
	}

	logging.Info("Scheduled mirror resync", "schedule", schedule)
	c.Start()
	return c, nil
}
