package jobs

import (
	"context"
	"time"

	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/logging"
	"cross-country/runflow/internal/metrics"
	"cross-country/runflow/internal/models/dtos"
)

const jobNameMirrorResync = "mirror_resync"

// MirrorSyncer is the part of the mirror service the resync job drives
type MirrorSyncer interface {
	RequestSync(ctx context.Context, event string) *dtos.MirrorTicket
	LastSuccessAt(ctx context.Context) (*time.Time, error)
}

// MirrorResyncJob re-pushes the full snapshot so a sheet that missed a
// check-in push (webhook down, queue lost) converges again.
type MirrorResyncJob struct {
	mirror  MirrorSyncer
	every   time.Duration
	metrics *metrics.MetricsRegistry
	now     func() time.Time
}

func NewMirrorResyncJob(mirror MirrorSyncer, every time.Duration, metricsReg *metrics.MetricsRegistry) *MirrorResyncJob {
	return &MirrorResyncJob{
		mirror:  mirror,
		every:   every,
		metrics: metricsReg,
		now:     time.Now,
	}
}

// Run queues one resync request
func (j *MirrorResyncJob) Run(ctx context.Context) *dtos.MirrorTicket {
	start := j.now()
	ticket := j.mirror.RequestSync(ctx, constants.MirrorEventResync)
	j.metrics.SyncJobDuration.WithLabelValues(jobNameMirrorResync).Observe(j.now().Sub(start).Seconds())

	if ticket.Error != "" {
		logging.Warn("Mirror resync could not be queued", "ticket_id", ticket.ID, "error", ticket.Error)
	} else {
		logging.Info("Mirror resync queued", "ticket_id", ticket.ID)
	}
	return ticket
}

// ShouldRunInitialSync is true when no push ever succeeded or the last one is older than the resync interval
func (j *MirrorResyncJob) ShouldRunInitialSync(ctx context.Context) bool {
	last, err := j.mirror.LastSuccessAt(ctx)
	if err != nil {
		logging.Warn("Error checking last mirror push, running resync anyway", "error", err.Error())
		return true
	}

	if last == nil {
		logging.Info("No previous mirror push found, running initial resync")
		return true
	}

	since := j.now().Sub(*last)
	if since > j.every {
		logging.Info("Last mirror push is stale, running resync", "since", since.Truncate(time.Minute).String())
		return true
	}

	logging.Debug("Last mirror push is recent, skipping initial resync", "since", since.Truncate(time.Minute).String())
	return false
}
