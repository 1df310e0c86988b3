package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/logging"
	"cross-country/runflow/internal/models/dtos"
)

const (
	dequeueBlock  = 5 * time.Second
	errorBackoff  = time.Second
	claimInterval = 2 * time.Minute
	claimMinIdle  = 5 * time.Minute
	streamMaxLen  = 1000
)

// MirrorProcessor pushes the snapshot for one dequeued request
type MirrorProcessor interface {
	Process(ctx context.Context, req *common.MirrorRequest) *dtos.MirrorResult
}

// staleClaimer is implemented by queues that keep pending entries per consumer (Redis Streams)
type staleClaimer interface {
	ClaimStale(ctx context.Context, consumer string, minIdle time.Duration) ([]*common.MirrorRequest, []string, error)
	TrimStream(ctx context.Context, maxLen int64) error
}

// MirrorQueueWorker drains the mirror queue. Every request is acked after
// processing, failed or not; the history table keeps the outcome.
type MirrorQueueWorker struct {
	workerID  string
	queue     common.MirrorQueue
	processor MirrorProcessor
	block     time.Duration
}

func NewMirrorQueueWorker(workerID string, queue common.MirrorQueue, processor MirrorProcessor) *MirrorQueueWorker {
	return &MirrorQueueWorker{
		workerID:  workerID,
		queue:     queue,
		processor: processor,
		block:     dequeueBlock,
	}
}

// Start runs numWorkers consumers until ctx is cancelled.
func (w *MirrorQueueWorker) Start(ctx context.Context, numWorkers int) error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	logging.Info("Starting mirror queue workers", "workers", numWorkers, "worker_id", w.workerID)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		consumer := fmt.Sprintf("%s-worker-%d", w.workerID, i)
		g.Go(func() error {
			w.processQueue(ctx, consumer)
			return nil
		})
	}

	if claimer, ok := w.queue.(staleClaimer); ok {
		g.Go(func() error {
			w.claimStaleMessages(ctx, claimer)
			return nil
		})
	}

	err := g.Wait()
	logging.Info("All mirror queue workers stopped", "worker_id", w.workerID)
	return err
}

func (w *MirrorQueueWorker) processQueue(ctx context.Context, consumer string) {
	log := logging.With("consumer", consumer)
	processed, failed := 0, 0

	for {
		if ctx.Err() != nil {
			log.Infow("Shutting down", "processed", processed, "failed", failed)
			return
		}

		req, messageID, err := w.queue.Dequeue(ctx, consumer, w.block)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			log.Warnw("Error dequeuing", "error", err.Error())
			if messageID != "" {
				// unreadable entry, drop it instead of leaving it pending
				_ = w.queue.Ack(ctx, messageID)
			}
			sleep(ctx, errorBackoff)
			continue
		}
		if req == nil {
			continue
		}

		if w.handle(ctx, req, messageID, log) {
			processed++
		} else {
			failed++
		}
	}
}

// handle processes and acks one request, reporting whether the push went through
func (w *MirrorQueueWorker) handle(ctx context.Context, req *common.MirrorRequest, messageID string, log *zap.SugaredLogger) bool {
	result := w.processor.Process(ctx, req)
	if err := w.queue.Ack(ctx, messageID); err != nil {
		log.Warnw("Error acknowledging message", "message_id", messageID, "error", err.Error())
	}
	return result != nil && result.Error == ""
}

// claimStaleMessages picks up requests left pending by a consumer that died mid-push
func (w *MirrorQueueWorker) claimStaleMessages(ctx context.Context, claimer staleClaimer) {
	ticker := time.NewTicker(claimInterval)
	defer ticker.Stop()

	consumer := w.workerID + "-claimer"
	log := logging.With("consumer", consumer)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reqs, ids, err := claimer.ClaimStale(ctx, consumer, claimMinIdle)
			if err != nil {
				log.Warnw("Error claiming stale messages", "error", err.Error())
				continue
			}
			if len(reqs) > 0 {
				log.Infow("Claimed stale mirror requests", "count", len(reqs))
			}
			for i, req := range reqs {
				w.handle(ctx, req, ids[i], log)
			}
			if err := claimer.TrimStream(ctx, streamMaxLen); err != nil {
				log.Warnw("Error trimming stream", "error", err.Error())
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
