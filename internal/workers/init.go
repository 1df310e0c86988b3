package workers

import (
	"context"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/logging"
)

type WorkersContainer struct {
	Mirror *MirrorQueueWorker
}

// InitWorkers starts the mirror consumers in the background. They stop when ctx is cancelled.
func InitWorkers(ctx context.Context, queue common.MirrorQueue, processor MirrorProcessor, numWorkers int) *WorkersContainer {
	if rq, ok := queue.(*common.RedisQueueService); ok {
		if err := rq.CreateConsumerGroup(ctx); err != nil {
			logging.Warn("Failed to create mirror consumer group", "error", err.Error())
		}
	}

	mirror := NewMirrorQueueWorker("mirror", queue, processor)
	go func() {
		if err := mirror.Start(ctx, numWorkers); err != nil {
			logging.Error("Mirror workers exited", "error", err.Error())
		}
	}()

	return &WorkersContainer{Mirror: mirror}
}
