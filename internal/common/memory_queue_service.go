package common

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"
)

var ErrQueueFull = errors.New("mirror queue is full")

type memoryItem struct {
	id  string
	req *MirrorRequest
}

// MemoryQueueService is the single-process MirrorQueue used when Redis is disabled.
// Requests are lost on restart; the resync job covers that.
type MemoryQueueService struct {
	items chan memoryItem
	seq   atomic.Uint64
}

var _ MirrorQueue = (*MemoryQueueService)(nil)

func NewMemoryQueueService(capacity int) *MemoryQueueService {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryQueueService{items: make(chan memoryItem, capacity)}
}

// Enqueue never blocks; a full buffer is reported as ErrQueueFull.
func (q *MemoryQueueService) Enqueue(_ context.Context, req *MirrorRequest) error {
	id := strconv.FormatUint(q.seq.Add(1), 10)
	select {
	case q.items <- memoryItem{id: id, req: req}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueueService) Dequeue(ctx context.Context, _ string, block time.Duration) (*MirrorRequest, string, error) {
	timer := time.NewTimer(block)
	defer timer.Stop()

	select {
	case item := <-q.items:
		return item.req, item.id, nil
	case <-timer.C:
		return nil, "", nil
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
}

// Ack is a no-op; a dequeued item is already gone.
func (q *MemoryQueueService) Ack(context.Context, string) error {
	return nil
}

func (q *MemoryQueueService) Len(context.Context) (int64, error) {
	return int64(len(q.items)), nil
}
