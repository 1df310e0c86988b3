package common

import (
	"context"
	"time"
)

// MirrorRequest asks a worker to push the current record snapshot to the sheet.
// It carries no records: the worker reads the full list when it processes the request.
type MirrorRequest struct {
	TicketID    string    `json:"ticket_id"`
	Event       string    `json:"event"`
	RequestedAt time.Time `json:"requested_at"`
}

// MirrorQueue feeds mirror requests to workers. Dequeue returns (nil, "", nil)
// when nothing arrived within block.
type MirrorQueue interface {
	Enqueue(ctx context.Context, req *MirrorRequest) error
	Dequeue(ctx context.Context, consumer string, block time.Duration) (*MirrorRequest, string, error)
	Ack(ctx context.Context, messageID string) error
	Len(ctx context.Context) (int64, error)
}
