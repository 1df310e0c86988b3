package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"cross-country/runflow/internal/logging"
)

// RedisQueueService provides the mirror queue on top of a Redis Stream
type RedisQueueService struct {
	client *redis.Client
	stream string
	group  string
}

var _ MirrorQueue = (*RedisQueueService)(nil)

// NewRedisQueueService creates a new Redis queue service bound to one stream and consumer group
func NewRedisQueueService(client *redis.Client, stream, group string) *RedisQueueService {
	return &RedisQueueService{
		client: client,
		stream: stream,
		group:  group,
	}
}

// Enqueue adds a request to the stream
func (s *RedisQueueService) Enqueue(ctx context.Context, req *MirrorRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal mirror request: %w", err)
	}

	// XADD stream * data <json>
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}

// Dequeue reads one new request through the consumer group
func (s *RedisQueueService) Dequeue(ctx context.Context, consumer string, block time.Duration) (*MirrorRequest, string, error) {
	// XREADGROUP GROUP group consumer BLOCK ms COUNT 1 STREAMS stream >
	args := &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: consumer,
		Streams:  []string{s.stream, ">"},
		Count:    1,
		Block:    block,
	}

	streams, err := s.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]
	req, err := decodeMirrorMessage(msg)
	if err != nil {
		return nil, msg.ID, err
	}
	return req, msg.ID, nil
}

// Ack acknowledges successful processing of a message
func (s *RedisQueueService) Ack(ctx context.Context, messageID string) error {
	return s.client.XAck(ctx, s.stream, s.group, messageID).Err()
}

// Len returns the work still owed by the consumer group: entries delivered but
// not acked plus entries not yet delivered. Acked history kept until the next
// trim is not counted.
func (s *RedisQueueService) Len(ctx context.Context) (int64, error) {
	groups, err := s.client.XInfoGroups(ctx, s.stream).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return groupBacklog(groups, s.group), nil
}

func groupBacklog(groups []redis.XInfoGroup, group string) int64 {
	for _, g := range groups {
		if g.Name != group {
			continue
		}
		lag := g.Lag
		if lag < 0 {
			// redis reports no lag when it cannot compute one
			lag = 0
		}
		return g.Pending + lag
	}
	return 0
}

// CreateConsumerGroup creates the consumer group if it doesn't exist
func (s *RedisQueueService) CreateConsumerGroup(ctx context.Context) error {
	// XGROUP CREATE stream group 0 MKSTREAM
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

// TrimStream keeps only the most recent maxLen messages
func (s *RedisQueueService) TrimStream(ctx context.Context, maxLen int64) error {
	return s.client.XTrimMaxLen(ctx, s.stream, maxLen).Err()
}

// ClaimStale claims messages left pending by dead workers for longer than minIdle
func (s *RedisQueueService) ClaimStale(ctx context.Context, consumer string, minIdle time.Duration) ([]*MirrorRequest, []string, error) {
	pending, err := s.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: s.stream,
		Group:  s.group,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get pending messages: %w", err)
	}

	var staleIDs []string
	for _, p := range pending {
		if p.Idle >= minIdle {
			staleIDs = append(staleIDs, p.ID)
		}
	}
	if len(staleIDs) == 0 {
		return nil, nil, nil
	}

	messages, err := s.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   s.stream,
		Group:    s.group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Messages: staleIDs,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to claim stale messages: %w", err)
	}

	var items []*MirrorRequest
	var ids []string
	for _, msg := range messages {
		req, err := decodeMirrorMessage(msg)
		if err != nil {
			logging.Warn("Redis queue: skipping unreadable claimed message", "id", msg.ID, "error", err.Error())
			continue
		}
		items = append(items, req)
		ids = append(ids, msg.ID)
	}
	return items, ids, nil
}

func decodeMirrorMessage(msg redis.XMessage) (*MirrorRequest, error) {
	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid message format: data field missing")
	}
	var req MirrorRequest
	if err := json.Unmarshal([]byte(dataStr), &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mirror request: %w", err)
	}
	return &req, nil
}
