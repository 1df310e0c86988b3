package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/logging"
	"cross-country/runflow/internal/metrics"
	"cross-country/runflow/internal/models/dtos"
	gormModels "cross-country/runflow/internal/models/gorm"
)

const mirrorStatusRecent = 10

// SheetsClient is the spreadsheet webhook
type SheetsClient interface {
	Enabled() bool
	PushRecords(ctx context.Context, records []gormModels.PresenceRecord) error
	FetchFrequencyTable(ctx context.Context) (*dtos.SheetFrequencyTable, error)
}

// MirrorHistoryStore keeps one row per processed mirror request
type MirrorHistoryStore interface {
	RecordAttempt(ctx context.Context, entry *gormModels.MirrorSyncHistory) error
	Latest(ctx context.Context, limit int) ([]gormModels.MirrorSyncHistory, error)
	LastSuccessAt(ctx context.Context) (*time.Time, error)
}

// MirrorService keeps the spreadsheet in step with the record store.
// Each push sends the full record list, newest first, replacing the sheet.
type MirrorService struct {
	records     PresenceRecordStore
	history     MirrorHistoryStore
	sheets      SheetsClient
	queue       common.MirrorQueue
	metrics     *metrics.MetricsRegistry
	maxAttempts int
	retryDelay  time.Duration
	now         common.Clock
}

func NewMirrorService(
	records PresenceRecordStore,
	history MirrorHistoryStore,
	sheets SheetsClient,
	queue common.MirrorQueue,
	metricsReg *metrics.MetricsRegistry,
	maxAttempts int,
	retryDelay time.Duration,
) *MirrorService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &MirrorService{
		records:     records,
		history:     history,
		sheets:      sheets,
		queue:       queue,
		metrics:     metricsReg,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		now:         time.Now,
	}
}

// RequestSync enqueues a push. Enqueue failures are logged and counted, and
// come back on the ticket; they never reach the check-in caller as an error.
func (s *MirrorService) RequestSync(ctx context.Context, event string) *dtos.MirrorTicket {
	ticket := &dtos.MirrorTicket{
		ID:          uuid.New().String(),
		Event:       event,
		RequestedAt: s.now(),
	}

	err := s.queue.Enqueue(ctx, &common.MirrorRequest{
		TicketID:    ticket.ID,
		Event:       event,
		RequestedAt: ticket.RequestedAt,
	})
	if err != nil {
		s.metrics.MirrorPushesTotal.WithLabelValues("enqueue_failed").Inc()
		logging.Error("Failed to enqueue mirror request", "ticket_id", ticket.ID, "event", event, "error", err.Error())
		ticket.Error = err.Error()
		return ticket
	}

	ticket.Queued = true
	s.refreshQueueDepth(ctx)
	return ticket
}

// Process pushes the current snapshot for one request and records the outcome.
func (s *MirrorService) Process(ctx context.Context, req *common.MirrorRequest) *dtos.MirrorResult {
	start := s.now()
	result := &dtos.MirrorResult{
		TicketID: req.TicketID,
		Event:    req.Event,
	}

	switch {
	case !s.sheets.Enabled():
		result.Status = constants.MirrorStatusSkipped
		result.Error = constants.MsgMirrorNotConfigured
		logging.Warn("Mirror push skipped, webhook URL not configured", "ticket_id", req.TicketID)
	default:
		s.push(ctx, result)
	}

	result.FinishedAt = s.now()
	result.DurationMs = result.FinishedAt.Sub(start).Milliseconds()

	s.metrics.MirrorPushesTotal.WithLabelValues(result.Status).Inc()
	s.metrics.MirrorPushDuration.Observe(result.FinishedAt.Sub(start).Seconds())
	s.refreshQueueDepth(ctx)

	entry := &gormModels.MirrorSyncHistory{
		TicketID:    result.TicketID,
		Event:       result.Event,
		Status:      result.Status,
		RecordCount: result.RecordCount,
		Attempts:    result.Attempts,
		Error:       result.Error,
		DurationMs:  result.DurationMs,
		RequestedAt: req.RequestedAt,
	}
	if err := s.history.RecordAttempt(ctx, entry); err != nil {
		logging.Error("Failed to record mirror history", "ticket_id", req.TicketID, "error", err.Error())
	}
	return result
}

func (s *MirrorService) push(ctx context.Context, result *dtos.MirrorResult) {
	records, err := s.records.ListNewestFirst(ctx)
	if err != nil {
		result.Status = constants.MirrorStatusFailed
		result.Error = err.Error()
		logging.Error("Mirror push failed to load records", "ticket_id", result.TicketID, "error", err.Error())
		return
	}
	result.RecordCount = len(records)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result.Attempts = attempt
		err = s.sheets.PushRecords(ctx, records)
		if err == nil {
			result.Status = constants.MirrorStatusSuccess
			result.Error = ""
			logging.Info("Mirror push succeeded", "ticket_id", result.TicketID, "records", len(records), "attempts", attempt)
			return
		}

		result.Error = err.Error()
		logging.Warn("Mirror push attempt failed", "ticket_id", result.TicketID, "attempt", attempt, "error", err.Error())

		if attempt == s.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			result.Status = constants.MirrorStatusFailed
			return
		case <-time.After(s.retryDelay * time.Duration(attempt)):
		}
	}

	result.Status = constants.MirrorStatusFailed
	logging.Error("Mirror push failed", "ticket_id", result.TicketID, "attempts", result.Attempts, "error", result.Error)
}

// Status summarizes the queue and the latest pushes for the admin view
func (s *MirrorService) Status(ctx context.Context) (*dtos.MirrorStatusResponse, error) {
	resp := &dtos.MirrorStatusResponse{Enabled: s.sheets.Enabled(), Recent: []dtos.MirrorResult{}}

	if n, err := s.queue.Len(ctx); err == nil {
		resp.QueueLength = n
	}

	last, err := s.history.LastSuccessAt(ctx)
	if err != nil {
		return nil, err
	}
	resp.LastSuccessAt = last

	entries, err := s.history.Latest(ctx, mirrorStatusRecent)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		resp.Recent = append(resp.Recent, dtos.MirrorResult{
			TicketID:    e.TicketID,
			Event:       e.Event,
			Status:      e.Status,
			RecordCount: e.RecordCount,
			Attempts:    e.Attempts,
			Error:       e.Error,
			DurationMs:  e.DurationMs,
			FinishedAt:  e.CreatedAt,
		})
	}
	return resp, nil
}

// LastSuccessAt is the time of the latest successful push, nil if none
func (s *MirrorService) LastSuccessAt(ctx context.Context) (*time.Time, error) {
	return s.history.LastSuccessAt(ctx)
}

// FrequencyTable reads the sheet's own attendance table
func (s *MirrorService) FrequencyTable(ctx context.Context) (*dtos.SheetFrequencyTable, error) {
	return s.sheets.FetchFrequencyTable(ctx)
}

func (s *MirrorService) refreshQueueDepth(ctx context.Context) {
	if n, err := s.queue.Len(ctx); err == nil {
		s.metrics.MirrorQueueDepth.Set(float64(n))
	}
}
