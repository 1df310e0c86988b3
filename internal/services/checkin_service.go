package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/logging"
	"cross-country/runflow/internal/metrics"
	"cross-country/runflow/internal/models/dtos"
	gormModels "cross-country/runflow/internal/models/gorm"
)

const (
	outcomeAccepted = "accepted"
	outcomeForced   = "forced"
	outcomeRejected = "rejected"
)

// MirrorRequester schedules a sheet push without waiting for it
type MirrorRequester interface {
	RequestSync(ctx context.Context, event string) *dtos.MirrorTicket
}

// MatrixInvalidator drops cached monthly grids
type MatrixInvalidator interface {
	Invalidate(monthKey string)
}

// CheckInResult is a stored check-in and the confirmation shown to the athlete
type CheckInResult struct {
	Record        *gormModels.PresenceRecord
	Message       string
	AdminOverride bool
	Details       *ValidationDetails
	Mirror        *dtos.MirrorTicket
}

// CheckInService runs the check-in flow: name checks, admin bypass,
// location checks, validation, then an append-only write.
type CheckInService struct {
	records    PresenceRecordStore
	validator  *PresenceValidationService
	roster     *RosterService
	clock      *common.TrainingClock
	bypassCode string
	centerLat  float64
	centerLng  float64
	exemptDay  time.Weekday
	mirror     MirrorRequester
	matrices   MatrixInvalidator
	metrics    *metrics.MetricsRegistry
}

type CheckInServiceConfig struct {
	BypassCode string
	CenterLat  float64
	CenterLng  float64
	ExemptDay  time.Weekday
}

func NewCheckInService(
	records PresenceRecordStore,
	validator *PresenceValidationService,
	roster *RosterService,
	clock *common.TrainingClock,
	cfg CheckInServiceConfig,
	mirror MirrorRequester,
	matrices MatrixInvalidator,
	metricsReg *metrics.MetricsRegistry,
) *CheckInService {
	return &CheckInService{
		records:    records,
		validator:  validator,
		roster:     roster,
		clock:      clock,
		bypassCode: cfg.BypassCode,
		centerLat:  cfg.CenterLat,
		centerLng:  cfg.CenterLng,
		exemptDay:  cfg.ExemptDay,
		mirror:     mirror,
		matrices:   matrices,
		metrics:    metricsReg,
	}
}

// CheckIn validates and stores one submission. Refusals are *CheckInError.
func (s *CheckInService) CheckIn(ctx context.Context, req dtos.CheckInRequest) (*CheckInResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, s.reject(newCheckInError(KindEmptyName, constants.MsgEmptyName))
	}

	if prefix, ok := s.bypassPrefix(name); ok {
		return s.forceCheckIn(ctx, prefix)
	}

	if req.LocationError != "" {
		return nil, s.reject(locationError(req.LocationError))
	}
	if req.Latitude == nil || req.Longitude == nil || !common.ValidCoordinates(*req.Latitude, *req.Longitude) {
		return nil, s.reject(newCheckInError(KindInvalidCoordinates, constants.MsgInvalidCoordinates))
	}
	lat, lng := *req.Latitude, *req.Longitude

	now := s.clock.Now()
	validation := s.validator.ValidateAt(lat, lng, now)
	if !validation.Allowed {
		reason := validation.Reason
		if reason == "" {
			reason = constants.MsgNotAllowed
		}
		return nil, s.reject(&CheckInError{Kind: validation.Kind, Message: reason, Details: validation.Details})
	}

	record := s.newRecord(name, lat, lng, now)
	record.DistanceFromCenter = validation.Details.DistanceMeters
	record.IsSunday = validation.Details.IsExemptDay

	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}
	s.metrics.CheckInsTotal.WithLabelValues(outcomeAccepted, "").Inc()

	logging.Info("Check-in recorded",
		"record_id", record.ID,
		"name", record.Name,
		"distance_m", common.RoundMeters(record.DistanceFromCenter),
		"exempt_day", record.IsSunday,
	)

	return &CheckInResult{
		Record:  record,
		Message: fmt.Sprintf(constants.MsgCheckInConfirmedFmt, record.TimeString),
		Details: validation.Details,
		Mirror:  s.afterWrite(ctx, record),
	}, nil
}

// bypassPrefix reports whether name ends with the admin code and returns the
// trimmed text typed before it.
func (s *CheckInService) bypassPrefix(name string) (string, bool) {
	code := s.bypassCode
	if code == "" || len(name) < len(code) || !strings.EqualFold(name[len(name)-len(code):], code) {
		return "", false
	}
	return strings.TrimSpace(name[:len(name)-len(code)]), true
}

// forceCheckIn stores a record at the center without any validation
func (s *CheckInService) forceCheckIn(ctx context.Context, prefix string) (*CheckInResult, error) {
	if prefix == "" {
		return nil, s.reject(newCheckInError(KindMissingNameBeforeCode, constants.MsgMissingNameBeforeCode))
	}

	officialName := s.roster.MatchBypass(prefix)
	now := s.clock.Now()

	record := s.newRecord(officialName, s.centerLat, s.centerLng, now)
	record.DistanceFromCenter = 0
	record.IsSunday = now.Weekday() == s.exemptDay
	record.AdminOverride = true

	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}
	s.metrics.CheckInsTotal.WithLabelValues(outcomeForced, "").Inc()

	logging.Warn("Admin bypass check-in recorded", "record_id", record.ID, "typed", prefix, "name", officialName)

	return &CheckInResult{
		Record:        record,
		Message:       fmt.Sprintf(constants.MsgAdminForcedFmt, officialName),
		AdminOverride: true,
		Mirror:        s.afterWrite(ctx, record),
	}, nil
}

// newRecord freezes the date, time, day name and month key in the training timezone
func (s *CheckInService) newRecord(name string, lat, lng float64, now time.Time) *gormModels.PresenceRecord {
	local := s.clock.In(now)
	return &gormModels.PresenceRecord{
		ID:         uuid.New().String(),
		Name:       name,
		Timestamp:  now.UnixMilli(),
		Latitude:   lat,
		Longitude:  lng,
		Status:     string(constants.RecordStatusValid),
		DateString: common.FormatDate(local),
		TimeString: common.FormatTime(local),
		DayOfWeek:  common.DayName(local.Weekday()),
		MonthKey:   common.MonthKey(local),
	}
}

// afterWrite invalidates the month grid and asks for a mirror push.
// Neither step can fail the check-in.
func (s *CheckInService) afterWrite(ctx context.Context, record *gormModels.PresenceRecord) *dtos.MirrorTicket {
	if s.matrices != nil {
		s.matrices.Invalidate(record.MonthKey)
	}
	if s.mirror == nil {
		return nil
	}
	return s.mirror.RequestSync(ctx, constants.MirrorEventCheckIn)
}

func (s *CheckInService) reject(err *CheckInError) *CheckInError {
	s.metrics.CheckInsTotal.WithLabelValues(outcomeRejected, string(err.Kind)).Inc()
	logging.Debug("Check-in rejected", "kind", err.Kind, "message", err.Message)
	return err
}

func locationError(code string) *CheckInError {
	switch code {
	case "unsupported":
		return newCheckInError(KindLocationUnsupported, constants.MsgLocationUnsupported)
	case "permission_denied":
		return newCheckInError(KindLocationDenied, constants.MsgLocationDenied)
	case "timeout":
		return newCheckInError(KindLocationTimeout, constants.MsgLocationGeneric)
	default:
		return newCheckInError(KindLocationUnavailable, constants.MsgLocationGeneric)
	}
}
