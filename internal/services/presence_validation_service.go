package services

import (
	"fmt"
	"strings"
	"time"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/config"
	"cross-country/runflow/internal/constants"
)

// ValidationDetails is what the validator measured
type ValidationDetails struct {
	DistanceMeters float64
	IsExemptDay    bool
	DayName        string
	Hour           string
}

// ValidationResult represents the outcome of a presence validation
type ValidationResult struct {
	Allowed bool
	Kind    RejectionKind
	Reason  string
	Details *ValidationDetails
}

// PresenceValidationService decides whether a location at an instant may check in
type PresenceValidationService struct {
	policy          config.TrainingConfig
	clock           *common.TrainingClock
	scheduleMessage string
}

func NewPresenceValidationService(policy config.TrainingConfig, clock *common.TrainingClock) *PresenceValidationService {
	return &PresenceValidationService{
		policy:          policy,
		clock:           clock,
		scheduleMessage: ScheduleMessage(policy),
	}
}

// Validate checks the location against the policy at the current instant
func (s *PresenceValidationService) Validate(lat, lng float64) *ValidationResult {
	return s.ValidateAt(lat, lng, s.clock.Now())
}

// ValidateAt is the deterministic form of Validate.
// The day and hour window is checked before distance. The exempt day skips
// the radius check but still reports the distance.
func (s *PresenceValidationService) ValidateAt(lat, lng float64, now time.Time) *ValidationResult {
	local := s.clock.In(now)
	day := local.Weekday()
	hour := local.Hour()

	if !s.policy.IsAllowedDay(day) || hour < s.policy.StartHour || hour >= s.policy.EndHour {
		return &ValidationResult{
			Allowed: false,
			Kind:    KindOutsideSchedule,
			Reason:  s.scheduleMessage,
		}
	}

	details := &ValidationDetails{
		DistanceMeters: common.HaversineMeters(lat, lng, s.policy.CenterLat, s.policy.CenterLng),
		IsExemptDay:    day == s.policy.ExemptDay,
		DayName:        common.DayName(day),
		Hour:           common.FormatTime(local),
	}

	if !details.IsExemptDay && details.DistanceMeters > s.policy.RadiusMeters {
		return &ValidationResult{
			Allowed: false,
			Kind:    KindOutsideRadius,
			Reason: fmt.Sprintf(constants.MsgOutsideRadiusFmt,
				common.RoundMeters(details.DistanceMeters), common.RoundMeters(s.policy.RadiusMeters)),
			Details: details,
		}
	}

	return &ValidationResult{Allowed: true, Details: details}
}

// ScheduleMessage renders the outside-schedule refusal from the policy,
// e.g. "(Terça, Quinta e Domingo das 06h às 12h)". Days are listed Monday
// first with Sunday last.
func ScheduleMessage(policy config.TrainingConfig) string {
	var names []string
	for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		if policy.IsAllowedDay(d) {
			name := common.DayName(d)
			if i := strings.Index(name, "-"); i >= 0 {
				name = name[:i]
			}
			names = append(names, name)
		}
	}
	return fmt.Sprintf(constants.MsgOutsideScheduleFmt, joinPortuguese(names), policy.StartHour, policy.EndHour)
}

func joinPortuguese(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " e " + items[len(items)-1]
	}
}
