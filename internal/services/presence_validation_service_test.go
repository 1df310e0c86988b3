package services

import (
	"math"
	"strings"
	"testing"
	"time"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/config"
	"cross-country/runflow/internal/constants"
)

func testPolicy() config.TrainingConfig {
	return config.DefaultTraining()
}

// northOf returns a point meters due north of the training center.
func northOf(policy config.TrainingConfig, meters float64) (float64, float64) {
	return policy.CenterLat + meters/common.EarthRadiusMeters*180/math.Pi, policy.CenterLng
}

func saoPaulo(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("Failed to load timezone: %v", err)
	}
	return loc
}

func newTestValidator(t *testing.T) (*PresenceValidationService, *time.Location) {
	policy := testPolicy()
	loc := saoPaulo(t)
	return NewPresenceValidationService(policy, common.NewTrainingClock(loc, nil)), loc
}

func TestValidateAt_WithinRadiusOnTuesday(t *testing.T) {
	v, loc := newTestValidator(t)
	lat, lng := northOf(testPolicy(), 250)

	res := v.ValidateAt(lat, lng, time.Date(2025, 1, 7, 7, 0, 0, 0, loc))

	if !res.Allowed {
		t.Fatalf("Expected allowed, got %+v", res)
	}
	if res.Details == nil || math.Abs(res.Details.DistanceMeters-250) > 0.5 {
		t.Errorf("Expected distance ~250, got %+v", res.Details)
	}
	if res.Details.IsExemptDay {
		t.Error("Tuesday must not be exempt")
	}
	if res.Details.DayName != "Terça-feira" || res.Details.Hour != "07:00" {
		t.Errorf("Unexpected day/hour %q %q", res.Details.DayName, res.Details.Hour)
	}
}

func TestValidateAt_OutsideRadiusOnTuesday(t *testing.T) {
	v, loc := newTestValidator(t)
	lat, lng := northOf(testPolicy(), 500)

	res := v.ValidateAt(lat, lng, time.Date(2025, 1, 7, 7, 0, 0, 0, loc))

	if res.Allowed || res.Kind != KindOutsideRadius {
		t.Fatalf("Expected outside_radius, got %+v", res)
	}
	want := "Você está fora do raio permitido (500m do ponto central). O limite é de 300m."
	if res.Reason != want {
		t.Errorf("Expected %q, got %q", want, res.Reason)
	}
	if res.Details == nil || res.Details.IsExemptDay {
		t.Errorf("Expected details with exempt=false, got %+v", res.Details)
	}
}

func TestValidateAt_WednesdayRejectedRegardlessOfDistance(t *testing.T) {
	v, loc := newTestValidator(t)
	policy := testPolicy()

	res := v.ValidateAt(policy.CenterLat, policy.CenterLng, time.Date(2025, 1, 8, 8, 0, 0, 0, loc))

	if res.Allowed || res.Kind != KindOutsideSchedule {
		t.Fatalf("Expected outside_schedule, got %+v", res)
	}
	if res.Details != nil {
		t.Error("Schedule rejection must not compute distance")
	}
	want := "Registro não permitido fora dos dias e horários de treino (Terça, Quinta e Domingo das 06h às 12h)."
	if res.Reason != want {
		t.Errorf("Expected %q, got %q", want, res.Reason)
	}
}

func TestValidateAt_SundayIgnoresRadius(t *testing.T) {
	v, loc := newTestValidator(t)
	lat, lng := northOf(testPolicy(), 10000)

	res := v.ValidateAt(lat, lng, time.Date(2025, 1, 5, 9, 0, 0, 0, loc))

	if !res.Allowed {
		t.Fatalf("Expected allowed on Sunday, got %+v", res)
	}
	if !res.Details.IsExemptDay {
		t.Error("Expected exempt day flag")
	}
	if math.Abs(res.Details.DistanceMeters-10000) > 1 {
		t.Errorf("Expected distance ~10000 still reported, got %v", res.Details.DistanceMeters)
	}
}

func TestValidateAt_HourWindowBoundaries(t *testing.T) {
	v, loc := newTestValidator(t)
	policy := testPolicy()

	cases := []struct {
		name    string
		at      time.Time
		allowed bool
	}{
		{"before start", time.Date(2025, 1, 9, 5, 59, 0, 0, loc), false},
		{"at start", time.Date(2025, 1, 9, 6, 0, 0, 0, loc), true},
		{"last minute", time.Date(2025, 1, 9, 11, 59, 0, 0, loc), true},
		{"at end hour", time.Date(2025, 1, 9, 12, 0, 0, 0, loc), false},
	}
	for _, c := range cases {
		res := v.ValidateAt(policy.CenterLat, policy.CenterLng, c.at)
		if res.Allowed != c.allowed {
			t.Errorf("%s: expected allowed=%v, got %+v", c.name, c.allowed, res)
		}
		if !c.allowed && res.Kind != KindOutsideSchedule {
			t.Errorf("%s: expected outside_schedule, got %s", c.name, res.Kind)
		}
	}
}

func TestValidateAt_RadiusBoundaries(t *testing.T) {
	v, loc := newTestValidator(t)
	at := time.Date(2025, 1, 7, 7, 0, 0, 0, loc)

	lat, lng := northOf(testPolicy(), 299)
	if res := v.ValidateAt(lat, lng, at); !res.Allowed {
		t.Errorf("Expected 299m allowed, got %+v", res)
	}
	lat, lng = northOf(testPolicy(), 301)
	if res := v.ValidateAt(lat, lng, at); res.Allowed {
		t.Errorf("Expected 301m rejected, got %+v", res)
	}
}

func TestValidateAt_UsesTrainingTimezone(t *testing.T) {
	v, _ := newTestValidator(t)
	policy := testPolicy()

	// 09:30 UTC is 06:30 in São Paulo
	if res := v.ValidateAt(policy.CenterLat, policy.CenterLng, time.Date(2025, 1, 7, 9, 30, 0, 0, time.UTC)); !res.Allowed {
		t.Errorf("Expected allowed at 06:30 local, got %+v", res)
	}
	// 08:30 UTC is 05:30 in São Paulo
	if res := v.ValidateAt(policy.CenterLat, policy.CenterLng, time.Date(2025, 1, 7, 8, 30, 0, 0, time.UTC)); res.Allowed {
		t.Errorf("Expected rejected at 05:30 local, got %+v", res)
	}
}

func TestValidate_UsesClock(t *testing.T) {
	policy := testPolicy()
	loc := saoPaulo(t)
	fixed := time.Date(2025, 1, 8, 7, 0, 0, 0, loc)
	v := NewPresenceValidationService(policy, common.NewTrainingClock(loc, func() time.Time { return fixed }))

	if res := v.Validate(policy.CenterLat, policy.CenterLng); res.Kind != KindOutsideSchedule {
		t.Errorf("Expected Wednesday rejection from clock, got %+v", res)
	}
}

func TestScheduleMessage_FollowsPolicy(t *testing.T) {
	policy := testPolicy()
	policy.AllowedDays = []time.Weekday{time.Saturday, time.Monday}
	policy.StartHour = 7
	policy.EndHour = 9

	msg := ScheduleMessage(policy)
	if !strings.Contains(msg, "(Segunda e Sábado das 07h às 09h)") {
		t.Errorf("Unexpected message %q", msg)
	}
	if !strings.HasPrefix(msg, strings.Split(constants.MsgOutsideScheduleFmt, "(")[0]) {
		t.Errorf("Unexpected prefix %q", msg)
	}
}

func TestRejectionKind_HTTPStatus(t *testing.T) {
	if KindOutsideRadius.HTTPStatus() != 403 || KindLocationDenied.HTTPStatus() != 422 || KindEmptyName.HTTPStatus() != 400 {
		t.Error("Unexpected status mapping")
	}
}
