package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/db/repositories"
	"cross-country/runflow/internal/metrics"
	"cross-country/runflow/internal/models/dtos"
)

type mockMirror struct {
	requests []string
}

func (m *mockMirror) RequestSync(ctx context.Context, event string) *dtos.MirrorTicket {
	m.requests = append(m.requests, event)
	return &dtos.MirrorTicket{ID: "ticket", Event: event, Queued: true}
}

type mockInvalidator struct {
	months []string
}

func (m *mockInvalidator) Invalidate(monthKey string) {
	m.months = append(m.months, monthKey)
}

type checkInFixture struct {
	svc      *CheckInService
	repo     *repositories.PresenceRecordRepo
	mirror   *mockMirror
	matrices *mockInvalidator
	metrics  *metrics.MetricsRegistry
}

func newCheckInFixture(t *testing.T, at time.Time) *checkInFixture {
	db := setupTestDB(t)
	repo := repositories.NewPresenceRecordRepo(db)
	policy := testPolicy()
	clock := fixedClock(t, at)
	mirror := &mockMirror{}
	matrices := &mockInvalidator{}
	reg := newTestMetrics()

	svc := NewCheckInService(
		repo,
		NewPresenceValidationService(policy, clock),
		NewRosterService(constants.DefaultRoster),
		clock,
		CheckInServiceConfig{
			BypassCode: "romos2228",
			CenterLat:  policy.CenterLat,
			CenterLng:  policy.CenterLng,
			ExemptDay:  policy.ExemptDay,
		},
		mirror,
		matrices,
		reg,
	)
	return &checkInFixture{svc: svc, repo: repo, mirror: mirror, matrices: matrices, metrics: reg}
}

func coords(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func expectKind(t *testing.T, err error, kind RejectionKind, message string) {
	t.Helper()
	var ciErr *CheckInError
	if !errors.As(err, &ciErr) {
		t.Fatalf("Expected CheckInError, got %v", err)
	}
	if ciErr.Kind != kind {
		t.Errorf("Expected kind %s, got %s", kind, ciErr.Kind)
	}
	if message != "" && ciErr.Message != message {
		t.Errorf("Expected message %q, got %q", message, ciErr.Message)
	}
}

func tuesdayMorning(t *testing.T) time.Time {
	return time.Date(2025, 1, 7, 7, 0, 0, 0, saoPaulo(t))
}

func TestCheckIn_ValidWithinRadius(t *testing.T) {
	f := newCheckInFixture(t, tuesdayMorning(t))
	lat, lng := coords(northOf(testPolicy(), 250))

	res, err := f.svc.CheckIn(context.Background(), dtos.CheckInRequest{Name: "  joão qualquer  ", Latitude: lat, Longitude: lng})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if res.Message != "Presença confirmada às 07:00!" {
		t.Errorf("Unexpected message %q", res.Message)
	}
	rec := res.Record
	if rec.Name != "joão qualquer" {
		t.Errorf("Expected raw trimmed name, got %q", rec.Name)
	}
	if rec.DateString != "07/01/2025" || rec.TimeString != "07:00" || rec.DayOfWeek != "Terça-feira" || rec.MonthKey != "2025-01" {
		t.Errorf("Unexpected frozen fields %+v", rec)
	}
	if rec.Status != "valid" || rec.AdminOverride || rec.IsSunday {
		t.Errorf("Unexpected flags %+v", rec)
	}
	if rec.DistanceFromCenter < 249.5 || rec.DistanceFromCenter > 250.5 {
		t.Errorf("Unexpected distance %v", rec.DistanceFromCenter)
	}
	if rec.Timestamp != tuesdayMorning(t).UnixMilli() {
		t.Errorf("Unexpected timestamp %d", rec.Timestamp)
	}

	stored, _ := f.repo.ListAll(context.Background())
	if len(stored) != 1 || stored[0].ID != rec.ID {
		t.Errorf("Expected record persisted, got %+v", stored)
	}
	if len(f.mirror.requests) != 1 || f.mirror.requests[0] != constants.MirrorEventCheckIn {
		t.Errorf("Expected one mirror request, got %v", f.mirror.requests)
	}
	if len(f.matrices.months) != 1 || f.matrices.months[0] != "2025-01" {
		t.Errorf("Expected January invalidated, got %v", f.matrices.months)
	}
	if got := testutil.ToFloat64(f.metrics.CheckInsTotal.WithLabelValues(outcomeAccepted, "")); got != 1 {
		t.Errorf("Expected accepted counter 1, got %v", got)
	}
}

func TestCheckIn_OutsideRadiusStoresNothing(t *testing.T) {
	f := newCheckInFixture(t, tuesdayMorning(t))
	lat, lng := coords(northOf(testPolicy(), 500))

	_, err := f.svc.CheckIn(context.Background(), dtos.CheckInRequest{Name: "Pedro", Latitude: lat, Longitude: lng})
	expectKind(t, err, KindOutsideRadius, "Você está fora do raio permitido (500m do ponto central). O limite é de 300m.")

	var ciErr *CheckInError
	errors.As(err, &ciErr)
	if ciErr.Details == nil || ciErr.Details.DistanceMeters < 499 {
		t.Errorf("Expected distance on rejection, got %+v", ciErr.Details)
	}

	n, _ := f.repo.Count(context.Background())
	if n != 0 {
		t.Errorf("Expected no records, got %d", n)
	}
	if len(f.mirror.requests) != 0 {
		t.Error("Rejected check-in must not request a mirror push")
	}
}

func TestCheckIn_EmptyName(t *testing.T) {
	f := newCheckInFixture(t, tuesdayMorning(t))

	_, err := f.svc.CheckIn(context.Background(), dtos.CheckInRequest{Name: "   "})
	expectKind(t, err, KindEmptyName, constants.MsgEmptyName)
}

func TestCheckIn_AdminBypassMatchesRoster(t *testing.T) {
	// Wednesday, outside the schedule: the bypass skips validation
	f := newCheckInFixture(t, time.Date(2025, 1, 8, 20, 0, 0, 0, saoPaulo(t)))

	res, err := f.svc.CheckIn(context.Background(), dtos.CheckInRequest{Name: "maria ROMOS2228"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if res.Message != "[ADMIN] Registro forçado para Maria Aparecida Dantas!" {
		t.Errorf("Unexpected message %q", res.Message)
	}
	rec := res.Record
	policy := testPolicy()
	if rec.Name != "Maria Aparecida Dantas" || !rec.AdminOverride || !res.AdminOverride {
		t.Errorf("Unexpected record %+v", rec)
	}
	if rec.Latitude != policy.CenterLat || rec.Longitude != policy.CenterLng || rec.DistanceFromCenter != 0 {
		t.Errorf("Expected center coordinates, got %+v", rec)
	}
	if rec.IsSunday {
		t.Error("Wednesday is not the exempt day")
	}
	if got := testutil.ToFloat64(f.metrics.CheckInsTotal.WithLabelValues(outcomeForced, "")); got != 1 {
		t.Errorf("Expected forced counter 1, got %v", got)
	}
}

func TestCheckIn_AdminBypassOnSundayFlagsExempt(t *testing.T) {
	f := newCheckInFixture(t, time.Date(2025, 1, 5, 9, 0, 0, 0, saoPaulo(t)))

	res, err := f.svc.CheckIn(context.Background(), dtos.CheckInRequest{Name: "pedro eliton romos2228"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Record.Name != "Pedro Eliton Peres" || !res.Record.IsSunday {
		t.Errorf("Unexpected record %+v", res.Record)
	}
}

func TestCheckIn_AdminBypassUnknownNameFallsBack(t *testing.T) {
	f := newCheckInFixture(t, tuesdayMorning(t))

	res, err := f.svc.CheckIn(context.Background(), dtos.CheckInRequest{Name: "Visitante Xyz romos2228"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Record.Name != "Visitante Xyz" {
		t.Errorf("Expected typed prefix, got %q", res.Record.Name)
	}
}

func TestCheckIn_AdminBypassWithoutName(t *testing.T) {
	f := newCheckInFixture(t, tuesdayMorning(t))

	_, err := f.svc.CheckIn(context.Background(), dtos.CheckInRequest{Name: "  romos2228"})
	expectKind(t, err, KindMissingNameBeforeCode, constants.MsgMissingNameBeforeCode)
}

func TestCheckIn_LocationErrors(t *testing.T) {
	f := newCheckInFixture(t, tuesdayMorning(t))

	cases := []struct {
		code    string
		kind    RejectionKind
		message string
	}{
		{"unsupported", KindLocationUnsupported, constants.MsgLocationUnsupported},
		{"permission_denied", KindLocationDenied, constants.MsgLocationDenied},
		{"timeout", KindLocationTimeout, constants.MsgLocationGeneric},
		{"unavailable", KindLocationUnavailable, constants.MsgLocationGeneric},
	}
	for _, c := range cases {
		_, err := f.svc.CheckIn(context.Background(), dtos.CheckInRequest{Name: "Pedro", LocationError: c.code})
		expectKind(t, err, c.kind, c.message)
	}
}

func TestCheckIn_MissingCoordinates(t *testing.T) {
	f := newCheckInFixture(t, tuesdayMorning(t))

	_, err := f.svc.CheckIn(context.Background(), dtos.CheckInRequest{Name: "Pedro"})
	expectKind(t, err, KindInvalidCoordinates, constants.MsgInvalidCoordinates)
}

func TestCheckIn_MirrorFailureDoesNotFailCheckIn(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPresenceRecordRepo(db)
	policy := testPolicy()
	clock := fixedClock(t, tuesdayMorning(t))
	reg := newTestMetrics()

	queue := &mockQueue{enqueueFunc: func(ctx context.Context, req *common.MirrorRequest) error {
		return errors.New("redis down")
	}}
	mirror := NewMirrorService(repo, repositories.NewMirrorSyncHistoryRepo(db), &mockSheets{enabled: true}, queue, reg, 1, 0)
	svc := NewCheckInService(repo, NewPresenceValidationService(policy, clock), NewRosterService(constants.DefaultRoster),
		clock, CheckInServiceConfig{BypassCode: "romos2228", CenterLat: policy.CenterLat, CenterLng: policy.CenterLng, ExemptDay: policy.ExemptDay},
		mirror, nil, reg)

	lat, lng := coords(policy.CenterLat, policy.CenterLng)
	res, err := svc.CheckIn(context.Background(), dtos.CheckInRequest{Name: "Pedro", Latitude: lat, Longitude: lng})
	if err != nil {
		t.Fatalf("Expected check-in to succeed, got %v", err)
	}
	if res.Mirror == nil || res.Mirror.Queued || res.Mirror.Error == "" {
		t.Errorf("Expected failed ticket, got %+v", res.Mirror)
	}
	if n, _ := repo.Count(context.Background()); n != 1 {
		t.Errorf("Expected record kept, got %d", n)
	}
	if got := testutil.ToFloat64(reg.MirrorPushesTotal.WithLabelValues("enqueue_failed")); got != 1 {
		t.Errorf("Expected enqueue_failed counter 1, got %v", got)
	}
}
