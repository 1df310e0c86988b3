package common

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

var dayNames = [...]string{"Domingo", "Segunda-feira", "Terça-feira", "Quarta-feira", "Quinta-feira", "Sexta-feira", "Sábado"}

// Clock returns the current instant. Services take one so tests can pin "now".
type Clock func() time.Time

// TrainingClock resolves instants into the training timezone.
type TrainingClock struct {
	loc *time.Location
	now Clock
}

func NewTrainingClock(loc *time.Location, now Clock) *TrainingClock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &TrainingClock{loc: loc, now: now}
}

// Now returns the current instant in the training timezone.
func (c *TrainingClock) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *TrainingClock) Location() *time.Location {
	return c.loc
}

// In converts any instant to the training timezone.
func (c *TrainingClock) In(t time.Time) time.Time {
	return t.In(c.loc)
}

// MonthKey formats t as YYYY-MM. Callers pass a time already in the training timezone.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// ParseMonthKey parses a YYYY-MM key into its year and month.
func ParseMonthKey(key string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(key))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t.Year(), t.Month(), nil
}

// FormatDate renders dd/mm/yyyy (pt-BR short date).
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatTime renders HH:MM in 24h.
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

func DayName(d time.Weekday) string {
	return dayNames[d]
}

// ShortDayName is the first segment of the day name, lower-cased ("terça", "domingo").
func ShortDayName(d time.Weekday) string {
	name := dayNames[d]
	if i := strings.Index(name, "-"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// TrainingDates lists every date in the month whose weekday is allowed, ascending.
func TrainingDates(monthKey string, allowed []time.Weekday, loc *time.Location) ([]time.Time, error) {
	year, month, err := ParseMonthKey(monthKey)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	isAllowed := map[time.Weekday]bool{}
	for _, d := range allowed {
		isAllowed[d] = true
	}

	var dates []time.Time
	for d := time.Date(year, month, 1, 0, 0, 0, 0, loc); d.Month() == month; d = d.AddDate(0, 0, 1) {
		if isAllowed[d.Weekday()] {
			dates = append(dates, d)
		}
	}
	return dates, nil
}
