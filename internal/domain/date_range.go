package domain

import (
	"errors"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDateRange = errors.New("event end date is before start date")

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and keeps the day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateDay(t), nil
}

func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: TruncateDay(start), End: TruncateDay(end)}
	if r.End.Before(r.Start) {
		return DateRange{}, ErrInvalidDateRange
	}
	return r, nil
}

// Overlaps reports whether r intersects existing: r starts inside existing,
// r ends inside existing, or r covers existing entirely.
func (r DateRange) Overlaps(existing DateRange) bool {
	startInside := !r.Start.Before(existing.Start) && !r.Start.After(existing.End)
	endInside := !r.End.Before(existing.Start) && !r.End.After(existing.End)
	covers := !r.Start.After(existing.Start) && !r.End.Before(existing.End)
	return startInside || endInside || covers
}

func (r DateRange) OverlapsAny(existing []DateRange) bool {
	for _, e := range existing {
		if r.Overlaps(e) {
			return true
		}
	}
	return false
}

// Days lists every day of the range, inclusive, as YYYY-MM-DD.
func (r DateRange) Days() []string {
	if r.End.Before(r.Start) {
		return nil
	}
	out := make([]string, 0, int(r.End.Sub(r.Start).Hours()/24)+1)
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DateLayout))
	}
	return out
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + " to " + r.End.Format(DateLayout)
}
