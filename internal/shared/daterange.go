package shared

import (
	"fmt"
	"net/url"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is an inclusive date window applied to ledger and report queries.
// A zero Start or End leaves that side unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange reads start_date/end_date query parameters.
func ParseDateRange(q url.Values) (DateRange, error) {
	var dr DateRange
	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: start_date %q", ErrInvalidFilter, raw)
		}
		dr.Start = t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: end_date %q", ErrInvalidFilter, raw)
		}
		dr.End = t
	}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Validate rejects ranges whose end precedes their start. The builder does
// not attempt to repair the range.
func (dr DateRange) Validate() error {
	if !dr.Start.IsZero() && !dr.End.IsZero() && dr.End.Before(dr.Start) {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidFilter,
			dr.End.Format(dateLayout), dr.Start.Format(dateLayout))
	}
	return nil
}

// Contains reports whether t falls inside the inclusive window.
func (dr DateRange) Contains(t time.Time) bool {
	if !dr.Start.IsZero() && t.Before(truncateDay(dr.Start)) {
		return false
	}
	if !dr.End.IsZero() && t.After(endOfDay(dr.End)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
