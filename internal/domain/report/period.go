package report

import (
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultMonths is the trailing span used when no explicit range is requested
	DefaultMonths = 3
	// DefaultMaxMonths bounds the number of buckets of one report
	DefaultMaxMonths = 120
)

var (
	ErrInvalidPeriod = shared.NewDomainError("VALIDATION_ERROR", "start_date and end_date must both be set and start_date must not be after end_date")
	ErrInvalidMonths = shared.NewDomainError("VALIDATION_ERROR", "months must be a positive integer")
	ErrPeriodTooLong = shared.NewDomainError("VALIDATION_ERROR", "the requested period spans too many months")
)

var upper = cases.Upper(language.Und)

// Bucket is one calendar month [Start, End).
type Bucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Key returns the bucket month as YYYY-MM
func (b Bucket) Key() string {
	return b.Start.Format("2006-01")
}

// Label returns the display label, e.g. "JAN 26"
func (b Bucket) Label() string {
	return upper.String(b.Start.Format("Jan 06"))
}

// LastDay returns the last calendar day inside the bucket
func (b Bucket) LastDay() time.Time {
	return b.End.AddDate(0, 0, -1)
}

// MonthFloor truncates t to midnight of the first day of its month, keeping the location.
func MonthFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// AddMonths shifts t by n calendar months. When the target month is shorter
// than t's day, the day is clamped to the target month's last day.
func AddMonths(t time.Time, n int) time.Time {
	total := t.Year()*12 + int(t.Month()) - 1 + n
	year, month := total/12, time.Month(total%12+1)

	day := t.Day()
	if last := daysIn(year, month, t.Location()); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// MonthBuckets returns the contiguous months covering start..end, both inclusive.
func MonthBuckets(start, end time.Time) ([]Bucket, error) {
	if end.Before(start) {
		return nil, ErrInvalidPeriod
	}

	last := MonthFloor(end)
	buckets := make([]Bucket, 0, monthsBetween(start, end)+1)
	for cur := MonthFloor(start); !cur.After(last); cur = AddMonths(cur, 1) {
		buckets = append(buckets, Bucket{Start: cur, End: AddMonths(cur, 1)})
	}
	return buckets, nil
}

// TrailingMonths returns the last n months ending with the month of now.
func TrailingMonths(now time.Time, n int) ([]Bucket, error) {
	if n < 1 {
		return nil, ErrInvalidMonths
	}
	end := MonthFloor(now)
	return MonthBuckets(AddMonths(end, -(n - 1)), end)
}

func monthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

// PeriodRequest is the caller-supplied span of a report.
type PeriodRequest struct {
	StartDate *time.Time
	EndDate   *time.Time
	Months    int
	// MaxMonths caps the bucket count when positive
	MaxMonths int
}

// HasRange reports whether an explicit date range was supplied
func (p PeriodRequest) HasRange() bool {
	return p.StartDate != nil && p.EndDate != nil
}

// Resolve turns the request into month buckets. Explicit dates win; with no
// dates the trailing Months (DefaultMonths when zero) ending at now are used.
// Spans longer than MaxMonths fail before any bucket is built.
func (p PeriodRequest) Resolve(now time.Time) ([]Bucket, error) {
	switch {
	case p.HasRange():
		if p.exceeds(monthsBetween(*p.StartDate, *p.EndDate) + 1) {
			return nil, ErrPeriodTooLong
		}
		return MonthBuckets(*p.StartDate, *p.EndDate)
	case p.StartDate != nil || p.EndDate != nil:
		return nil, ErrInvalidPeriod
	}

	months := p.Months
	if months == 0 {
		months = DefaultMonths
	}
	if p.exceeds(months) {
		return nil, ErrPeriodTooLong
	}
	return TrailingMonths(now, months)
}

func (p PeriodRequest) exceeds(months int) bool {
	return p.MaxMonths > 0 && months > p.MaxMonths
}

// Period is the span actually covered by a report
type Period struct {
	Start time.Time
	End   time.Time
}

// Bounds returns the requested dates, or the span covered by buckets when
// the request had no explicit range.
func (p PeriodRequest) Bounds(buckets []Bucket) Period {
	if p.HasRange() {
		return Period{Start: *p.StartDate, End: *p.EndDate}
	}
	if len(buckets) == 0 {
		return Period{}
	}
	return Period{Start: buckets[0].Start, End: buckets[len(buckets)-1].LastDay()}
}
