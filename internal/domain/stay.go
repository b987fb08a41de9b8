package domain

import (
	"context"
	"time"
)

// DateLayout is the wire format for stay dates.
const DateLayout = "2006-01-02"

// Stay is one crew member's overnight rest in a single city.
// swagger:model Stay
type Stay struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	City      string    `json:"city"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStay returns a new Stay. ID and CreatedAt are set by the repository on create.
func NewStay(owner, city string, checkIn, checkOut time.Time) *Stay {
	return &Stay{
		Owner:    owner,
		City:     city,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}
}

// Duration returns the length of the rest period.
func (s *Stay) Duration() time.Duration {
	return s.CheckOut.Sub(s.CheckIn)
}

// Date returns the calendar date the stay is grouped under (the check-in date).
func (s *Stay) Date() time.Time {
	return DateOf(s.CheckIn)
}

// DateOf truncates t to midnight of its wall-clock date, in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// StayFilter selects stays. Empty fields are not applied.
// From and To bound CheckIn as [From, To).
type StayFilter struct {
	Owner  string
	City   string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// ForDate returns a filter for all stays checking in on date in city.
func ForDate(city string, date time.Time) StayFilter {
	day := DateOf(date)
	return StayFilter{City: city, From: day, To: day.AddDate(0, 0, 1)}
}

// PaginationParams is a 1-based page request.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset is the number of rows preceding the page.
func (p PaginationParams) Offset() int {
	return max(p.Page-1, 0) * p.PageSize
}

// Page applies p to f.
func (f StayFilter) Page(p PaginationParams) StayFilter {
	f.Limit, f.Offset = p.PageSize, p.Offset()
	return f
}

// StayRepository defines durable storage for accepted stays.
type StayRepository interface {
	Create(ctx context.Context, stay *Stay) error
	List(ctx context.Context, filter StayFilter) ([]*Stay, error)
	Count(ctx context.Context, filter StayFilter) (int, error)
}

// StayOutcome is what happened after one stay was accepted.
type StayOutcome struct {
	Stay          *Stay          `json:"stay"`
	Match         *MatchGroup    `json:"match,omitempty"`
	Notifications DispatchReport `json:"notifications"`
}

// RosterResult summarises one roster processing run.
// NoStays is the normal "insufficient data" outcome; Partial means some deliveries failed.
type RosterResult struct {
	RunID          string         `json:"run_id"`
	EventsReceived int            `json:"events_received"`
	EventsAccepted int            `json:"events_accepted"`
	Stays          []*Stay        `json:"stays"`
	Matches        []MatchGroup   `json:"matches"`
	Notifications  DispatchReport `json:"notifications"`
	NoStays        bool           `json:"no_stays"`
	Partial        bool           `json:"partial"`
}

// StayService defines roster processing and stay recording.
type StayService interface {
	ProcessDocument(ctx context.Context, owner, document string) (*RosterResult, error)
	ProcessEvents(ctx context.Context, owner string, events []RawEvent) (*RosterResult, error)
	RecordStay(ctx context.Context, stay *Stay) (*StayOutcome, error)
	ListStays(ctx context.Context, owner string, params PaginationParams) ([]*Stay, int, error)
}
