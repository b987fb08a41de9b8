package overnight

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"crewmatch/internal/airports"
	"crewmatch/internal/domain"
)

// timestampLayouts are tried in order. Zoned layouts keep the wall clock and drop the offset.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
}

// ParseTimestamp parses an extracted timestamp as a naive local time.
// The result carries the wall-clock fields in UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), true
	}
	return time.Time{}, false
}

// Normalizer validates raw events and orders them in time.
type Normalizer struct {
	airports domain.AirportValidator
	logger   *slog.Logger
}

// NewNormalizer returns a Normalizer that accepts locations recognized by v.
func NewNormalizer(v domain.AirportValidator, logger *slog.Logger) *Normalizer {
	return &Normalizer{airports: v, logger: logger}
}

// Normalize drops invalid events and returns the rest sorted by timestamp.
// Ties keep input order. Fewer than two valid events yields an empty result.
// dropped counts the events rejected by validation.
func (n *Normalizer) Normalize(raw []domain.RawEvent) (events []domain.Event, dropped int) {
	events = make([]domain.Event, 0, len(raw))
	for i, r := range raw {
		ev, reason := n.validate(r)
		if reason != "" {
			dropped++
			n.logger.Debug("dropping event", "index", i, "reason", reason, "location", r.Location, "timestamp", r.Timestamp)
			continue
		}
		events = append(events, ev)
	}

	slices.SortStableFunc(events, func(a, b domain.Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	if len(events) < 2 {
		return []domain.Event{}, dropped
	}
	return events, dropped
}

func (n *Normalizer) validate(r domain.RawEvent) (domain.Event, string) {
	if strings.TrimSpace(r.Type) == "" || strings.TrimSpace(r.Timestamp) == "" || strings.TrimSpace(r.Location) == "" {
		return domain.Event{}, "missing field"
	}
	typ, ok := domain.ParseEventType(r.Type)
	if !ok {
		return domain.Event{}, "unknown type"
	}
	ts, ok := ParseTimestamp(r.Timestamp)
	if !ok {
		return domain.Event{}, "unparsable timestamp"
	}
	loc := airports.Normalize(r.Location)
	if !n.airports.IsRecognized(loc) {
		return domain.Event{}, "unrecognized location"
	}
	return domain.Event{
		Type:      typ,
		Timestamp: ts,
		Location:  loc,
		Label:     strings.TrimSpace(r.Label),
	}, ""
}
