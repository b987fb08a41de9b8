package overnight

import (
	"log/slog"
	"time"

	"crewmatch/internal/airports"
	"crewmatch/internal/domain"
)

// DefaultThreshold is the minimum rest that counts as an overnight.
// Historical rosters used 6h, 8h and 12h; 12h is the canonical value pending product
// confirmation. Override through OVERNIGHT_THRESHOLD_HOURS.
const DefaultThreshold = 12 * time.Hour

// Calculator derives candidate stays from an ordered event sequence.
type Calculator struct {
	threshold time.Duration
	logger    *slog.Logger
}

// NewCalculator returns a Calculator. A non-positive threshold selects DefaultThreshold.
func NewCalculator(threshold time.Duration, logger *slog.Logger) *Calculator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Calculator{threshold: threshold, logger: logger}
}

// Threshold returns the configured minimum rest.
func (c *Calculator) Threshold() time.Duration {
	return c.threshold
}

// Calculate scans consecutive (End, Start) pairs and emits a stay for each rest of at
// least the threshold. The rest city is the location of the Start event. Rests at
// homeBase are skipped; an empty homeBase disables that rule.
func (c *Calculator) Calculate(owner, homeBase string, events []domain.Event) []*domain.Stay {
	if len(events) < 2 {
		return nil
	}
	homeBase = airports.Normalize(homeBase)

	var stays []*domain.Stay
	for i := 0; i < len(events)-1; i++ {
		cur, next := events[i], events[i+1]
		if cur.Type != domain.EventEnd || next.Type != domain.EventStart {
			continue
		}
		rest := next.Timestamp.Sub(cur.Timestamp)
		if rest < 0 {
			c.logger.Warn("skipping out-of-order event pair", "owner", owner, "end", cur.Timestamp, "start", next.Timestamp)
			continue
		}
		if rest < c.threshold {
			continue
		}
		if homeBase != "" && next.Location == homeBase {
			continue
		}
		stays = append(stays, domain.NewStay(owner, next.Location, cur.Timestamp, next.Timestamp))
	}
	return stays
}
