package overnight

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"crewmatch/internal/domain"
)

// DefaultMergeTolerance is the largest gap between two rests that still counts as one stay.
const DefaultMergeTolerance = 3 * time.Hour

// Merger coalesces adjacent or overlapping stays of one crew member.
type Merger struct {
	tolerance time.Duration
	logger    *slog.Logger
}

// NewMerger returns a Merger. A negative tolerance selects DefaultMergeTolerance.
func NewMerger(tolerance time.Duration, logger *slog.Logger) *Merger {
	if tolerance < 0 {
		tolerance = DefaultMergeTolerance
	}
	return &Merger{tolerance: tolerance, logger: logger}
}

// Merge returns the minimal set of non-overlapping stays covering the input.
// Two stays join when they overlap or the gap between them is within tolerance.
// The merged stay keeps the city of its earliest segment; on equal check-in the
// longer segment comes first. The input slice and its stays are not modified.
func (m *Merger) Merge(stays []*domain.Stay) []*domain.Stay {
	sorted := make([]domain.Stay, 0, len(stays))
	for _, s := range stays {
		if s != nil {
			sorted = append(sorted, *s)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	slices.SortFunc(sorted, func(a, b domain.Stay) int {
		if c := a.CheckIn.Compare(b.CheckIn); c != 0 {
			return c
		}
		if c := b.CheckOut.Compare(a.CheckOut); c != 0 {
			return c
		}
		return cmp.Compare(a.City, b.City)
	})

	var out []*domain.Stay
	cur := sorted[0]
	cur.ID = ""
	for _, next := range sorted[1:] {
		if next.CheckIn.Sub(cur.CheckOut) <= m.tolerance {
			if next.City != cur.City {
				m.logger.Warn("merging stays with different cities, keeping first",
					"owner", cur.Owner, "kept", cur.City, "dropped", next.City, "check_in", next.CheckIn)
			}
			if next.CheckOut.After(cur.CheckOut) {
				cur.CheckOut = next.CheckOut
			}
			continue
		}
		out = append(out, stayPtr(cur))
		cur = next
		cur.ID = ""
	}
	out = append(out, stayPtr(cur))
	return out
}

func stayPtr(s domain.Stay) *domain.Stay {
	return &s
}
