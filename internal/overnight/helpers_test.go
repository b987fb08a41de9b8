package overnight

import (
	"io"
	"log/slog"
	"time"

	"crewmatch/internal/airports"
	"crewmatch/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAirports() *airports.Registry {
	return airports.New(
		domain.Airport{Code: "GRU"},
		domain.Airport{Code: "CGH"},
		domain.Airport{Code: "GIG"},
		domain.Airport{Code: "SSA"},
		domain.Airport{Code: "REC"},
	)
}

func ts(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func ev(typ domain.EventType, at, loc string) domain.Event {
	return domain.Event{Type: typ, Timestamp: ts(at), Location: loc}
}

func stay(city, in, out string) *domain.Stay {
	return domain.NewStay("alice", city, ts(in), ts(out))
}
