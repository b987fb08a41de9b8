package services

import (
	"fmt"
	"strings"
	"time"

	"crewmatch/internal/domain"
)

// cityLabel renders "GRU (São Paulo)" when the directory knows the code.
func cityLabel(code string, dir domain.AirportDirectory) string {
	if dir != nil {
		if a, ok := dir.Lookup(code); ok && a.City != "" {
			return fmt.Sprintf("%s (%s)", code, a.City)
		}
	}
	return code
}

// matchMessage is the notification a recipient gets when a new crew member joins their overnight.
func matchMessage(group domain.MatchGroup, recipient string, dir domain.AirportDirectory) domain.Message {
	others := group.Others(recipient)
	return domain.Message{
		Subject: fmt.Sprintf("Crew match in %s on %s", group.City, group.DateString()),
		Lines: []string{
			"✈️ New overnight match!",
			"📍 " + cityLabel(group.City, dir),
			"📅 " + group.DateString(),
			"👥 You + " + strings.Join(others, ", "),
		},
	}
}

// summaryEntry is one city line of a daily digest.
type summaryEntry struct {
	City  string
	Count int
}

func summaryMessage(date time.Time, entries []summaryEntry, dir domain.AirportDirectory) domain.Message {
	day := date.Format(domain.DateLayout)
	lines := []string{fmt.Sprintf("📋 Overnight summary for %s", day), ""}
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("📍 %s – %d crew", cityLabel(e.City, dir), e.Count))
	}
	lines = append(lines, "", "✈️ Crew Match")
	return domain.Message{
		Subject: "Overnight summary for " + day,
		Lines:   lines,
	}
}
