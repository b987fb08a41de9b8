// Package airports provides the static reference of recognized location codes.
package airports

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"crewmatch/internal/domain"
)

//go:embed airports.yaml
var defaultTable []byte

type table struct {
	Airports []domain.Airport `yaml:"airports"`
}

// Registry is an immutable, read-only airport lookup. Safe for concurrent use.
type Registry struct {
	byCode map[string]domain.Airport
}

// Default returns a Registry loaded from the embedded reference table.
// It panics if the embedded table is malformed, which is a build defect.
func Default() *Registry {
	r, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("airports: embedded table: %v", err))
	}
	return r
}

// Parse builds a Registry from a YAML document of the form `airports: [{code, city, country}]`.
func Parse(data []byte) (*Registry, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse airport table: %w", err)
	}
	r := &Registry{byCode: make(map[string]domain.Airport, len(t.Airports))}
	for i, a := range t.Airports {
		code := Normalize(a.Code)
		if len(code) != 3 {
			return nil, fmt.Errorf("airport %d: invalid code %q", i, a.Code)
		}
		a.Code = code
		r.byCode[code] = a
	}
	return r, nil
}

// New returns a Registry recognizing exactly the given airports.
func New(list ...domain.Airport) *Registry {
	r := &Registry{byCode: make(map[string]domain.Airport, len(list))}
	for _, a := range list {
		a.Code = Normalize(a.Code)
		r.byCode[a.Code] = a
	}
	return r
}

// Normalize trims and uppercases a location code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsRecognized reports whether code, already normalized, is in the table.
func (r *Registry) IsRecognized(code string) bool {
	_, ok := r.byCode[code]
	return ok
}

// Lookup returns the airport for a normalized code.
func (r *Registry) Lookup(code string) (domain.Airport, bool) {
	a, ok := r.byCode[code]
	return a, ok
}

// Len returns the number of recognized codes.
func (r *Registry) Len() int {
	return len(r.byCode)
}
