package domain

// Airport is a recognized location code.
type Airport struct {
	Code    string `yaml:"code" json:"code"`
	City    string `yaml:"city" json:"city"`
	Country string `yaml:"country" json:"country"`
}

// AirportValidator reports whether a normalized code is recognized.
type AirportValidator interface {
	IsRecognized(code string) bool
}

// AirportDirectory resolves codes to airport details.
type AirportDirectory interface {
	AirportValidator
	Lookup(code string) (Airport, bool)
}
