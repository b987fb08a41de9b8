package airports

import (
	"testing"

	"crewmatch/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r := Default()
	require.Greater(t, r.Len(), 50)

	for _, code := range []string{"GRU", "CGH", "GIG", "MIA", "LIS"} {
		assert.True(t, r.IsRecognized(code), code)
	}
	assert.False(t, r.IsRecognized("XXX"))
	assert.False(t, r.IsRecognized("gru"), "lookup expects normalized codes")

	a, ok := r.Lookup("GRU")
	require.True(t, ok)
	assert.Equal(t, "São Paulo", a.City)
	assert.Equal(t, "BR", a.Country)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    []string
		wantErr bool
	}{
		{
			name: "normalizes codes",
			yaml: "airports:\n  - {code: ' gru ', city: X}\n  - {code: cgh}\n",
			want: []string{"GRU", "CGH"},
		},
		{
			name:    "rejects bad code",
			yaml:    "airports:\n  - {code: GRUX}\n",
			wantErr: true,
		},
		{
			name:    "rejects malformed yaml",
			yaml:    "airports: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse([]byte(tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), r.Len())
			for _, code := range tt.want {
				assert.True(t, r.IsRecognized(code), code)
			}
		})
	}
}

func TestNew(t *testing.T) {
	r := New(domain.Airport{Code: "gru"}, domain.Airport{Code: "CGH"})
	assert.True(t, r.IsRecognized("GRU"))
	assert.True(t, r.IsRecognized("CGH"))
	assert.False(t, r.IsRecognized("GIG"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "GRU", Normalize("  gru\t"))
	assert.Equal(t, "", Normalize("   "))
}
