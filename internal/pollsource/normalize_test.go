package pollsource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	header := []string{"Date", "Pollster", "Sample", "Smith", "Jones"}
	rows := [][]string{
		{"10/23/23", "Acme Research", "1,500 LV", "52%", "44%"},
		{"10/25/23", "Polling Co", "980", "49.5", ""},
	}

	result, err := Normalize(header, rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"Smith", "Jones"}, result.Candidates)
	require.Len(t, result.Observations, 4)

	first := result.Observations[0]
	assert.Equal(t, time.Date(2023, 10, 23, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "Smith", first.Candidate)
	assert.Equal(t, "Acme Research", first.Pollster)
	assert.Equal(t, 1500, first.Sample)
	assert.InDelta(t, 0.52, first.Value, 1e-9)
	assert.False(t, first.Missing)

	// Empty cell stays a missing observation; the candidate remains known.
	last := result.Observations[3]
	assert.Equal(t, "Jones", last.Candidate)
	assert.True(t, last.Missing)
	assert.Equal(t, 980, last.Sample)
}

func TestNormalizeErrors(t *testing.T) {
	t.Run("missing date column", func(t *testing.T) {
		_, err := Normalize([]string{"Pollster", "Smith"}, nil)
		assert.Error(t, err)
	})

	t.Run("no candidate columns", func(t *testing.T) {
		_, err := Normalize([]string{"Date", "Pollster", "Sample"}, nil)
		assert.Error(t, err)
	})

	t.Run("malformed date", func(t *testing.T) {
		header := []string{"Date", "Smith"}
		_, err := Normalize(header, [][]string{{"2023-10-23", "52"}})
		assert.Error(t, err)
	})
}

func TestParseSampleSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1,500 LV", 1500},
		{"980", 980},
		{"approx. 2000 adults", 2000},
		{"", 0},
		{"n/a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSampleSize(tt.input))
		})
	}
}

func TestParseShare(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"percent sign", "52%", 0.52, true},
		{"decimal", "49.5", 0.495, true},
		{"whitespace", " 44 ", 0.44, true},
		{"empty", "", 0, false},
		{"dashes only", "--", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok, err := parseShare(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, value, 1e-9)
			}
		})
	}
}
