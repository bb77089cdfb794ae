package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardRankingsNormalize(t *testing.T) {
	rankings := StandardRankings{
		{Standard: "FAS 4", Probability: 2.0},
		{Standard: "FAS 20", Probability: 1.0},
		{Standard: "FAS 32", Probability: 1.0},
	}

	rankings.Normalize()

	assert.InDelta(t, 0.5, rankings[0].Probability, 1e-9)
	assert.InDelta(t, 0.25, rankings[1].Probability, 1e-9)
	assert.InDelta(t, 0.25, rankings[2].Probability, 1e-9)
	assert.NoError(t, rankings.Validate())
}

func TestStandardRankingsNormalizeAllZero(t *testing.T) {
	rankings := StandardRankings{
		{Standard: "FAS 4"},
		{Standard: "FAS 10"},
	}

	rankings.Normalize()

	assert.InDelta(t, 0.5, rankings[0].Probability, 1e-9)
	assert.InDelta(t, 0.5, rankings[1].Probability, 1e-9)
}

func TestStandardRankingsSort(t *testing.T) {
	rankings := StandardRankings{
		{Standard: "FAS 32", Probability: 0.2},
		{Standard: "FAS 4", Probability: 0.5},
		{Standard: "FAS 20", Probability: 0.2},
		{Standard: "FAS 10", Probability: 0.1},
	}

	rankings.Sort()

	assert.Equal(t, "FAS 4", rankings[0].Standard)
	// Ties break on the standard code.
	assert.Equal(t, "FAS 20", rankings[1].Standard)
	assert.Equal(t, "FAS 32", rankings[2].Standard)
	assert.Equal(t, "FAS 10", rankings[3].Standard)
}

func TestStandardRankingsFormatPercentages(t *testing.T) {
	rankings := StandardRankings{
		{Standard: "FAS 4", Probability: 0.625},
		{Standard: "FAS 20", Probability: 0.375},
	}

	rankings.FormatPercentages()

	assert.Equal(t, "62.5%", rankings[0].ProbabilityPercentage)
	assert.Equal(t, "37.5%", rankings[1].ProbabilityPercentage)
}

func TestStandardRankingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		rankings StandardRankings
		wantErr  string
	}{
		{
			name:     "empty is valid",
			rankings: StandardRankings{},
		},
		{
			name: "sums to one",
			rankings: StandardRankings{
				{Standard: "FAS 4", Probability: 0.7},
				{Standard: "FAS 20", Probability: 0.3},
			},
		},
		{
			name: "missing code",
			rankings: StandardRankings{
				{Probability: 1.0},
			},
			wantErr: "standard code is required",
		},
		{
			name: "duplicate standard",
			rankings: StandardRankings{
				{Standard: "FAS 4", Probability: 0.5},
				{Standard: "FAS 4", Probability: 0.5},
			},
			wantErr: "duplicate standard",
		},
		{
			name: "does not sum to one",
			rankings: StandardRankings{
				{Standard: "FAS 4", Probability: 0.5},
				{Standard: "FAS 20", Probability: 0.2},
			},
			wantErr: "sum to 1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rankings.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStandardRankingsFindAndTop(t *testing.T) {
	rankings := StandardRankings{
		{Standard: "FAS 10", Probability: 0.3},
		{Standard: "FAS 4", Probability: 0.7},
	}

	assert.True(t, rankings.Contains("FAS 4"))
	assert.False(t, rankings.Contains("FAS 7"))

	top := rankings.Top()
	require.NotNil(t, top)
	assert.Equal(t, "FAS 4", top.Standard)
}
