package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionNodes(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []Node
		scenario Scenario
		targets  []string
		want     []bool
	}{
		{
			name:     "region matches case-insensitively",
			nodes:    nodesIn("US", "us", "FR"),
			scenario: ScenarioRegion,
			targets:  []string{"us"},
			want:     []bool{true, true, false},
		},
		{
			name:     "region with several targets",
			nodes:    nodesIn("US", "DE", "FR", ""),
			scenario: ScenarioRegion,
			targets:  []string{"fr", " De ", ""},
			want:     []bool{false, true, true, false},
		},
		{
			name:     "cloud matches provider",
			nodes:    []Node{{Provider: "AWS"}, {Provider: "gcp"}, {}},
			scenario: ScenarioCloud,
			targets:  []string{"aws"},
			want:     []bool{true, false, false},
		},
		{
			name:     "51 takes nothing offline",
			nodes:    nodesIn("US", "US"),
			scenario: ScenarioMajority,
			targets:  []string{"us"},
			want:     []bool{false, false},
		},
		{
			name:     "overview ignores targets",
			nodes:    nodesIn("US"),
			scenario: ScenarioOverview,
			targets:  []string{"us"},
			want:     []bool{false},
		},
		{
			name:     "unknown scenario ignores targets",
			nodes:    nodesIn("US"),
			scenario: Scenario("flood"),
			targets:  []string{"us"},
			want:     []bool{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := partitionNodes(tt.nodes, tt.scenario, tt.targets)
			assert.Equal(t, tt.want, p.Failed)

			count := 0
			for _, f := range tt.want {
				if f {
					count++
				}
			}
			assert.Equal(t, count, p.FailedCount)
		})
	}
}

func TestComputeImpact_StakeGroupedByCountry(t *testing.T) {
	nodes := []Node{
		{Country: "US", Stake: stake(50)},
		{Country: "us", Stake: stake(50)},
		{Country: "FR", Stake: stake(100)},
		{Country: "DE"},
	}
	p := partitionNodes(nodes, ScenarioOverview, nil)
	imp := computeImpact(nodes, p, ScenarioOverview)

	assert.Equal(t, map[string]float64{"us": 100, "fr": 100, "de": 0}, imp.Weights)
	assert.Equal(t, 3, imp.RemainingCountries)
	assert.InDelta(t, 0, imp.Gini, 1e-9)
	assert.Equal(t, 1, imp.Nakamoto)
	assert.Equal(t, 0.0, imp.Loss)
}
