package engine

import (
	"github.com/stakestar/nodelyzer/metrics"
)

// impact describes the network left over after a partition.
type impact struct {
	TotalNodes     int
	FailedNodes    int
	RemainingNodes int
	Loss           float64

	// Weights holds the per-country weight of the remaining nodes: summed
	// stake when any node carries stake, node counts otherwise.
	Weights         map[string]float64
	RemainingWeight float64

	Gini               float64
	Nakamoto           int
	RemainingCountries int
}

func computeImpact(nodes []Node, p partition, scenario Scenario) impact {
	imp := impact{
		TotalNodes:     len(nodes),
		FailedNodes:    p.FailedCount,
		RemainingNodes: len(nodes) - p.FailedCount,
		Weights:        make(map[string]float64),
	}
	staked := hasStake(nodes)

	switch {
	case scenario == ScenarioCloud || !staked:
		imp.Loss = countLoss(p.FailedCount, len(nodes))
	default:
		imp.Loss = stakeLoss(nodes, p)
	}

	for i, n := range nodes {
		if p.Failed[i] {
			continue
		}
		country := n.countryKey()
		if country == "" {
			continue
		}
		w := 1.0
		if staked {
			w = 0
			if n.Stake != nil {
				w = *n.Stake
			}
		}
		imp.Weights[country] += w
		imp.RemainingWeight += w
	}

	values := weightValues(imp.Weights)
	imp.Gini = metrics.Gini(values)
	imp.Nakamoto = metrics.Nakamoto(values)
	imp.RemainingCountries = len(imp.Weights)
	return imp
}

func countLoss(failed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(failed) / float64(total) * 100
}

func stakeLoss(nodes []Node, p partition) float64 {
	var total, failed float64
	for i, n := range nodes {
		if n.Stake == nil {
			continue
		}
		total += *n.Stake
		if p.Failed[i] {
			failed += *n.Stake
		}
	}
	if total == 0 {
		return 0
	}
	return failed / total * 100
}

func weightValues(weights map[string]float64) []float64 {
	values := make([]float64, 0, len(weights))
	for _, w := range weights {
		values = append(values, w)
	}
	return values
}
