// Package engine evaluates the decentralization of a node network and
// simulates targeted failures by static partitioning: nodes matching a
// scenario's targets are taken offline and the remaining network is measured.
//
// An Engine holds read-only policy and is safe for concurrent use.
package engine

import (
	"fmt"
	"math"

	"github.com/stakestar/nodelyzer/countries"
)

type Engine struct {
	thresholds Thresholds
	countries  *countries.List
}

func New(thresholds Thresholds, list *countries.List) *Engine {
	return &Engine{
		thresholds: thresholds,
		countries:  list,
	}
}

// ComputeFailureImpact partitions the nodes under the request's scenario and
// measures the remaining network.
func (e *Engine) ComputeFailureImpact(req Request) (*Result, error) {
	res, _, _, err := e.run(req)
	return res, err
}

// ComputeOptimization is ComputeFailureImpact plus placement suggestions.
func (e *Engine) ComputeOptimization(req Request) (*Result, error) {
	res, p, imp, err := e.run(req)
	if err != nil {
		return nil, err
	}
	res.Suggestions = e.suggest(req, p, imp)
	return res, nil
}

func (e *Engine) run(req Request) (*Result, partition, impact, error) {
	if err := validate(req); err != nil {
		return nil, partition{}, impact{}, err
	}

	p := partitionNodes(req.Nodes, req.Scenario, req.Targets)
	imp := computeImpact(req.Nodes, p, req.Scenario)

	return &Result{
		TotalNodes:         imp.TotalNodes,
		FailedNodes:        imp.FailedNodes,
		ConnectivityLoss:   fmt.Sprintf("%.2f%%", imp.Loss),
		Scenario:           req.Scenario.Label(),
		Gini:               imp.Gini,
		Nakamoto:           imp.Nakamoto,
		RemainingCountries: imp.RemainingCountries,
	}, p, imp, nil
}

func validate(req Request) error {
	if len(req.Nodes) == 0 {
		return ErrNoNodes
	}
	for i, n := range req.Nodes {
		if n.Stake != nil && !ValidStake(*n.Stake) {
			return fmt.Errorf("node %d: %w", i, ErrInvalidStake)
		}
	}
	if req.Scenario == ScenarioCloud && !hasProvider(req.Nodes) {
		return &MissingFieldError{Field: "provider", Scenario: req.Scenario}
	}
	return nil
}

// ValidStake reports whether v is usable as a node stake.
func ValidStake(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
