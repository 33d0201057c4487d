package engine

import "strings"

// partition marks which nodes are offline under a scenario. Failed is aligned
// with the input node slice.
type partition struct {
	Failed      []bool
	FailedCount int
}

func partitionNodes(nodes []Node, scenario Scenario, targets []string) partition {
	p := partition{Failed: make([]bool, len(nodes))}

	var key func(Node) string
	switch scenario {
	case ScenarioRegion:
		key = Node.countryKey
	case ScenarioCloud:
		key = Node.providerKey
	default:
		// "51" is assessed through the Nakamoto coefficient only; overview and
		// unrecognized scenarios take nothing offline.
		return p
	}

	set := targetSet(targets)
	for i, n := range nodes {
		k := key(n)
		if k == "" {
			continue
		}
		if _, ok := set[k]; ok {
			p.Failed[i] = true
			p.FailedCount++
		}
	}
	return p
}

func targetSet(targets []string) map[string]struct{} {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

func hasProvider(nodes []Node) bool {
	for _, n := range nodes {
		if n.providerKey() != "" {
			return true
		}
	}
	return false
}

func hasStake(nodes []Node) bool {
	for _, n := range nodes {
		if n.Stake != nil {
			return true
		}
	}
	return false
}
