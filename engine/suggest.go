package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/stakestar/nodelyzer/metrics"
)

const balancedSuggestion = "Network looks balanced—no major suggestions."

func (e *Engine) suggest(req Request, p partition, imp impact) []string {
	var out []string

	switch req.Scenario {
	case ScenarioOverview:
		if imp.Gini > e.thresholds.OverviewGini {
			if plan, ok := e.planCountries(req.Nodes, imp); ok {
				out = append(out, fmt.Sprintf(
					"High concentration detected (Gini %.3f). Add %d nodes in each of %d new countries (%s) to improve decentralization. Forecasted Gini: %.3f.",
					imp.Gini, plan.NodesPerCountry, len(plan.Codes), joinCodes(plan.Codes), plan.ForecastGini))
			} else {
				// every reference country already hosts nodes
				out = append(out, fmt.Sprintf(
					"High concentration detected (Gini %.3f). Rebalance nodes toward the least-used countries to improve decentralization.",
					imp.Gini))
			}
		} else {
			out = append(out, fmt.Sprintf("Network is balanced (Gini %.3f); no new countries needed.", imp.Gini))
		}

	case ScenarioRegion, ScenarioCloud:
		out = append(out, e.outageSuggestions(req, imp)...)
		if imp.Loss == 0 {
			break
		}
		if req.Scenario == ScenarioRegion {
			if plan, ok := e.planCountries(req.Nodes, imp); ok {
				out = append(out, fmt.Sprintf(
					"To mitigate, add %d nodes in each of %d new countries (%s). Forecasted Gini: %.3f (currently %.3f).",
					plan.NodesPerCountry, len(plan.Codes), joinCodes(plan.Codes), plan.ForecastGini, imp.Gini))
			}
		} else if s, ok := e.providerSuggestion(req.Nodes, p, imp); ok {
			out = append(out, s)
		}

	case ScenarioMajority:
		if imp.Nakamoto <= e.thresholds.MajorityNakamoto {
			out = append(out, fmt.Sprintf(
				"High 51%% attack risk: Nakamoto coefficient is %d, so a single country can reach majority control. Add nodes in other countries.",
				imp.Nakamoto))
		} else {
			out = append(out, fmt.Sprintf(
				"Network is resilient to a 51%% attack: %d countries are needed to reach majority control.",
				imp.Nakamoto))
		}
	}

	if len(out) == 0 {
		out = append(out, balancedSuggestion)
	}
	return out
}

// outageSuggestions classifies the loss of a region or cloud outage.
func (e *Engine) outageSuggestions(req Request, imp impact) []string {
	t := e.thresholds
	loss := imp.Loss

	if loss == 0 {
		return []string{"No outage detected: all nodes remain reachable under this scenario."}
	}

	var out []string
	switch {
	case loss < t.NoticeableLoss:
		out = append(out, fmt.Sprintf(
			"Connectivity loss of %.2f%% is within resilient bounds; no changes needed, but consider the mitigation below.", loss))
	case loss < t.SevereLoss:
		out = append(out, fmt.Sprintf(
			"Connectivity loss of %.2f%% would cause a noticeable slowdown in block propagation and confirmations.", loss))
	default:
		out = append(out, fmt.Sprintf(
			"Connectivity loss of %.2f%% would cause severe congestion, fee spikes and a possible network crash.", loss))
	}

	switch strings.ToLower(req.Network) {
	case NetworkSolana:
		tps := int(math.Floor(t.SolanaBaseTPS * (1 - loss/100)))
		out = append(out, fmt.Sprintf("Forecasted Solana throughput: %d TPS (baseline %.0f TPS).", tps, t.SolanaBaseTPS))
	case NetworkEthereum:
		out = append(out, "Expect gas fees to spike while the remaining validators absorb the load.")
	}
	return out
}

type countryPlan struct {
	Codes           []string
	NodesPerCountry int
	ForecastGini    float64
}

// planCountries picks new countries from the reference list and forecasts the
// Gini coefficient once they carry an average share of weight. Countries that
// appear anywhere in the input, including failed ones, are never proposed.
func (e *Engine) planCountries(nodes []Node, imp impact) (countryPlan, bool) {
	t := e.thresholds

	k := maxInt(1, roundInt(t.NewCountryFraction*float64(imp.RemainingCountries)))
	codes := e.countries.Absent(presentCountries(nodes), k)
	if len(codes) == 0 {
		return countryPlan{}, false
	}
	k = len(codes)

	perCountry := maxInt(1, int(math.Ceil(t.NewNodeFraction*float64(imp.TotalNodes)/float64(k))))

	avg := 1.0
	if imp.RemainingNodes > 0 && imp.RemainingWeight > 0 {
		avg = imp.RemainingWeight / float64(imp.RemainingNodes)
	}

	forecast := weightValues(imp.Weights)
	for range codes {
		forecast = append(forecast, float64(perCountry)*avg)
	}

	return countryPlan{
		Codes:           codes,
		NodesPerCountry: perCountry,
		ForecastGini:    metrics.Gini(forecast),
	}, true
}

type providerCount struct {
	Name  string
	Nodes int
}

// providerSuggestion recommends growing the least used providers that survived
// a cloud outage.
func (e *Engine) providerSuggestion(nodes []Node, p partition, imp impact) (string, bool) {
	t := e.thresholds
	if !hasProvider(nodes) {
		return "", false
	}

	providers := remainingProviders(nodes, p)
	if len(providers) == 0 {
		return "Every provider hosting nodes was affected; onboard nodes with providers outside the outage.", true
	}

	fraction, nodeFraction := t.ProviderFractionModerate, t.ProviderNodeFractionModerate
	if imp.Loss >= t.SevereLoss {
		fraction, nodeFraction = t.ProviderFractionSevere, t.ProviderNodeFractionSevere
	}

	m := maxInt(1, roundInt(fraction*float64(len(providers))))
	if m > len(providers) {
		m = len(providers)
	}
	additional := roundInt(nodeFraction * float64(imp.TotalNodes))
	perProvider := maxInt(1, int(math.Ceil(float64(additional)/float64(m))))

	names := make([]string, m)
	for i := range names {
		names[i] = providers[i].Name
	}
	return fmt.Sprintf("Add %d nodes to each of the %d least-used providers (%s) to reduce dependence on a single provider.",
		perProvider, m, strings.Join(names, ", ")), true
}

// remainingProviders counts surviving nodes per provider, fewest first. Ties are
// broken by name so output is stable.
func remainingProviders(nodes []Node, p partition) []providerCount {
	index := make(map[string]int)
	var out []providerCount
	for i, n := range nodes {
		key := n.providerKey()
		if p.Failed[i] || key == "" {
			continue
		}
		j, ok := index[key]
		if !ok {
			j = len(out)
			index[key] = j
			out = append(out, providerCount{Name: strings.TrimSpace(n.Provider)})
		}
		out[j].Nodes++
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Nodes != out[b].Nodes {
			return out[a].Nodes < out[b].Nodes
		}
		return strings.ToLower(out[a].Name) < strings.ToLower(out[b].Name)
	})
	return out
}

func presentCountries(nodes []Node) map[string]struct{} {
	present := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if c := n.countryKey(); c != "" {
			present[c] = struct{}{}
		}
	}
	return present
}

func joinCodes(codes []string) string {
	upper := make([]string, len(codes))
	for i, c := range codes {
		upper[i] = strings.ToUpper(c)
	}
	return strings.Join(upper, ", ")
}

// roundInt rounds half to even.
func roundInt(v float64) int {
	return int(math.RoundToEven(v))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
