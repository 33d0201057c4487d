package engine

import "strings"

// Scenario names a failure mode. Unrecognized scenarios are accepted and
// treated like ScenarioOverview: no node fails and no error is returned.
type Scenario string

const (
	ScenarioOverview Scenario = ""
	ScenarioRegion   Scenario = "region"
	ScenarioCloud    Scenario = "cloud"
	ScenarioMajority Scenario = "51"
)

// Known reports whether the scenario has dedicated partitioning rules.
func (s Scenario) Known() bool {
	switch s {
	case ScenarioOverview, ScenarioRegion, ScenarioCloud, ScenarioMajority:
		return true
	}
	return false
}

// Label is the scenario name reported in results.
func (s Scenario) Label() string {
	if s == ScenarioOverview {
		return "overview"
	}
	return string(s)
}

const (
	NetworkBitcoin  = "bitcoin"
	NetworkEthereum = "ethereum"
	NetworkSolana   = "solana"
)

// Node is a single network participant. Country and Provider compare case-insensitively.
// A nil Stake means the node carries no stake information, which is not the same as zero.
type Node struct {
	Name     string   `json:"name,omitempty"`
	IP       string   `json:"ip,omitempty"`
	Country  string   `json:"country"`
	Provider string   `json:"provider,omitempty"`
	Stake    *float64 `json:"stake,omitempty"`
	Lat      float64  `json:"lat,omitempty"`
	Lon      float64  `json:"lon,omitempty"`
}

func (n Node) countryKey() string {
	return strings.ToLower(strings.TrimSpace(n.Country))
}

func (n Node) providerKey() string {
	return strings.ToLower(strings.TrimSpace(n.Provider))
}

type Request struct {
	Nodes    []Node   `json:"nodes"`
	Scenario Scenario `json:"scenario"`
	Targets  []string `json:"targets"`
	Network  string   `json:"network"`
}

type Result struct {
	TotalNodes         int      `json:"total_nodes"`
	FailedNodes        int      `json:"failed_nodes"`
	ConnectivityLoss   string   `json:"connectivity_loss"`
	Scenario           string   `json:"scenario"`
	Gini               float64  `json:"gini"`
	Nakamoto           int      `json:"nakamoto"`
	RemainingCountries int      `json:"remaining_countries"`
	Suggestions        []string `json:"suggestions,omitempty"`
}
