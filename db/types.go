package db

import (
	"time"
)

// AnalysisRecord is a saved analysis run. Only the computed metrics and
// suggestions are kept, never the analyzed node list.
type AnalysisRecord struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Network     string    `json:"network"`
	Scenario    string    `json:"scenario"`
	Targets     []string  `json:"targets,omitempty"`
	Tor         int       `json:"tor,omitempty"`
	Metrics     Metrics   `json:"metrics"`
	Suggestions []string  `json:"suggestions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Metrics struct {
	TotalNodes         int     `json:"total_nodes"`
	FailedNodes        int     `json:"failed_nodes"`
	ConnectivityLoss   string  `json:"connectivity_loss"`
	Gini               float64 `json:"gini"`
	Nakamoto           int     `json:"nakamoto"`
	RemainingCountries int     `json:"remaining_countries"`
}
