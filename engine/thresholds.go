package engine

// Thresholds holds the suggestion policy. Loss values are percentages.
type Thresholds struct {
	OverviewGini                 float64 `yaml:"overviewGini" env:"THRESHOLD_OVERVIEW_GINI" env-default:"0.7" env-description:"Gini above which new countries are recommended"`
	NoticeableLoss               float64 `yaml:"noticeableLoss" env:"THRESHOLD_NOTICEABLE_LOSS" env-default:"25" env-description:"Connectivity loss percentage that causes a noticeable slowdown"`
	SevereLoss                   float64 `yaml:"severeLoss" env:"THRESHOLD_SEVERE_LOSS" env-default:"50" env-description:"Connectivity loss percentage that causes severe congestion"`
	NewCountryFraction           float64 `yaml:"newCountryFraction" env:"THRESHOLD_NEW_COUNTRY_FRACTION" env-default:"0.25" env-description:"New countries to add, as a fraction of present countries"`
	NewNodeFraction              float64 `yaml:"newNodeFraction" env:"THRESHOLD_NEW_NODE_FRACTION" env-default:"0.25" env-description:"New nodes to spread over new countries, as a fraction of all nodes"`
	ProviderFractionModerate     float64 `yaml:"providerFractionModerate" env:"THRESHOLD_PROVIDER_FRACTION_MODERATE" env-default:"0.10" env-description:"Share of providers to grow when loss is below the severe threshold"`
	ProviderFractionSevere       float64 `yaml:"providerFractionSevere" env:"THRESHOLD_PROVIDER_FRACTION_SEVERE" env-default:"0.25" env-description:"Share of providers to grow when loss is severe"`
	ProviderNodeFractionModerate float64 `yaml:"providerNodeFractionModerate" env:"THRESHOLD_PROVIDER_NODE_FRACTION_MODERATE" env-default:"0.15" env-description:"Nodes to add across providers, as a fraction of all nodes, when loss is below the severe threshold"`
	ProviderNodeFractionSevere   float64 `yaml:"providerNodeFractionSevere" env:"THRESHOLD_PROVIDER_NODE_FRACTION_SEVERE" env-default:"0.30" env-description:"Nodes to add across providers, as a fraction of all nodes, when loss is severe"`
	MajorityNakamoto             int     `yaml:"majorityNakamoto" env:"THRESHOLD_MAJORITY_NAKAMOTO" env-default:"1" env-description:"Nakamoto coefficient at or below which a 51% attack is high risk"`
	SolanaBaseTPS                float64 `yaml:"solanaBaseTPS" env:"THRESHOLD_SOLANA_BASE_TPS" env-default:"1400" env-description:"Solana throughput used for TPS forecasts"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		OverviewGini:                 0.7,
		NoticeableLoss:               25,
		SevereLoss:                   50,
		NewCountryFraction:           0.25,
		NewNodeFraction:              0.25,
		ProviderFractionModerate:     0.10,
		ProviderFractionSevere:       0.25,
		ProviderNodeFractionModerate: 0.15,
		ProviderNodeFractionSevere:   0.30,
		MajorityNakamoto:             1,
		SolanaBaseTPS:                1400,
	}
}
