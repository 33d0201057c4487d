package analyze

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stakestar/nodelyzer/cli/args"
	"github.com/stakestar/nodelyzer/cli/common"
	"github.com/stakestar/nodelyzer/db"
	"github.com/stakestar/nodelyzer/engine"
)

type flags struct {
	File     string
	Network  string
	Scenario string
	Targets  []string
	Name     string
	Save     bool
}

type output struct {
	*engine.Result
	Network string `json:"network"`
	Tor     int    `json:"tor"`
	ID      uint64 `json:"id,omitempty"`
}

var (
	globalArgs args.GlobalArgs
	f          flags
)

// AnalyzeCmd runs a single analysis over a node dump file and prints the result as JSON.
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyzes a node dump file",
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := common.Setup(&globalArgs)
		if err != nil {
			log.Fatal("Error initializing: ", err)
		}
		logger := rt.Logger
		defer logger.Sync()

		out, err := run(rt, f)
		if err != nil {
			logger.Fatal("Error analyzing nodes", zap.Error(err))
			return
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			logger.Fatal("Error writing result", zap.Error(err))
		}
	},
}

func run(rt *common.Runtime, f flags) (*output, error) {
	raw, err := os.ReadFile(f.File)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", f.File)
	}

	dump, err := rt.Parser.Parse(f.Network, raw)
	if err != nil {
		return nil, err
	}
	rt.Logger.Info("Parsed node dump",
		zap.String("network", dump.Network),
		zap.Int("nodes", len(dump.Nodes)),
		zap.Int("tor", dump.Tor),
	)

	geoDb, err := rt.OpenGeoData()
	if err != nil {
		return nil, err
	}
	if geoDb != nil {
		defer geoDb.Close()
		rt.Logger.Info("Resolved countries from IP addresses", zap.Int("count", geoDb.FillCountries(dump.Nodes)))
	}

	scenario := engine.Scenario(f.Scenario)
	if !scenario.Known() {
		rt.Logger.Warn("Unrecognized scenario, analyzing without failures", zap.String("scenario", f.Scenario))
	}

	result, err := rt.Engine.ComputeOptimization(engine.Request{
		Nodes:    dump.Nodes,
		Scenario: scenario,
		Targets:  f.Targets,
		Network:  dump.Network,
	})
	if err != nil {
		return nil, err
	}

	out := &output{Result: result, Network: dump.Network, Tor: dump.Tor}
	if !f.Save {
		return out, nil
	}

	boltDb, err := db.NewBoltDB(rt.Config.DbPath)
	if err != nil {
		return nil, err
	}
	defer boltDb.Close()

	name := f.Name
	if name == "" {
		name = fmt.Sprintf("%s %s", dump.Network, scenario.Label())
	}
	record := &db.AnalysisRecord{
		Name:     name,
		Network:  dump.Network,
		Scenario: result.Scenario,
		Targets:  f.Targets,
		Tor:      dump.Tor,
		Metrics: db.Metrics{
			TotalNodes:         result.TotalNodes,
			FailedNodes:        result.FailedNodes,
			ConnectivityLoss:   result.ConnectivityLoss,
			Gini:               result.Gini,
			Nakamoto:           result.Nakamoto,
			RemainingCountries: result.RemainingCountries,
		},
		Suggestions: result.Suggestions,
	}
	if err := boltDb.SaveAnalysis(record); err != nil {
		return nil, errors.Wrap(err, "saving analysis")
	}
	out.ID = record.ID
	return out, nil
}

func init() {
	args.ProcessArgs(&globalArgs, AnalyzeCmd)

	AnalyzeCmd.Flags().StringVarP(&f.File, "file", "f", "", "Node dump file (CSV or JSON)")
	_ = AnalyzeCmd.MarkFlagRequired("file")
	AnalyzeCmd.Flags().StringVarP(&f.Network, "network", "n", "", "Network the dump comes from (bitcoin, ethereum, solana)")
	AnalyzeCmd.Flags().StringVarP(&f.Scenario, "scenario", "s", "", "Failure scenario (region, cloud, 51), empty for an overview")
	AnalyzeCmd.Flags().StringSliceVarP(&f.Targets, "targets", "t", nil, "Country codes or provider names taken offline by the scenario")
	AnalyzeCmd.Flags().StringVar(&f.Name, "name", "", "Name of the saved analysis")
	AnalyzeCmd.Flags().BoolVar(&f.Save, "save", false, "Save the analysis to the database")
}
