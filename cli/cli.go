package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/stakestar/nodelyzer/cli/analyze"
	"github.com/stakestar/nodelyzer/cli/serve"
)

var RootCmd = &cobra.Command{
	Use:   "nodelyzer",
	Short: "nodelyzer",
	Long:  `Nodelyzer measures how decentralized a node network is and simulates region, cloud and 51% failure scenarios`,
}

func Execute(appName, version string) {
	RootCmd.Short = appName
	RootCmd.Version = version

	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("failed to execute root command: %v", err)
	}
}

func init() {
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(analyze.AnalyzeCmd)
}
