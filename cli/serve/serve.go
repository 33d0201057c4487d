package serve

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stakestar/nodelyzer/api"
	"github.com/stakestar/nodelyzer/cli/args"
	"github.com/stakestar/nodelyzer/cli/common"
	"github.com/stakestar/nodelyzer/db"
)

var globalArgs args.GlobalArgs

// ServeCmd starts the HTTP API.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the analysis HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := common.Setup(&globalArgs)
		if err != nil {
			log.Fatal("Error initializing: ", err)
		}
		logger := rt.Logger
		defer logger.Sync()

		boltDb, err := db.NewBoltDB(rt.Config.DbPath)
		if err != nil {
			logger.Fatal("Error connecting to database", zap.Error(err))
			return
		}
		defer boltDb.Close()

		geoDb, err := rt.OpenGeoData()
		if err != nil {
			logger.Fatal("Error connecting to geo database", zap.Error(err))
			return
		}
		if geoDb != nil {
			defer geoDb.Close()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := api.New(logger, rt.Config.Server, rt.Engine, rt.Parser, boltDb, geoDb)
		if err := server.Start(ctx); err != nil {
			logger.Error("Error running server", zap.Error(err))
		}
	},
}

func init() {
	args.ProcessArgs(&globalArgs, ServeCmd)
}
