// Package common builds the pieces every command needs from the global flags.
package common

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stakestar/nodelyzer/cli/args"
	"github.com/stakestar/nodelyzer/config"
	"github.com/stakestar/nodelyzer/countries"
	"github.com/stakestar/nodelyzer/engine"
	"github.com/stakestar/nodelyzer/geodata"
	"github.com/stakestar/nodelyzer/ingest"
	"github.com/stakestar/nodelyzer/logger"
)

type Runtime struct {
	Config    *config.Config
	Logger    *zap.Logger
	Countries *countries.List
	Engine    *engine.Engine
	Parser    *ingest.Parser
}

func Setup(a *args.GlobalArgs) (*Runtime, error) {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.Create(a.LogLevel, a.LogEncoding)
	if err != nil {
		return nil, errors.Wrap(err, "initializing logger")
	}

	list, err := countries.Load(cfg.CountriesPath)
	if err != nil {
		return nil, err
	}
	log.Debug("Loaded reference countries", zap.Int("count", list.Len()))

	return &Runtime{
		Config:    cfg,
		Logger:    log,
		Countries: list,
		Engine:    engine.New(cfg.Thresholds, list),
		Parser:    ingest.NewParser(list),
	}, nil
}

// OpenGeoData opens the configured GeoLite2 database. It returns nil without
// error when no database is configured.
func (r *Runtime) OpenGeoData() (*geodata.GeoIP2DB, error) {
	if r.Config.GeoDataDbPath == "" {
		return nil, nil
	}
	return geodata.NewGeoIP2DB(r.Config.GeoDataDbPath)
}
