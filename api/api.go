package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"github.com/stakestar/nodelyzer/config"
	"github.com/stakestar/nodelyzer/db"
	"github.com/stakestar/nodelyzer/engine"
	"github.com/stakestar/nodelyzer/geodata"
	"github.com/stakestar/nodelyzer/ingest"
)

const shutdownTimeout = 5 * time.Second

type Api struct {
	cfg    config.ServerConfig
	engine *engine.Engine
	parser *ingest.Parser
	db     *db.BoltDB
	geo    *geodata.GeoIP2DB
	cache  *persistence.InMemoryStore
	logger *zap.Logger
}

// New wires the HTTP handlers. geo may be nil, in which case nodes are never
// enriched from their IP address.
func New(logger *zap.Logger, cfg config.ServerConfig, engine *engine.Engine, parser *ingest.Parser, db *db.BoltDB, geo *geodata.GeoIP2DB) *Api {
	return &Api{
		cfg:    cfg,
		engine: engine,
		parser: parser,
		db:     db,
		geo:    geo,
		cache:  persistence.NewInMemoryStore(cfg.CacheTTL),
		logger: logger,
	}
}

func (api *Api) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), api.requestLogger())

	rate := limiter.Rate{
		Limit:  api.cfg.RateLimit,
		Period: api.cfg.RatePeriod,
	}
	router.Use(ginlimiter.NewMiddleware(limiter.New(memory.NewStore(), rate)))
	router.Use(api.limitBody())

	router.POST("/api/simulate-failure", api.SimulateFailure)
	router.POST("/api/optimize", api.Optimize)
	router.POST("/api/ingest/:network", api.Ingest)
	router.POST("/api/analyses", api.CreateAnalysis)
	router.GET("/api/analyses", cache.CachePage(api.cache, api.cfg.CacheTTL, api.ListAnalyses))
	router.GET("/api/analyses/:id", cache.CachePage(api.cache, api.cfg.CacheTTL, api.GetAnalysis))
	router.PATCH("/api/analyses/:id", api.RenameAnalysis)
	router.DELETE("/api/analyses/:id", api.DeleteAnalysis)

	return router
}

// Start serves until ctx is cancelled, then shuts the server down gracefully.
func (api *Api) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    api.cfg.Address,
		Handler: api.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			api.logger.Error("Error shutting down server", zap.Error(err))
		}
	}()

	api.logger.Info("Starting server", zap.String("address", api.cfg.Address))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	api.logger.Info("Server stopped")
	return nil
}

func (api *Api) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		api.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// invalidateCache drops cached analysis pages after a write.
func (api *Api) invalidateCache() {
	if err := api.cache.Flush(); err != nil {
		api.logger.Warn("Error flushing response cache", zap.Error(err))
	}
}

func (api *Api) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if api.cfg.MaxBodyBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, api.cfg.MaxBodyBytes)
		}
		c.Next()
	}
}
