package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stakestar/nodelyzer/db"
	"github.com/stakestar/nodelyzer/engine"
	"github.com/stakestar/nodelyzer/utils"
)

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

type analysisRequest struct {
	Name string `json:"name" binding:"required"`
	engine.Request
}

func (api *Api) SimulateFailure(c *gin.Context) {
	api.compute(c, api.engine.ComputeFailureImpact)
}

func (api *Api) Optimize(c *gin.Context) {
	api.compute(c, api.engine.ComputeOptimization)
}

func (api *Api) compute(c *gin.Context, run func(engine.Request) (*engine.Result, error)) {
	var req engine.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !api.prepare(c, &req) {
		return
	}

	result, err := run(req)
	if err != nil {
		api.abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// prepare validates node attributes and fills missing countries from IP
// addresses. It writes the error response and returns false on invalid input.
func (api *Api) prepare(c *gin.Context, req *engine.Request) bool {
	for i, n := range req.Nodes {
		if n.Stake == nil {
			continue
		}
		if !engine.ValidStake(*n.Stake) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("node %d has an invalid stake", i)})
			return false
		}
	}

	if !req.Scenario.Known() {
		api.logger.Warn("Unrecognized scenario, analyzing without failures", zap.String("scenario", string(req.Scenario)))
	}

	if api.geo != nil {
		if n := api.geo.FillCountries(req.Nodes); n > 0 {
			api.logger.Debug("Resolved node countries from IP addresses", zap.Int("count", n))
		}
	}
	return true
}

func (api *Api) abortWithEngineError(c *gin.Context, err error) {
	var missing *engine.MissingFieldError
	if errors.Is(err, engine.ErrNoNodes) || errors.Is(err, engine.ErrInvalidStake) || errors.As(err, &missing) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	api.logger.Error("Error computing analysis", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func (api *Api) Ingest(c *gin.Context) {
	network := c.Param("network")
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}

	dump, err := api.parser.Parse(network, raw)
	if err != nil {
		api.logger.Warn("Error parsing node dump", zap.String("network", network), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if api.geo != nil {
		api.geo.FillCountries(dump.Nodes)
	}
	c.JSON(http.StatusOK, dump)
}

func (api *Api) CreateAnalysis(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !api.prepare(c, &req.Request) {
		return
	}

	result, err := api.engine.ComputeOptimization(req.Request)
	if err != nil {
		api.abortWithEngineError(c, err)
		return
	}

	record := &db.AnalysisRecord{
		Name:     req.Name,
		Network:  req.Network,
		Scenario: result.Scenario,
		Targets:  req.Targets,
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
	if err := api.db.SaveAnalysis(record); err != nil {
		api.logger.Error("Error saving analysis", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	api.invalidateCache()
	c.JSON(http.StatusCreated, record)
}

func (api *Api) ListAnalyses(c *gin.Context) {
	records, err := api.db.ListAnalyses(c.Query("network"))
	if err != nil {
		api.logger.Error("Error listing analyses", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analyses": records,
		"metadata": gin.H{
			"count": len(records),
		},
	})
}

func (api *Api) GetAnalysis(c *gin.Context) {
	id, ok := analysisID(c)
	if !ok {
		return
	}
	record, err := api.db.GetAnalysis(id)
	if errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	if err != nil {
		api.logger.Error("Error getting analysis", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (api *Api) RenameAnalysis(c *gin.Context) {
	id, ok := analysisID(c)
	if !ok {
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := api.db.RenameAnalysis(id, req.Name)
	if errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	if err != nil {
		api.logger.Error("Error renaming analysis", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	api.invalidateCache()
	c.JSON(http.StatusOK, record)
}

func (api *Api) DeleteAnalysis(c *gin.Context) {
	id, ok := analysisID(c)
	if !ok {
		return
	}
	err := api.db.DeleteAnalysis(id)
	if errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	if err != nil {
		api.logger.Error("Error deleting analysis", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	api.invalidateCache()
	c.Status(http.StatusNoContent)
}

func analysisID(c *gin.Context) (uint64, bool) {
	id, err := utils.StringToUint64(c.Param("id"))
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}
