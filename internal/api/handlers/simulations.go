package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"evcharge/internal/api/models"
	"evcharge/internal/config"
	"evcharge/internal/driver"
	"evcharge/internal/simerr"
)

// SimulationHandler serves POST /api/v1/simulations.
type SimulationHandler struct {
	cache *ResultCache
}

// NewSimulationHandler builds a handler backed by cache.
func NewSimulationHandler(cache *ResultCache) *SimulationHandler {
	return &SimulationHandler{cache: cache}
}

// Run handles POST /api/v1/simulations: loads the config at ConfigPath
// (optionally overriding its InputPath), runs the driver, and returns a
// summary per (building, policy).
func (h *SimulationHandler) Run(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()}})
		return
	}

	cfg, err := config.Load(req.ConfigPath)
	if err != nil {
		writeSimError(c, err)
		return
	}
	if req.InputPath != "" {
		cfg.InputFile = req.InputPath
	}

	key := CacheKey(req.ConfigPath, cfg.InputFile)
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, toResponse(cached, true))
		return
	}

	result, err := driver.Run(cfg)
	if err != nil {
		writeSimError(c, err)
		return
	}
	h.cache.Set(key, result)

	c.JSON(http.StatusOK, toResponse(result, false))
}

func toResponse(result *driver.Result, cached bool) models.SimulationResponse {
	out := models.SimulationResponse{Cached: cached, Results: make([]models.BuildingResult, 0, len(result.Summaries))}
	for _, s := range result.Summaries {
		out.Results = append(out.Results, models.BuildingResult{
			Building:         s.Building,
			Policy:           string(s.Policy),
			TicksRun:         s.TicksRun,
			FinalRatios:      s.FinalRatios,
			MeanBatteryRatio: s.MeanBatteryRatio,
			UnmetDemandTicks: s.UnmetDemandTicks,
			EnergyDelivered:  s.EnergyDelivered,
			OutputTable:      s.OutputTable,
			PriorityFile:     s.PriorityFile,
		})
	}
	return out
}

func writeSimError(c *gin.Context, err error) {
	var simErr *simerr.Error
	if errors.As(err, &simErr) {
		status := http.StatusBadRequest
		switch simErr.Kind {
		case simerr.KindIO:
			status = http.StatusInternalServerError
		case simerr.KindInvariant:
			status = http.StatusInternalServerError
		}
		c.JSON(status, models.ErrorResponse{Error: models.ErrorDetail{Code: simErr.Code, Message: simErr.Message}})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: err.Error()}})
}
