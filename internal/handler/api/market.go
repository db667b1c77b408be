// Package api exposes the market intelligence engine over HTTP.
package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/internal/services/finmodel"
	"github.com/mikey22333/startup-sub001/internal/usecase"
	xhttp "github.com/mikey22333/startup-sub001/pkg/http"
	xlogger "github.com/mikey22333/startup-sub001/pkg/logger"
)

// MarketHandler serves market data, insights, refresh and financial-model
// endpoints.
type MarketHandler struct {
	logger     *xlogger.Logger
	aggregator *usecase.Aggregator
	insights   *usecase.InsightsManager
	scheduler  *usecase.Scheduler
	enhancer   *finmodel.Enhancer
}

func NewMarketHandler(logger *xlogger.Logger, aggregator *usecase.Aggregator, insights *usecase.InsightsManager, scheduler *usecase.Scheduler, enhancer *finmodel.Enhancer) *MarketHandler {
	return &MarketHandler{
		logger:     logger,
		aggregator: aggregator,
		insights:   insights,
		scheduler:  scheduler,
		enhancer:   enhancer,
	}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/market-data", h.MarketData)
	g.GET("/market-insights", h.MarketInsights)
	g.POST("/market-data/refresh", h.Refresh)
	g.POST("/market-data/refresh-all", h.RefreshAll)
	g.POST("/financial-model", h.FinancialModel)
}

// MarketData runs a live aggregation with the requested adapter selection.
func (h *MarketHandler) MarketData(c echo.Context) error {
	req := &models.MarketDataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	data := h.aggregator.ComprehensiveMarketData(c.Request().Context(), req.Industry, req.Location, req.Options())
	return xhttp.SuccessResponse(c, data)
}

type insightsResponse struct {
	Snapshot *models.MarketSnapshot `json:"snapshot"`
	Digest   string                 `json:"digest"`
}

// MarketInsights serves the cached snapshot plus its single-line prompt
// digest.
func (h *MarketHandler) MarketInsights(c echo.Context) error {
	req := &models.InsightsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snap, err := h.insights.GetSnapshot(c.Request().Context(), req.Industry, req.Location)
	if err != nil {
		h.logger.Error("market insights failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	digest, err := h.insights.GetMarketInsightsForPrompt(c.Request().Context(), req.Industry, req.Location)
	if err != nil {
		h.logger.Error("insights digest failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, insightsResponse{Snapshot: snap, Digest: digest})
}

// Refresh immediately refreshes one (industry, location) pair, bypassing
// staleness windows.
func (h *MarketHandler) Refresh(c echo.Context) error {
	req := &models.RefreshRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	h.scheduler.UpdateHighPriorityIndustry(c.Request().Context(), req.Industry, req.Location)

	snap, err := h.insights.GetSnapshot(c.Request().Context(), req.Industry, req.Location)
	if err != nil {
		h.logger.Error("refresh read-back failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, snap)
}

// RefreshAll kicks off a full re-run of every tracked pair in the background
// and returns immediately; the batches pause between themselves and can take
// minutes.
func (h *MarketHandler) RefreshAll(c echo.Context) error {
	// detached context: the run must outlive this request
	go func() {
		if err := h.scheduler.ForceRefreshAllData(context.Background()); err != nil {
			h.logger.Error("force refresh failed", xlogger.Error(err))
		}
	}()
	return xhttp.AcceptedResponse(c, map[string]string{"status": "refresh started"})
}

type financialModelResponse struct {
	Model  *models.FinancialModel   `json:"model"`
	Report *models.ValidationReport `json:"report"`
}

// FinancialModel runs the deterministic enhancement pipeline, optionally
// enriched with the market snapshot for the given pair.
func (h *MarketHandler) FinancialModel(c echo.Context) error {
	req := &models.FinancialModelRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var snapshot *models.MarketSnapshot
	if req.Industry != "" && req.Location != "" {
		snap, err := h.insights.GetSnapshot(c.Request().Context(), req.Industry, req.Location)
		if err != nil {
			// market context is optional enrichment, the model still builds
			h.logger.Warn("market context unavailable for financial model", xlogger.Error(err))
		} else {
			snapshot = snap
		}
	}

	model, report := h.enhancer.Enhance(req.BusinessType, req.BusinessIdea, req.Projections, snapshot)
	return xhttp.SuccessResponse(c, financialModelResponse{Model: model, Report: report})
}
