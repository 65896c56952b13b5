package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"gtmdash/internal/engine"
	"gtmdash/internal/service"
)

// EvaluateHandler is the stateless calculation surface: a full config in,
// a snapshot out, nothing stored. This is what an interactive UI calls on
// every input change.
type EvaluateHandler struct {
	Evaluator *service.EvaluationService
}

func (h *EvaluateHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/evaluate")
	group.POST("", h.evaluate)
	group.POST("/deal", h.evaluateDeal)
}

// @Summary Evaluate a configuration without saving it
// @Tags evaluate
// @Accept json
// @Success 200 {object} map[string]any
// @Router /api/v1/evaluate [post]
func (h *EvaluateHandler) evaluate(c *gin.Context) {
	if h.Evaluator == nil {
		Error(c, http.StatusInternalServerError, "evaluator unavailable", nil)
		return
	}
	var cfg engine.ScenarioConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		Error(c, http.StatusBadRequest, "invalid body: "+err.Error(), nil)
		return
	}
	snap, alerts, err := h.Evaluator.EvaluateConfig(cfg)
	if err != nil {
		EngineError(c, err)
		return
	}
	Ok(c, map[string]any{
		"snapshot": snap,
		"alerts":   alerts,
	}, nil)
}

type evaluateDealRequest struct {
	Deal         engine.DealInput                   `json:"deal_economics"`
	Team         engine.TeamConfig                  `json:"team"`
	Compensation map[string]engine.RoleCompensation `json:"compensation"`
	CostPerSale  decimal.Decimal                    `json:"cost_per_sale"`
}

// @Summary Preview a single deal's cash split, payout, and unit economics
// @Tags evaluate
// @Accept json
// @Success 200 {object} engine.DealPreview
// @Router /api/v1/evaluate/deal [post]
func (h *EvaluateHandler) evaluateDeal(c *gin.Context) {
	var req evaluateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body: "+err.Error(), nil)
		return
	}
	preview, err := engine.EvaluateDeal(engine.ScenarioConfig{
		Deal:         req.Deal,
		Team:         req.Team,
		Compensation: req.Compensation,
	}, req.CostPerSale)
	if err != nil {
		EngineError(c, err)
		return
	}
	Ok(c, preview, nil)
}
