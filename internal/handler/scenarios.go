package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gtmdash/internal/engine"
	"gtmdash/internal/models"
	"gtmdash/internal/repository"
	"gtmdash/internal/service"
)

type ScenarioHandler struct {
	Repo      repository.Repository
	Evaluator *service.EvaluationService
	Logger    *zap.Logger
}

func (h *ScenarioHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/scenarios")
	group.POST("", h.create)
	group.GET("", h.list)
	group.POST("/import", h.importConfig)
	group.GET("/:id", h.get)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.remove)
	group.POST("/:id/evaluate", h.evaluate)
	group.GET("/:id/snapshots", h.snapshots)
	group.GET("/:id/alerts", h.alerts)
	group.GET("/:id/export", h.export)
	group.POST("/:id/channels", h.addChannel)
	group.PUT("/:id/channels/:channelID", h.updateChannel)
	group.DELETE("/:id/channels/:channelID", h.removeChannel)
}

type createScenarioRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	Config      *engine.ScenarioConfig `json:"config"`
}

// @Summary Create a scenario
// @Tags scenarios
// @Accept json
// @Success 201 {object} models.Scenario
// @Router /api/v1/scenarios [post]
func (h *ScenarioHandler) create(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var req createScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body: "+err.Error(), nil)
		return
	}
	cfg := engine.DefaultConfig()
	if req.Config != nil {
		cfg = req.Config.Normalize()
	}
	// Reject configs the engine cannot evaluate instead of storing them.
	if _, err := engine.Evaluate(cfg); err != nil {
		EngineError(c, err)
		return
	}
	raw, err := service.EncodeConfig(cfg)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	item := &models.Scenario{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Config:      raw,
	}
	if err := h.Repo.InsertScenario(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Created(c, item)
}

// @Summary List scenarios
// @Tags scenarios
// @Success 200 {array} models.Scenario
// @Router /api/v1/scenarios [get]
func (h *ScenarioHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)
	var query *string
	if v := strings.TrimSpace(c.Query("q")); v != "" {
		query = &v
	}
	params := repository.ListScenariosParams{
		Query:  query,
		Limit:  limit,
		Offset: offset,
	}
	items, err := h.Repo.ListScenarios(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountScenarios(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

func (h *ScenarioHandler) load(c *gin.Context) (*models.Scenario, engine.ScenarioConfig, bool) {
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid scenario id", nil)
		return nil, engine.ScenarioConfig{}, false
	}
	item, err := h.Repo.GetScenarioByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil, engine.ScenarioConfig{}, false
	}
	if item == nil {
		Error(c, http.StatusNotFound, "scenario not found", nil)
		return nil, engine.ScenarioConfig{}, false
	}
	cfg, err := service.DecodeConfig(item.Config)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return nil, engine.ScenarioConfig{}, false
	}
	return item, cfg, true
}

// @Summary Get a scenario with its current evaluation
// @Tags scenarios
// @Success 200 {object} map[string]any
// @Router /api/v1/scenarios/{id} [get]
func (h *ScenarioHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	item, cfg, ok := h.load(c)
	if !ok {
		return
	}
	snap, alerts, err := h.Evaluator.EvaluateConfig(cfg)
	if err != nil {
		EngineError(c, err)
		return
	}
	Ok(c, map[string]any{
		"scenario": item,
		"snapshot": snap,
		"alerts":   alerts,
	}, nil)
}

type updateScenarioRequest struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Config      *engine.ScenarioConfig `json:"config"`
}

// @Summary Update a scenario (last write wins) and re-evaluate
// @Tags scenarios
// @Accept json
// @Success 200 {object} map[string]any
// @Router /api/v1/scenarios/{id} [put]
func (h *ScenarioHandler) update(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	item, cfg, ok := h.load(c)
	if !ok {
		return
	}
	var req updateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body: "+err.Error(), nil)
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Config != nil {
		cfg = req.Config.Normalize()
	}
	h.saveAndPublish(c, item, cfg)
}

// saveAndPublish validates a config by evaluating it, persists the
// scenario, and pushes the fresh snapshot to stream subscribers. On an
// invalid config nothing is stored.
func (h *ScenarioHandler) saveAndPublish(c *gin.Context, item *models.Scenario, cfg engine.ScenarioConfig) {
	if _, err := engine.Evaluate(cfg); err != nil {
		EngineError(c, err)
		return
	}
	raw, err := service.EncodeConfig(cfg)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	item.Config = raw
	item.UpdatedAt = time.Now().UTC()
	if err := h.Repo.UpdateScenario(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	snap, alerts, err := h.Evaluator.EvaluateScenario(c.Request.Context(), item.ID, false, service.SnapshotSourceAPI)
	if err != nil {
		EngineError(c, err)
		return
	}
	Ok(c, map[string]any{
		"scenario": item,
		"snapshot": snap,
		"alerts":   alerts,
	}, nil)
}

// @Summary Delete a scenario and its snapshot history
// @Tags scenarios
// @Success 200 {object} map[string]string
// @Router /api/v1/scenarios/{id} [delete]
func (h *ScenarioHandler) remove(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid scenario id", nil)
		return
	}
	if err := h.Repo.DeleteSnapshotsByScenario(c.Request.Context(), id); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if err := h.Repo.DeleteScenario(c.Request.Context(), id); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, map[string]string{"status": "deleted"}, nil)
}

// @Summary Evaluate a scenario and persist a history snapshot
// @Tags scenarios
// @Success 200 {object} map[string]any
// @Router /api/v1/scenarios/{id}/evaluate [post]
func (h *ScenarioHandler) evaluate(c *gin.Context) {
	if h.Evaluator == nil {
		Error(c, http.StatusInternalServerError, "evaluator unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid scenario id", nil)
		return
	}
	snap, alerts, err := h.Evaluator.EvaluateScenario(c.Request.Context(), id, true, service.SnapshotSourceAPI)
	if err == service.ErrScenarioNotFound {
		Error(c, http.StatusNotFound, "scenario not found", nil)
		return
	}
	if err != nil {
		EngineError(c, err)
		return
	}
	Ok(c, map[string]any{
		"snapshot": snap,
		"alerts":   alerts,
	}, nil)
}

// @Summary List a scenario's snapshot history
// @Tags scenarios
// @Success 200 {array} models.ScenarioSnapshot
// @Router /api/v1/scenarios/{id}/snapshots [get]
func (h *ScenarioHandler) snapshots(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid scenario id", nil)
		return
	}
	var source *string
	if v := strings.TrimSpace(c.Query("source")); v != "" {
		source = &v
	}
	items, err := h.Repo.ListSnapshots(c.Request.Context(), repository.ListSnapshotsParams{
		ScenarioID: id,
		Source:     source,
		Limit:      intQuery(c, "limit", 200),
		Offset:     intQuery(c, "offset", 0),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

// @Summary Threshold alerts for a scenario's current configuration
// @Tags scenarios
// @Success 200 {array} alert.Alert
// @Router /api/v1/scenarios/{id}/alerts [get]
func (h *ScenarioHandler) alerts(c *gin.Context) {
	if h.Repo == nil || h.Evaluator == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	_, cfg, ok := h.load(c)
	if !ok {
		return
	}
	_, alerts, err := h.Evaluator.EvaluateConfig(cfg)
	if err != nil {
		EngineError(c, err)
		return
	}
	Ok(c, alerts, nil)
}

// @Summary Export a scenario's configuration document
// @Tags scenarios
// @Success 200 {object} engine.ScenarioConfig
// @Router /api/v1/scenarios/{id}/export [get]
func (h *ScenarioHandler) export(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	_, cfg, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type importScenarioRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Config      json.RawMessage `json:"config" binding:"required"`
}

// @Summary Import a configuration document as a new scenario
// @Tags scenarios
// @Accept json
// @Success 201 {object} models.Scenario
// @Router /api/v1/scenarios/import [post]
func (h *ScenarioHandler) importConfig(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var req importScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body: "+err.Error(), nil)
		return
	}
	// Partial documents are expected: unknown keys are ignored and missing
	// sections fall back to defaults.
	cfg, err := service.DecodeConfig(req.Config)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if _, err := engine.Evaluate(cfg); err != nil {
		EngineError(c, err)
		return
	}
	raw, err := service.EncodeConfig(cfg)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	item := &models.Scenario{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Config:      raw,
	}
	if err := h.Repo.InsertScenario(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Created(c, item)
}

type addChannelRequest struct {
	Segment engine.Segment        `json:"segment"`
	Channel *engine.ChannelConfig `json:"channel"`
}

// @Summary Add a channel to a scenario
// @Tags channels
// @Accept json
// @Success 200 {object} map[string]any
// @Router /api/v1/scenarios/{id}/channels [post]
func (h *ScenarioHandler) addChannel(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	item, cfg, ok := h.load(c)
	if !ok {
		return
	}
	var req addChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body: "+err.Error(), nil)
		return
	}
	ch := engine.ChannelPreset(req.Segment)
	if req.Channel != nil {
		ch = *req.Channel
	}
	if ch.ID == "" {
		ch.ID = nextChannelID(cfg.Channels)
	}
	for _, existing := range cfg.Channels {
		if existing.ID == ch.ID {
			Error(c, http.StatusConflict, "channel id already exists", nil)
			return
		}
	}
	cfg.Channels = append(cfg.Channels, ch)
	h.saveAndPublish(c, item, cfg)
}

// @Summary Update one channel of a scenario
// @Tags channels
// @Accept json
// @Success 200 {object} map[string]any
// @Router /api/v1/scenarios/{id}/channels/{channelID} [put]
func (h *ScenarioHandler) updateChannel(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	item, cfg, ok := h.load(c)
	if !ok {
		return
	}
	channelID := strings.TrimSpace(c.Param("channelID"))
	var req engine.ChannelConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body: "+err.Error(), nil)
		return
	}
	req.ID = channelID
	found := false
	for i := range cfg.Channels {
		if cfg.Channels[i].ID == channelID {
			cfg.Channels[i] = req
			found = true
			break
		}
	}
	if !found {
		Error(c, http.StatusNotFound, "channel not found", nil)
		return
	}
	h.saveAndPublish(c, item, cfg)
}

// @Summary Remove one channel from a scenario
// @Tags channels
// @Success 200 {object} map[string]any
// @Router /api/v1/scenarios/{id}/channels/{channelID} [delete]
func (h *ScenarioHandler) removeChannel(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	item, cfg, ok := h.load(c)
	if !ok {
		return
	}
	channelID := strings.TrimSpace(c.Param("channelID"))
	next := cfg.Channels[:0:0]
	for _, ch := range cfg.Channels {
		if ch.ID != channelID {
			next = append(next, ch)
		}
	}
	if len(next) == len(cfg.Channels) {
		Error(c, http.StatusNotFound, "channel not found", nil)
		return
	}
	cfg.Channels = next
	h.saveAndPublish(c, item, cfg)
}

func nextChannelID(channels []engine.ChannelConfig) string {
	used := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		used[ch.ID] = struct{}{}
	}
	for i := len(channels) + 1; ; i++ {
		id := fmt.Sprintf("channel-%d", i)
		if _, ok := used[id]; !ok {
			return id
		}
	}
}
