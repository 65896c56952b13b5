package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"gtmdash/internal/config"
	"gtmdash/internal/service"
	"gtmdash/internal/stream"
)

const defaultStreamWriteTimeout = 5 * time.Second

// StreamHandler serves the live evaluation feed: a websocket per scenario
// that receives a fresh snapshot after every config mutation or explicit
// evaluation, so a dashboard re-renders reactively without polling.
type StreamHandler struct {
	Hub       *stream.Hub
	Evaluator *service.EvaluationService
	Config    config.StreamConfig
	Logger    *zap.Logger
}

func (h *StreamHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/scenarios/:id/stream", h.stream)
}

// @Summary Live snapshot stream for a scenario
// @Tags scenarios
// @Router /api/v1/scenarios/{id}/stream [get]
func (h *StreamHandler) stream(c *gin.Context) {
	if h.Hub == nil || h.Evaluator == nil {
		Error(c, http.StatusInternalServerError, "stream unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid scenario id", nil)
		return
	}

	// Evaluate before upgrading so a bad id is a plain HTTP error.
	snap, alerts, err := h.Evaluator.EvaluateScenario(c.Request.Context(), id, false, service.SnapshotSourceAPI)
	if err == service.ErrScenarioNotFound {
		Error(c, http.StatusNotFound, "scenario not found", nil)
		return
	}
	if err != nil {
		EngineError(c, err)
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Debug("websocket accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	updates, cancel := h.Hub.Subscribe(id)
	defer cancel()

	// The client sends nothing; CloseRead watches for disconnect.
	ctx := conn.CloseRead(c.Request.Context())

	first := stream.Update{ScenarioID: id, Snapshot: snap, Alerts: alerts}
	if err := h.write(ctx, conn, first); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case u := <-updates:
			if err := h.write(ctx, conn, u); err != nil {
				return
			}
		}
	}
}

func (h *StreamHandler) write(ctx context.Context, conn *websocket.Conn, u stream.Update) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return err
	}
	timeout := h.Config.WriteTimeout
	if timeout <= 0 {
		timeout = defaultStreamWriteTimeout
	}
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, payload)
}
