package httpmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# GTM Modeling Service

Interactive what-if modeling for sales-organization economics: deal value
resolution, upfront/deferred cash splits, multi-channel funnel aggregation,
commission pools, P&L, and unit economics.

## Notable Routes

- GET  /healthz
- GET  /readyz
- GET  /swagger/index.html
- POST /api/v1/evaluate
- POST /api/v1/evaluate/deal
- POST /api/v1/scenarios
- GET  /api/v1/scenarios
- GET  /api/v1/scenarios/{id}
- POST /api/v1/scenarios/{id}/evaluate
- GET  /api/v1/scenarios/{id}/snapshots
- GET  /api/v1/scenarios/{id}/alerts
- GET  /api/v1/scenarios/{id}/export
- POST /api/v1/scenarios/import
- GET  /api/v1/scenarios/{id}/stream (websocket)
- GET  /api/v1/settings/switches

## Auth

All /api/* routes require a Bearer token unless GTM_AUTH_DISABLED=true.
Health endpoints are public.
`)
	})
}
