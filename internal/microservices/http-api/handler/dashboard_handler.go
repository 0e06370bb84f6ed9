package handler

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc     service.DashboardService
	timeout time.Duration
}

func NewDashboardHandler(svc service.DashboardService, timeout time.Duration) *DashboardHandler {
	return &DashboardHandler{svc: svc, timeout: timeout}
}

// GET /api/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	summary, err := h.svc.Summary(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
