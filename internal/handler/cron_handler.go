package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeboro/jeboro-api/internal/dto"
	"github.com/jeboro/jeboro-api/internal/service"
	"github.com/jeboro/jeboro-api/pkg/response"
)

// CronHandler exposes scheduler-driven maintenance endpoints.
type CronHandler struct {
	embargo *service.EmbargoService
}

// NewCronHandler creates a new handler.
func NewCronHandler(embargo *service.EmbargoService) *CronHandler {
	return &CronHandler{embargo: embargo}
}

// Sweep godoc
// @Summary Release expired embargoes
// @Description Flips exclusive reports whose embargo has lapsed to open publication. Idempotent.
// @Tags Cron
// @Produce json
// @Success 200 {object} dto.SweepResponse
// @Failure 401 {object} response.Envelope
// @Security CronAuth
// @Router /cron/embargo [get]
func (h *CronHandler) Sweep(c *gin.Context) {
	count, err := h.embargo.Sweep(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SweepResponse{Success: true, UpdatedCount: count})
}
