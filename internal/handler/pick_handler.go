package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeboro/jeboro-api/internal/dto"
	"github.com/jeboro/jeboro-api/internal/service"
	appErrors "github.com/jeboro/jeboro-api/pkg/errors"
	"github.com/jeboro/jeboro-api/pkg/response"
)

// PickHandler wires HTTP endpoints to the pick service.
type PickHandler struct {
	service *service.PickService
}

// NewPickHandler creates a new handler.
func NewPickHandler(svc *service.PickService) *PickHandler {
	return &PickHandler{service: svc}
}

// Create godoc
// @Summary Claim a report
// @Description Reporter claims an exclusive report. At most one claim per report.
// @Tags Picks
// @Accept json
// @Produce json
// @Param payload body dto.CreatePickRequest true "Pick payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /picks [post]
func (h *PickHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrAuthenticationRequired)
		return
	}

	var req dto.CreatePickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pick payload"))
		return
	}

	pick, err := h.service.Create(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.PickResponse{
		ID:         pick.ID,
		ReportID:   pick.ReportID,
		ReporterID: pick.ReporterID,
		Exclusive:  pick.Exclusive,
		CreatedAt:  pick.CreatedAt,
	})
}

// ListByReport godoc
// @Summary List picks for a report
// @Tags Picks
// @Produce json
// @Param reportId query string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /picks [get]
func (h *PickHandler) ListByReport(c *gin.Context) {
	reportID := c.Query("reportId")
	if reportID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "reportId is required"))
		return
	}

	picks, err := h.service.ListByReport(c.Request.Context(), reportID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, picks, nil)
}
