package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeboro/jeboro-api/internal/dto"
	"github.com/jeboro/jeboro-api/internal/service"
	appErrors "github.com/jeboro/jeboro-api/pkg/errors"
	"github.com/jeboro/jeboro-api/pkg/response"
)

// PaymentHandler wires HTTP endpoints to the payment service.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler creates a new handler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// Confirm godoc
// @Summary Confirm a payment
// @Description Confirms a gateway payment and records the outcome.
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body dto.ConfirmPaymentRequest true "Payment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 402 {object} response.Envelope
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrAuthenticationRequired)
		return
	}

	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	res, err := h.service.Confirm(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
