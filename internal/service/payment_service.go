package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jeboro/jeboro-api/internal/dto"
	"github.com/jeboro/jeboro-api/internal/models"
	appErrors "github.com/jeboro/jeboro-api/pkg/errors"
)

// PaymentGateway confirms payments with the external provider.
type PaymentGateway interface {
	Confirm(ctx context.Context, paymentKey, orderID string, amount int64) error
}

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
}

// PaymentService confirms and records supporter payments.
type PaymentService struct {
	repo      paymentRepository
	gateway   PaymentGateway
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService instance.
func NewPaymentService(repo paymentRepository, gateway PaymentGateway, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PaymentService{repo: repo, gateway: gateway, validator: validate, logger: logger}
}

// Confirm verifies the payment with the gateway and persists the outcome.
func (s *PaymentService) Confirm(ctx context.Context, req dto.ConfirmPaymentRequest, userID string) (*dto.ConfirmPaymentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid payment payload")
	}

	payment := &models.Payment{
		OrderID:    req.OrderID,
		PaymentKey: req.PaymentKey,
		Amount:     req.Amount,
		UserID:     userID,
	}

	if err := s.gateway.Confirm(ctx, req.PaymentKey, req.OrderID, req.Amount); err != nil {
		payment.Status = models.PaymentFailed
		if storeErr := s.repo.Create(ctx, payment); storeErr != nil {
			s.logger.Warn("failed to record rejected payment", zap.Error(storeErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPaymentRejected.Code, appErrors.ErrPaymentRejected.Status, "payment confirmation failed")
	}

	payment.Status = models.PaymentConfirmed
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	return &dto.ConfirmPaymentResponse{
		Success:    true,
		Message:    "payment confirmed",
		PaymentKey: req.PaymentKey,
		OrderID:    req.OrderID,
		Amount:     req.Amount,
	}, nil
}

// TossGateway confirms payments against the Toss-compatible HTTP API. With
// Sandbox set, confirmation short-circuits to success so local and staging
// environments need no gateway credentials.
type TossGateway struct {
	client     *http.Client
	confirmURL string
	secretKey  string
	sandbox    bool
}

// NewTossGateway constructs the gateway client.
func NewTossGateway(confirmURL, secretKey string, sandbox bool, timeout time.Duration) *TossGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TossGateway{
		client:     &http.Client{Timeout: timeout},
		confirmURL: confirmURL,
		secretKey:  secretKey,
		sandbox:    sandbox,
	}
}

// Confirm posts the confirmation request to the gateway.
func (g *TossGateway) Confirm(ctx context.Context, paymentKey, orderID string, amount int64) error {
	if g.sandbox {
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"paymentKey": paymentKey,
		"orderId":    orderID,
		"amount":     amount,
	})
	if err != nil {
		return fmt.Errorf("marshal confirm payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.confirmURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build confirm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(g.secretKey+":")))

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("confirm payment: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway rejected payment: status %d", resp.StatusCode)
	}
	return nil
}
