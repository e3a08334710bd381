package handler

import (
	"encoding/json"
	"io"

	billingapp "github.com/comanda/backend/internal/application/billing"
	"github.com/comanda/backend/internal/domain/subscription"
	"github.com/comanda/backend/internal/infrastructure/payment"
	"github.com/comanda/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SignatureHeader carries the webhook HMAC signature
const SignatureHeader = "X-Webhook-Signature"

// PaymentWebhookHandler receives payment confirmations from the
// payment collaborator. The endpoint sits outside the tenant
// middleware: the tenant is part of the signed payload.
type PaymentWebhookHandler struct {
	BaseHandler
	topup    *billingapp.TopupService
	plans    *billingapp.PlanService
	verifier *payment.WebhookVerifier
	logger   *zap.Logger
}

// NewPaymentWebhookHandler creates a new PaymentWebhookHandler
func NewPaymentWebhookHandler(topup *billingapp.TopupService, plans *billingapp.PlanService, verifier *payment.WebhookVerifier, logger *zap.Logger) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		topup:    topup,
		plans:    plans,
		verifier: verifier,
		logger:   logger,
	}
}

// WebhookEvent is the payload the payment collaborator delivers.
// OrderID accompanies top-up confirmations, Tier accompanies plan
// upgrade confirmations.
type WebhookEvent struct {
	EventID  string `json:"event_id"`
	Type     string `json:"type"`
	TenantID string `json:"tenant_id"`
	OrderID  string `json:"order_id"`
	Tier     string `json:"tier"`
}

// RegisterRoutes registers webhook routes
func (h *PaymentWebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/payment", h.HandlePayment)
}

// HandlePayment handles POST /webhooks/payment
func (h *PaymentWebhookHandler) HandlePayment(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	if !h.verifier.Verify(body, c.GetHeader(SignatureHeader)) {
		h.logger.Warn("webhook signature rejected",
			zap.String("request_id", getRequestID(c)))
		h.Unauthorized(c, dto.ErrCodeInvalidSign, "Webhook signature verification failed")
		return
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.BadRequest(c, "Invalid webhook payload")
		return
	}

	tenantID, err := uuid.Parse(event.TenantID)
	if err != nil {
		h.BadRequest(c, "Webhook tenant_id must be a UUID")
		return
	}

	switch event.Type {
	case "topup.confirmed":
		orderID, parseErr := uuid.Parse(event.OrderID)
		if parseErr != nil {
			h.BadRequest(c, "Webhook order_id must be a UUID")
			return
		}
		err = h.topup.Confirm(c.Request.Context(), tenantID, billingapp.TopupConfirmInput{
			EventID: event.EventID,
			OrderID: orderID,
		})
	case "upgrade.confirmed":
		err = h.plans.ConfirmUpgrade(c.Request.Context(), tenantID, billingapp.UpgradeConfirmInput{
			EventID: event.EventID,
			Tier:    subscription.PlanTier(event.Tier),
		})
	default:
		// unknown event types are acknowledged so the provider stops
		// retrying them
		h.logger.Info("ignoring unhandled webhook event type",
			zap.String("type", event.Type),
			zap.String("event_id", event.EventID))
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"received": true})
}
