package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	billingUsecases "readora/internal/application/billing/usecases"
	"readora/internal/infrastructure/paddle"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

// WebhookHandler receives payment processor webhooks. Signature verification
// happens before the body is parsed; an unverified payload is never looked at.
type WebhookHandler struct {
	verifier      *paddle.Verifier
	handleEventUC *billingUsecases.HandleWebhookEventUseCase
	logger        logger.Interface
}

func NewWebhookHandler(
	verifier *paddle.Verifier,
	handleEventUC *billingUsecases.HandleWebhookEventUseCase,
	logger logger.Interface,
) *WebhookHandler {
	return &WebhookHandler{
		verifier:      verifier,
		handleEventUC: handleEventUC,
		logger:        logger,
	}
}

// HandleWebhook processes one webhook delivery. The response code is the
// retry contract with the processor: 2xx acknowledges, 4xx drops the event as
// unusable, 5xx asks for redelivery.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	signatureHeader := c.GetHeader(paddle.SignatureHeader)
	if err := h.verifier.Verify(signatureHeader, body); err != nil {
		h.logger.Warnw("rejected webhook with invalid signature",
			"client_ip", c.ClientIP(),
			"error", err,
		)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	event, err := paddle.ParseEvent(body)
	if err != nil {
		h.logger.Warnw("rejected malformed webhook payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	if err := h.handleEventUC.Execute(c.Request.Context(), event); err != nil {
		if appErr := apperrors.GetAppError(err); appErr != nil {
			h.logger.Warnw("webhook event not applied",
				"event_type", event.EventType,
				"event_id", event.EventID,
				"error", appErr.Message,
			)
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
