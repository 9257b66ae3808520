package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	subscriptionUsecases "readora/internal/application/subscription/usecases"
	"readora/internal/interfaces/http/middleware"
	"readora/internal/shared/utils"
)

type SubscriptionHandler struct {
	getSubscriptionUC  *subscriptionUsecases.GetSubscriptionUseCase
	billingEnvironment string
}

func NewSubscriptionHandler(
	getSubscriptionUC *subscriptionUsecases.GetSubscriptionUseCase,
	billingEnvironment string,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		getSubscriptionUC:  getSubscriptionUC,
		billingEnvironment: billingEnvironment,
	}
}

type subscriptionStatusResponse struct {
	HasSubscription   bool       `json:"has_subscription"`
	PlanTier          string     `json:"plan_tier,omitempty"`
	PlanName          string     `json:"plan_name,omitempty"`
	Status            string     `json:"status,omitempty"`
	SessionsRemaining int        `json:"sessions_remaining"`
	TotalSessions     int        `json:"total_sessions"`
	ResetDate         *time.Time `json:"reset_date,omitempty"`
	CanStartSession   bool       `json:"can_start_session"`
	PortalURL         string     `json:"portal_url"`
}

// GetStatus returns the caller's entitlement snapshot for the paywall UI.
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	userID := middleware.UserID(c)

	result, err := h.getSubscriptionUC.Execute(c.Request.Context(), subscriptionUsecases.GetSubscriptionQuery{
		UserID: userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	response := subscriptionStatusResponse{
		HasSubscription:   result.HasSubscription,
		PlanTier:          result.PlanTier,
		PlanName:          result.PlanName,
		Status:            result.Status,
		SessionsRemaining: result.SessionsRemaining,
		TotalSessions:     result.TotalSessions,
		CanStartSession:   result.CanStartSession,
		PortalURL:         subscriptionUsecases.PortalBaseURL(h.billingEnvironment),
	}
	if result.HasSubscription && !result.ResetDate.IsZero() {
		resetDate := result.ResetDate
		response.ResetDate = &resetDate
	}

	utils.SuccessResponse(c, http.StatusOK, "", response)
}
