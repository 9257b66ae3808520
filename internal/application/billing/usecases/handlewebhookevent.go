package usecases

import (
	"context"
	"errors"
	"fmt"

	"readora/internal/domain/billing"
	"readora/internal/domain/subscription"
	"readora/internal/infrastructure/paddle"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

// PaymentNotifier sends payment-level notices. Best effort only.
type PaymentNotifier interface {
	SendPaymentFailedNotice(to, planName string) error
}

// TransactionRunner executes a function within a storage transaction.
// Satisfied by db.TransactionManager.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// HandleWebhookEventUseCase is the dispatcher behind the verified webhook
// endpoint: dedup first, then route by event family. Handlers stay
// structurally idempotent regardless of dedup, so a lost dedup row degrades
// to a harmless replay.
type HandleWebhookEventUseCase struct {
	webhookEventRepo billing.WebhookEventRepository
	subscriptionRepo subscription.Repository
	provisionUC      *ProvisionSubscriptionUseCase
	changePlanUC     *ChangePlanUseCase
	updateStatusUC   *UpdateSubscriptionStatusUseCase
	paymentNotifier  PaymentNotifier
	txRunner         TransactionRunner
	logger           logger.Interface
}

func NewHandleWebhookEventUseCase(
	webhookEventRepo billing.WebhookEventRepository,
	subscriptionRepo subscription.Repository,
	provisionUC *ProvisionSubscriptionUseCase,
	changePlanUC *ChangePlanUseCase,
	updateStatusUC *UpdateSubscriptionStatusUseCase,
	paymentNotifier PaymentNotifier,
	txRunner TransactionRunner,
	logger logger.Interface,
) *HandleWebhookEventUseCase {
	return &HandleWebhookEventUseCase{
		webhookEventRepo: webhookEventRepo,
		subscriptionRepo: subscriptionRepo,
		provisionUC:      provisionUC,
		changePlanUC:     changePlanUC,
		updateStatusUC:   updateStatusUC,
		paymentNotifier:  paymentNotifier,
		txRunner:         txRunner,
		logger:           logger,
	}
}

// Execute processes one verified event. The error taxonomy drives the HTTP
// response: validation errors mean the payload is unusable (400), internal
// errors mean the store failed and the processor should retry (500), nil
// means acknowledged (200) — including duplicates and unknown event types.
//
// The dedup row and the handler's writes share one transaction: a failed
// dispatch must take its dedup row down with it, or the processor's retry of
// the same event ID would be acknowledged as a duplicate without ever having
// been applied.
func (uc *HandleWebhookEventUseCase) Execute(ctx context.Context, event *paddle.Event) error {
	if event.EventID == "" {
		return uc.dispatch(ctx, event)
	}

	return uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		duplicate, err := uc.webhookEventRepo.RecordOnce(txCtx, billing.WebhookEvent{
			EventID:    event.EventID,
			EventType:  event.EventType,
			OccurredAt: event.OccurredAt,
		})
		if err != nil {
			return apperrors.NewInternalError("failed to record webhook event", err.Error())
		}
		if duplicate {
			return nil
		}
		return uc.dispatch(txCtx, event)
	})
}

func (uc *HandleWebhookEventUseCase) dispatch(ctx context.Context, event *paddle.Event) error {
	switch event.Family() {
	case paddle.FamilyProvisioning:
		return uc.mapHandlerError(uc.provisionUC.Execute(ctx, ProvisionSubscriptionCommand{
			UserID:     event.Data.UserID,
			ExternalID: event.Data.SubscriptionID,
			PriceID:    event.Data.PriceID,
		}))

	case paddle.FamilyUpdate:
		return uc.mapHandlerError(uc.changePlanUC.Execute(ctx, ChangePlanCommand{
			UserID:     event.Data.UserID,
			ExternalID: event.Data.SubscriptionID,
			PriceID:    event.Data.PriceID,
		}))

	case paddle.FamilyStatus:
		return uc.mapHandlerError(uc.updateStatusUC.Execute(ctx, UpdateSubscriptionStatusCommand{
			UserID:    event.Data.UserID,
			RawStatus: statusForEvent(event),
			Email:     event.Data.Email,
		}))

	case paddle.FamilyInformational:
		uc.handleInformational(ctx, event)
		return nil

	default:
		uc.logger.Infow("ignoring unknown webhook event type",
			"event_type", event.EventType,
			"event_id", event.EventID,
		)
		return nil
	}
}

// statusForEvent prefers the payload's status field and falls back to the
// status implied by the event type, so a sparse payload still lands on the
// right state.
func statusForEvent(event *paddle.Event) string {
	if event.Data.Status != "" {
		return event.Data.Status
	}
	switch event.EventType {
	case paddle.EventSubscriptionCanceled:
		return "canceled"
	case paddle.EventSubscriptionPastDue:
		return "past_due"
	case paddle.EventSubscriptionPaused:
		return "paused"
	case paddle.EventSubscriptionResumed:
		return "active"
	default:
		return ""
	}
}

// handleInformational logs payment-level events for audit. They never mutate
// subscription state; subscription events are the entitlement truth.
func (uc *HandleWebhookEventUseCase) handleInformational(ctx context.Context, event *paddle.Event) {
	uc.logger.Infow("payment event received",
		"event_type", event.EventType,
		"event_id", event.EventID,
		"user_id", event.Data.UserID,
	)

	if event.EventType != paddle.EventTransactionFailed || uc.paymentNotifier == nil || event.Data.Email == "" {
		return
	}

	planName := "current"
	if event.Data.UserID != "" {
		if sub, err := uc.subscriptionRepo.GetByUserID(ctx, event.Data.UserID); err == nil && sub != nil {
			planName = sub.PlanTier().String()
		}
	}
	if err := uc.paymentNotifier.SendPaymentFailedNotice(event.Data.Email, planName); err != nil {
		uc.logger.Warnw("failed to send payment failed notice", "error", err)
	}
}

// mapHandlerError translates domain errors into the transport taxonomy.
func (uc *HandleWebhookEventUseCase) mapHandlerError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, subscription.ErrMissingBuyerIdentity) {
		return apperrors.NewValidationError("event is missing buyer identity")
	}
	if errors.Is(err, subscription.ErrUnknownPriceID) {
		return apperrors.NewValidationError("event references an unknown price")
	}
	if errors.Is(err, subscription.ErrNotFound) {
		// An update/status event for a user we never provisioned: unusable
		// payload rather than a store failure.
		return apperrors.NewValidationError("no subscription exists for this user")
	}
	return apperrors.NewInternalError("failed to apply webhook event", fmt.Sprintf("%v", err))
}
