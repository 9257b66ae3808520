package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	billingUsecases "readora/internal/application/billing/usecases"
	"readora/internal/domain/subscription"
	vo "readora/internal/domain/subscription/valueobjects"
	"readora/internal/infrastructure/paddle"
	"readora/internal/infrastructure/persistence/models"
	"readora/internal/infrastructure/repository"
	shareddb "readora/internal/shared/db"
	"readora/internal/shared/logger"
)

const webhookTestSecret = "whsec_test_secret"

type webhookFixture struct {
	engine           *gin.Engine
	subscriptionRepo subscription.Repository
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SubscriptionModel{}, &models.WebhookEventModel{}))

	// The in-memory database lives on a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	log := logger.NewLogger()
	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	webhookEventRepo := repository.NewWebhookEventRepository(db, log)

	catalog, err := subscription.NewCatalog(map[vo.PlanTier]subscription.PlanConfig{
		vo.TierBasic: {Name: "Basic", Sessions: 12, PriceUSD: 20, PriceID: "pri_basic"},
		vo.TierCore:  {Name: "Core", Sessions: 20, PriceUSD: 30, PriceID: "pri_core"},
	})
	require.NoError(t, err)

	invalidator := billingUsecases.NoopInvalidator{}
	provisionUC := billingUsecases.NewProvisionSubscriptionUseCase(subscriptionRepo, catalog, invalidator, log)
	changePlanUC := billingUsecases.NewChangePlanUseCase(subscriptionRepo, catalog, invalidator, log)
	updateStatusUC := billingUsecases.NewUpdateSubscriptionStatusUseCase(subscriptionRepo, invalidator, nil, log)
	handleEventUC := billingUsecases.NewHandleWebhookEventUseCase(
		webhookEventRepo, subscriptionRepo,
		provisionUC, changePlanUC, updateStatusUC,
		nil, shareddb.NewTransactionManager(db), log,
	)

	handler := NewWebhookHandler(paddle.NewVerifier(webhookTestSecret, 5*time.Minute), handleEventUC, log)

	engine := gin.New()
	engine.POST("/webhooks/paddle", handler.HandleWebhook)

	return &webhookFixture{
		engine:           engine,
		subscriptionRepo: subscriptionRepo,
	}
}

func (f *webhookFixture) deliver(body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paddle", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(paddle.SignatureHeader, signature)
	}
	recorder := httptest.NewRecorder()
	f.engine.ServeHTTP(recorder, req)
	return recorder
}

func signedBody(body []byte) string {
	return paddle.Sign(webhookTestSecret, time.Now(), body)
}

func activationPayload(eventID, userID, priceID string) []byte {
	return []byte(fmt.Sprintf(`{
		"event_id": %q,
		"event_type": "subscription.activated",
		"occurred_at": "2026-08-01T10:00:00Z",
		"data": {
			"id": "sub_999",
			"status": "active",
			"custom_data": {"user_id": %q},
			"items": [{"price": {"id": %q}}]
		}
	}`, eventID, userID, priceID))
}

func TestWebhookHandler_RejectsInvalidSignature(t *testing.T) {
	f := newWebhookFixture(t)
	body := activationPayload("evt_1", "user_1", "pri_core")

	assert.Equal(t, http.StatusUnauthorized, f.deliver(body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.deliver(body, "ts=123;h1=deadbeef").Code)
	assert.Equal(t, http.StatusUnauthorized,
		f.deliver(body, paddle.Sign("whsec_wrong", time.Now(), body)).Code)

	// Nothing was provisioned from the rejected deliveries.
	sub, err := f.subscriptionRepo.GetByUserID(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Nil(t, sub)
}

func TestWebhookHandler_ProvisionsOnActivation(t *testing.T) {
	f := newWebhookFixture(t)
	body := activationPayload("evt_1", "user_1", "pri_core")

	recorder := f.deliver(body, signedBody(body))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"received":true`)

	sub, err := f.subscriptionRepo.GetByUserID(context.Background(), "user_1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, vo.TierCore, sub.PlanTier())
	assert.Equal(t, 20, sub.SessionsRemaining())
	assert.Equal(t, vo.StatusActive, sub.Status())
}

func TestWebhookHandler_DuplicateDeliveryAcked(t *testing.T) {
	f := newWebhookFixture(t)
	body := activationPayload("evt_1", "user_1", "pri_core")

	require.Equal(t, http.StatusOK, f.deliver(body, signedBody(body)).Code)

	// Redelivery of the same event ID acks without reprocessing.
	assert.Equal(t, http.StatusOK, f.deliver(body, signedBody(body)).Code)
}

func TestWebhookHandler_MalformedPayload(t *testing.T) {
	f := newWebhookFixture(t)
	body := []byte(`{"event_id": "evt_1"`)

	assert.Equal(t, http.StatusBadRequest, f.deliver(body, signedBody(body)).Code)
}

func TestWebhookHandler_UnusablePayloadIsBadRequest(t *testing.T) {
	f := newWebhookFixture(t)
	// Activation without buyer identity: verified and well-formed, but the
	// processor should not retry it.
	body := activationPayload("evt_1", "", "pri_core")

	assert.Equal(t, http.StatusBadRequest, f.deliver(body, signedBody(body)).Code)
}

func TestWebhookHandler_UnknownEventTypeAcked(t *testing.T) {
	f := newWebhookFixture(t)
	body := []byte(`{
		"event_id": "evt_1",
		"event_type": "address.created",
		"occurred_at": "2026-08-01T10:00:00Z",
		"data": {}
	}`)

	assert.Equal(t, http.StatusOK, f.deliver(body, signedBody(body)).Code)
}
