package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"readora/internal/domain/billing"
	"readora/internal/domain/subscription"
	vo "readora/internal/domain/subscription/valueobjects"
	"readora/internal/infrastructure/paddle"
	"readora/internal/infrastructure/persistence/models"
	"readora/internal/infrastructure/repository"
	shareddb "readora/internal/shared/db"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

// fakeSubscriptionRepo is an in-memory subscription.Repository keyed by user ID.
type fakeSubscriptionRepo struct {
	rows map[string]*subscription.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{rows: make(map[string]*subscription.Subscription)}
}

func (f *fakeSubscriptionRepo) GetByUserID(_ context.Context, userID string) (*subscription.Subscription, error) {
	return f.rows[userID], nil
}

func (f *fakeSubscriptionRepo) UpsertOnProvision(_ context.Context, sub *subscription.Subscription) error {
	f.rows[sub.UserID()] = sub
	return nil
}

func (f *fakeSubscriptionRepo) UpdatePlan(_ context.Context, userID string, tier vo.PlanTier, totalSessions int, externalID string) error {
	current, ok := f.rows[userID]
	if !ok {
		return subscription.ErrNotFound
	}
	if externalID == "" {
		externalID = current.ExternalID()
	}
	updated, err := subscription.ReconstructSubscription(
		1, userID, externalID, tier,
		current.SessionsRemaining(), totalSessions,
		current.Status(), current.ResetDate(), current.CreatedAt(), time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	f.rows[userID] = updated
	return nil
}

func (f *fakeSubscriptionRepo) UpdateStatus(_ context.Context, userID string, status vo.SubscriptionStatus) error {
	current, ok := f.rows[userID]
	if !ok {
		return subscription.ErrNotFound
	}
	updated, err := subscription.ReconstructSubscription(
		1, userID, current.ExternalID(), current.PlanTier(),
		current.SessionsRemaining(), current.TotalSessions(),
		status, current.ResetDate(), current.CreatedAt(), time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	f.rows[userID] = updated
	return nil
}

func (f *fakeSubscriptionRepo) TryDecrementSessions(_ context.Context, userID string) (subscription.DecrementResult, error) {
	current, ok := f.rows[userID]
	if !ok {
		return subscription.DecrementAbsent, nil
	}
	if !current.CanConsumeSession() {
		return subscription.DecrementInsufficient, nil
	}
	updated, err := subscription.ReconstructSubscription(
		1, userID, current.ExternalID(), current.PlanTier(),
		current.SessionsRemaining()-1, current.TotalSessions(),
		current.Status(), current.ResetDate(), current.CreatedAt(), time.Now().UTC(),
	)
	if err != nil {
		return subscription.DecrementInsufficient, err
	}
	f.rows[userID] = updated
	return subscription.DecrementSuccess, nil
}

func (f *fakeSubscriptionRepo) ResetIfDue(_ context.Context, userID string, now time.Time) (bool, error) {
	current, ok := f.rows[userID]
	if !ok || !current.IsResetDue(now) {
		return false, nil
	}
	updated, err := subscription.ReconstructSubscription(
		1, userID, current.ExternalID(), current.PlanTier(),
		current.TotalSessions(), current.TotalSessions(),
		current.Status(), subscription.NextResetDate(now), current.CreatedAt(), now,
	)
	if err != nil {
		return false, err
	}
	f.rows[userID] = updated
	return true, nil
}

func (f *fakeSubscriptionRepo) ListUserIDsDueForReset(_ context.Context, now time.Time, limit int) ([]string, error) {
	var due []string
	for userID, sub := range f.rows {
		if sub.IsResetDue(now) {
			due = append(due, userID)
		}
	}
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// fakeWebhookEventRepo records event IDs in memory.
type fakeWebhookEventRepo struct {
	seen map[string]bool
}

func newFakeWebhookEventRepo() *fakeWebhookEventRepo {
	return &fakeWebhookEventRepo{seen: make(map[string]bool)}
}

func (f *fakeWebhookEventRepo) RecordOnce(_ context.Context, event billing.WebhookEvent) (bool, error) {
	if f.seen[event.EventID] {
		return true, nil
	}
	f.seen[event.EventID] = true
	return false, nil
}

// passthroughTxRunner runs the function directly; the in-memory fakes have no
// transactions to coordinate.
type passthroughTxRunner struct{}

func (passthroughTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testCatalog(t *testing.T) *subscription.Catalog {
	t.Helper()

	catalog, err := subscription.NewCatalog(map[vo.PlanTier]subscription.PlanConfig{
		vo.TierBasic: {Name: "Basic", Sessions: 12, PriceUSD: 20, PriceID: "pri_basic"},
		vo.TierCore:  {Name: "Core", Sessions: 20, PriceUSD: 30, PriceID: "pri_core"},
		vo.TierPro:   {Name: "Pro", Sessions: 30, PriceUSD: 50, PriceID: "pri_pro"},
	})
	require.NoError(t, err)
	return catalog
}

func newTestDispatcher(t *testing.T) (*HandleWebhookEventUseCase, *fakeSubscriptionRepo, *fakeWebhookEventRepo) {
	t.Helper()

	subRepo := newFakeSubscriptionRepo()
	eventRepo := newFakeWebhookEventRepo()
	catalog := testCatalog(t)
	log := logger.NewLogger()
	invalidator := NoopInvalidator{}

	dispatcher := NewHandleWebhookEventUseCase(
		eventRepo,
		subRepo,
		NewProvisionSubscriptionUseCase(subRepo, catalog, invalidator, log),
		NewChangePlanUseCase(subRepo, catalog, invalidator, log),
		NewUpdateSubscriptionStatusUseCase(subRepo, invalidator, nil, log),
		nil,
		passthroughTxRunner{},
		log,
	)
	return dispatcher, subRepo, eventRepo
}

func activationEvent(eventID, userID, priceID string) *paddle.Event {
	return &paddle.Event{
		EventID:    eventID,
		EventType:  paddle.EventSubscriptionActivated,
		OccurredAt: time.Now().UTC(),
		Data: paddle.EventData{
			SubscriptionID: "sub_ext_1",
			UserID:         userID,
			Status:         "active",
			PriceID:        priceID,
		},
	}
}

func TestHandleWebhookEvent_Provisioning(t *testing.T) {
	dispatcher, subRepo, _ := newTestDispatcher(t)
	ctx := context.Background()

	require.NoError(t, dispatcher.Execute(ctx, activationEvent("evt_1", "user_1", "pri_core")))

	sub := subRepo.rows["user_1"]
	require.NotNil(t, sub)
	assert.Equal(t, vo.TierCore, sub.PlanTier())
	assert.Equal(t, 20, sub.SessionsRemaining())
	assert.Equal(t, 20, sub.TotalSessions())
	assert.Equal(t, vo.StatusActive, sub.Status())
}

func TestHandleWebhookEvent_DuplicateEventSkipsDispatch(t *testing.T) {
	dispatcher, subRepo, _ := newTestDispatcher(t)
	ctx := context.Background()

	require.NoError(t, dispatcher.Execute(ctx, activationEvent("evt_dup", "user_1", "pri_basic")))

	// Burn sessions, then replay the same event ID: dedup must keep the
	// handler from re-provisioning.
	for i := 0; i < 5; i++ {
		result, err := subRepo.TryDecrementSessions(ctx, "user_1")
		require.NoError(t, err)
		require.Equal(t, subscription.DecrementSuccess, result)
	}

	require.NoError(t, dispatcher.Execute(ctx, activationEvent("evt_dup", "user_1", "pri_basic")))
	assert.Equal(t, 7, subRepo.rows["user_1"].SessionsRemaining())
}

func TestHandleWebhookEvent_ReplayWithFreshEventIDIsIdempotent(t *testing.T) {
	dispatcher, subRepo, _ := newTestDispatcher(t)
	ctx := context.Background()

	// Same payload delivered twice under different event IDs (dedup cannot
	// help): the upsert still converges on one identical row.
	require.NoError(t, dispatcher.Execute(ctx, activationEvent("evt_a", "user_1", "pri_pro")))
	require.NoError(t, dispatcher.Execute(ctx, activationEvent("evt_b", "user_1", "pri_pro")))

	sub := subRepo.rows["user_1"]
	assert.Equal(t, vo.TierPro, sub.PlanTier())
	assert.Equal(t, 30, sub.SessionsRemaining())
}

func TestHandleWebhookEvent_PlanChangeKeepsRemaining(t *testing.T) {
	dispatcher, subRepo, _ := newTestDispatcher(t)
	ctx := context.Background()

	require.NoError(t, dispatcher.Execute(ctx, activationEvent("evt_1", "user_1", "pri_basic")))
	for i := 0; i < 9; i++ {
		result, err := subRepo.TryDecrementSessions(ctx, "user_1")
		require.NoError(t, err)
		require.Equal(t, subscription.DecrementSuccess, result)
	}

	update := &paddle.Event{
		EventID:   "evt_2",
		EventType: paddle.EventSubscriptionUpdated,
		Data: paddle.EventData{
			SubscriptionID: "sub_ext_1",
			UserID:         "user_1",
			PriceID:        "pri_pro",
		},
	}
	require.NoError(t, dispatcher.Execute(ctx, update))

	sub := subRepo.rows["user_1"]
	assert.Equal(t, vo.TierPro, sub.PlanTier())
	assert.Equal(t, 30, sub.TotalSessions())
	assert.Equal(t, 3, sub.SessionsRemaining())
}

func TestHandleWebhookEvent_StatusFamily(t *testing.T) {
	dispatcher, subRepo, _ := newTestDispatcher(t)
	ctx := context.Background()

	require.NoError(t, dispatcher.Execute(ctx, activationEvent("evt_1", "user_1", "pri_core")))

	cancel := &paddle.Event{
		EventID:   "evt_2",
		EventType: paddle.EventSubscriptionCanceled,
		Data: paddle.EventData{
			UserID: "user_1",
			Status: "canceled",
		},
	}
	require.NoError(t, dispatcher.Execute(ctx, cancel))
	assert.Equal(t, vo.StatusCancelled, subRepo.rows["user_1"].Status())

	// Sparse payload: status derived from the event type.
	resume := &paddle.Event{
		EventID:   "evt_3",
		EventType: paddle.EventSubscriptionResumed,
		Data:      paddle.EventData{UserID: "user_1"},
	}
	require.NoError(t, dispatcher.Execute(ctx, resume))
	assert.Equal(t, vo.StatusActive, subRepo.rows["user_1"].Status())
}

func TestHandleWebhookEvent_ErrorMapping(t *testing.T) {
	dispatcher, _, _ := newTestDispatcher(t)
	ctx := context.Background()

	t.Run("missing buyer identity is a validation error", func(t *testing.T) {
		err := dispatcher.Execute(ctx, activationEvent("evt_1", "", "pri_core"))
		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("unknown price ID is a validation error", func(t *testing.T) {
		err := dispatcher.Execute(ctx, activationEvent("evt_2", "user_1", "pri_mystery"))
		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("update for unknown user is a validation error", func(t *testing.T) {
		update := &paddle.Event{
			EventID:   "evt_3",
			EventType: paddle.EventSubscriptionUpdated,
			Data:      paddle.EventData{UserID: "user_ghost", PriceID: "pri_core"},
		}
		err := dispatcher.Execute(ctx, update)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("unknown event type is acknowledged", func(t *testing.T) {
		unknown := &paddle.Event{
			EventID:   "evt_4",
			EventType: "subscription.trialing",
		}
		assert.NoError(t, dispatcher.Execute(ctx, unknown))
	})

	t.Run("informational events never mutate state", func(t *testing.T) {
		dispatcher, subRepo, _ := newTestDispatcher(t)
		require.NoError(t, dispatcher.Execute(ctx, activationEvent("evt_5", "user_1", "pri_basic")))

		payment := &paddle.Event{
			EventID:   "evt_6",
			EventType: paddle.EventTransactionFailed,
			Data:      paddle.EventData{UserID: "user_1"},
		}
		require.NoError(t, dispatcher.Execute(ctx, payment))
		assert.Equal(t, vo.StatusActive, subRepo.rows["user_1"].Status())
		assert.Equal(t, 12, subRepo.rows["user_1"].SessionsRemaining())
	})
}

// unreliableSubscriptionRepo fails a number of upserts before recovering,
// standing in for a transiently unavailable store.
type unreliableSubscriptionRepo struct {
	subscription.Repository
	failures int
}

func (r *unreliableSubscriptionRepo) UpsertOnProvision(ctx context.Context, sub *subscription.Subscription) error {
	if r.failures > 0 {
		r.failures--
		return fmt.Errorf("storage briefly unavailable")
	}
	return r.Repository.UpsertOnProvision(ctx, sub)
}

func TestHandleWebhookEvent_RetryAfterStoreFailureStillApplies(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.SubscriptionModel{}, &models.WebhookEventModel{}))

	// The in-memory database lives on a single connection.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	log := logger.NewLogger()
	baseRepo := repository.NewSubscriptionRepository(conn, log)
	subRepo := &unreliableSubscriptionRepo{Repository: baseRepo, failures: 1}
	eventRepo := repository.NewWebhookEventRepository(conn, log)
	catalog := testCatalog(t)
	invalidator := NoopInvalidator{}

	dispatcher := NewHandleWebhookEventUseCase(
		eventRepo,
		subRepo,
		NewProvisionSubscriptionUseCase(subRepo, catalog, invalidator, log),
		NewChangePlanUseCase(subRepo, catalog, invalidator, log),
		NewUpdateSubscriptionStatusUseCase(subRepo, invalidator, nil, log),
		nil,
		shareddb.NewTransactionManager(conn),
		log,
	)

	ctx := context.Background()
	event := activationEvent("evt_retry", "user_1", "pri_core")

	// First delivery hits the store failure; the endpoint answers 500 and the
	// rollback must also discard the dedup row.
	err = dispatcher.Execute(ctx, event)
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeInternal, appErr.Type)

	// The processor redelivers the identical event; it must still apply
	// rather than being swallowed as a duplicate.
	require.NoError(t, dispatcher.Execute(ctx, event))

	sub, err := baseRepo.GetByUserID(ctx, "user_1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, vo.TierCore, sub.PlanTier())
	assert.Equal(t, 20, sub.SessionsRemaining())
}
