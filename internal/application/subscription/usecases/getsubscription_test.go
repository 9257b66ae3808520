package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readora/internal/domain/subscription"
	vo "readora/internal/domain/subscription/valueobjects"
	"readora/internal/infrastructure/cache"
	"readora/internal/shared/logger"
)

type fakeSubscriptionRepo struct {
	subs       map[string]*subscription.Subscription
	getCalls   int
	resetCalls int
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[string]*subscription.Subscription)}
}

func (f *fakeSubscriptionRepo) put(t *testing.T, userID string, tier vo.PlanTier, remaining, total int, status vo.SubscriptionStatus, resetDate time.Time) {
	t.Helper()
	sub, err := subscription.ReconstructSubscription(
		uint(len(f.subs)+1), userID, "sub_"+userID, tier,
		remaining, total, status, resetDate,
		time.Now().UTC().AddDate(0, -1, 0), time.Now().UTC(),
	)
	require.NoError(t, err)
	f.subs[userID] = sub
}

func (f *fakeSubscriptionRepo) GetByUserID(_ context.Context, userID string) (*subscription.Subscription, error) {
	f.getCalls++
	return f.subs[userID], nil
}
func (f *fakeSubscriptionRepo) UpsertOnProvision(context.Context, *subscription.Subscription) error {
	return nil
}
func (f *fakeSubscriptionRepo) UpdatePlan(context.Context, string, vo.PlanTier, int, string) error {
	return nil
}
func (f *fakeSubscriptionRepo) UpdateStatus(context.Context, string, vo.SubscriptionStatus) error {
	return nil
}
func (f *fakeSubscriptionRepo) TryDecrementSessions(context.Context, string) (subscription.DecrementResult, error) {
	return subscription.DecrementAbsent, nil
}

func (f *fakeSubscriptionRepo) ResetIfDue(_ context.Context, userID string, now time.Time) (bool, error) {
	f.resetCalls++
	sub, ok := f.subs[userID]
	if !ok || !sub.IsResetDue(now) {
		return false, nil
	}
	restored, err := subscription.ReconstructSubscription(
		sub.ID(), sub.UserID(), sub.ExternalID(), sub.PlanTier(),
		sub.TotalSessions(), sub.TotalSessions(), sub.Status(),
		subscription.NextResetDate(now), sub.CreatedAt(), now,
	)
	if err != nil {
		return false, err
	}
	f.subs[userID] = restored
	return true, nil
}

func (f *fakeSubscriptionRepo) ListUserIDsDueForReset(_ context.Context, now time.Time, limit int) ([]string, error) {
	var due []string
	for userID, sub := range f.subs {
		if sub.IsResetDue(now) {
			due = append(due, userID)
		}
		if len(due) >= limit {
			break
		}
	}
	return due, nil
}

type fakeEntitlementCache struct {
	entries map[string]*cache.CachedEntitlement
	sets    int
	nulls   int
}

func newFakeEntitlementCache() *fakeEntitlementCache {
	return &fakeEntitlementCache{entries: make(map[string]*cache.CachedEntitlement)}
}

func (f *fakeEntitlementCache) Get(_ context.Context, userID string) (*cache.CachedEntitlement, error) {
	return f.entries[userID], nil
}
func (f *fakeEntitlementCache) Set(_ context.Context, userID string, entitlement *cache.CachedEntitlement) error {
	f.sets++
	f.entries[userID] = entitlement
	return nil
}
func (f *fakeEntitlementCache) Invalidate(_ context.Context, userID string) error {
	delete(f.entries, userID)
	return nil
}
func (f *fakeEntitlementCache) SetNullMarker(_ context.Context, userID string) error {
	f.nulls++
	f.entries[userID] = &cache.CachedEntitlement{NotFound: true}
	return nil
}

type recordingInvalidator struct {
	invalidated []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userID string) {
	r.invalidated = append(r.invalidated, userID)
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

func TestGetSubscription_CacheMissFallsThroughAndRefills(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	entCache := newFakeEntitlementCache()
	uc := NewGetSubscriptionUseCase(repo, entCache, testCatalog(t), logger.NewLogger())
	ctx := context.Background()

	resetDate := time.Now().UTC().AddDate(0, 0, 12)
	repo.put(t, "user_1", vo.TierCore, 7, 20, vo.StatusActive, resetDate)

	result, err := uc.Execute(ctx, GetSubscriptionQuery{UserID: "user_1"})
	require.NoError(t, err)

	assert.True(t, result.HasSubscription)
	assert.Equal(t, "core", result.PlanTier)
	assert.Equal(t, "Core", result.PlanName)
	assert.Equal(t, 7, result.SessionsRemaining)
	assert.Equal(t, 20, result.TotalSessions)
	assert.True(t, result.CanStartSession)
	assert.Equal(t, 1, entCache.sets)

	// Second read is served from the cache.
	again, err := uc.Execute(ctx, GetSubscriptionQuery{UserID: "user_1"})
	require.NoError(t, err)
	assert.Equal(t, result.SessionsRemaining, again.SessionsRemaining)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetSubscription_NoSubscriptionSetsNullMarker(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	entCache := newFakeEntitlementCache()
	uc := NewGetSubscriptionUseCase(repo, entCache, testCatalog(t), logger.NewLogger())
	ctx := context.Background()

	result, err := uc.Execute(ctx, GetSubscriptionQuery{UserID: "user_free"})
	require.NoError(t, err)
	assert.False(t, result.HasSubscription)
	assert.Equal(t, 1, entCache.nulls)

	// The marker absorbs the repeat lookup.
	_, err = uc.Execute(ctx, GetSubscriptionQuery{UserID: "user_free"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetSubscription_ExhaustedOrInactiveCannotStart(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	uc := NewGetSubscriptionUseCase(repo, newFakeEntitlementCache(), testCatalog(t), logger.NewLogger())
	ctx := context.Background()

	resetDate := time.Now().UTC().AddDate(0, 0, 3)
	repo.put(t, "user_empty", vo.TierBasic, 0, 12, vo.StatusActive, resetDate)
	repo.put(t, "user_paused", vo.TierPro, 30, 30, vo.StatusPaused, resetDate)

	empty, err := uc.Execute(ctx, GetSubscriptionQuery{UserID: "user_empty"})
	require.NoError(t, err)
	assert.True(t, empty.HasSubscription)
	assert.False(t, empty.CanStartSession)

	paused, err := uc.Execute(ctx, GetSubscriptionQuery{UserID: "user_paused"})
	require.NoError(t, err)
	assert.True(t, paused.HasSubscription)
	assert.False(t, paused.CanStartSession)
}

func TestGetSubscription_NilCacheStillServes(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	uc := NewGetSubscriptionUseCase(repo, nil, testCatalog(t), logger.NewLogger())

	repo.put(t, "user_1", vo.TierBasic, 4, 12, vo.StatusActive, time.Now().UTC().AddDate(0, 0, 20))

	result, err := uc.Execute(context.Background(), GetSubscriptionQuery{UserID: "user_1"})
	require.NoError(t, err)
	assert.True(t, result.HasSubscription)
	assert.Equal(t, 4, result.SessionsRemaining)
}

func TestResetDueSubscriptions_Sweep(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	invalidator := &recordingInvalidator{}
	uc := NewResetDueSubscriptionsUseCase(repo, invalidator, logger.NewLogger())
	ctx := context.Background()

	past := time.Now().UTC().AddDate(0, 0, -1)
	future := time.Now().UTC().AddDate(0, 0, 15)
	repo.put(t, "user_due", vo.TierCore, 2, 20, vo.StatusActive, past)
	repo.put(t, "user_fresh", vo.TierCore, 5, 20, vo.StatusActive, future)
	repo.put(t, "user_cancelled", vo.TierBasic, 0, 12, vo.StatusCancelled, past)

	count, err := uc.Execute(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"user_due"}, invalidator.invalidated)
	assert.Equal(t, 20, repo.subs["user_due"].SessionsRemaining())
	assert.Equal(t, 5, repo.subs["user_fresh"].SessionsRemaining())
	assert.Equal(t, 0, repo.subs["user_cancelled"].SessionsRemaining())

	// The restored subscription's next reset lands a month out, so the
	// second sweep is a no-op.
	count, err = uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPortalBaseURL(t *testing.T) {
	assert.Equal(t, "https://customer-portal.paddle.com", PortalBaseURL("production"))
	assert.Equal(t, "https://sandbox-customer-portal.paddle.com", PortalBaseURL("sandbox"))
	assert.Equal(t, "https://sandbox-customer-portal.paddle.com", PortalBaseURL(""))
}
