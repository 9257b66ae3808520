package usecases

import "context"

// EntitlementInvalidator drops the cached entitlement snapshot for a user
// after any subscription mutation. Implementations must be best effort: a
// cache failure never fails the mutation, the snapshot just expires by TTL.
type EntitlementInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// NoopInvalidator is used when Redis is disabled.
type NoopInvalidator struct{}

func (NoopInvalidator) Invalidate(context.Context, string) {}
