package subscription

import "errors"

var (
	// ErrMissingBuyerIdentity means a webhook event carried no user identity
	// in its checkout custom data.
	ErrMissingBuyerIdentity = errors.New("missing buyer identity in event custom data")

	// ErrUnknownPriceID means the event's price identifier is not present in
	// the plan catalog.
	ErrUnknownPriceID = errors.New("unknown price identifier")

	// ErrNotFound means no subscription row exists for the user.
	ErrNotFound = errors.New("subscription not found")
)
