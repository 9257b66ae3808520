package subscription

import (
	"fmt"

	vo "readora/internal/domain/subscription/valueobjects"
)

// PlanConfig describes one sellable tier: its monthly session allowance and
// its display price. Prices are charged by the payment processor; the value
// here is presentation only.
type PlanConfig struct {
	Name     string
	Sessions int
	PriceUSD int
	PriceID  string
}

// Catalog is the injected mapping between the payment processor's price
// identifiers and internal plan tiers. It is configuration, not code, and must
// be kept in sync with the processor's product catalog out of band.
type Catalog struct {
	plans       map[vo.PlanTier]PlanConfig
	priceToTier map[string]vo.PlanTier
}

// NewCatalog builds a catalog from per-tier configs. Every tier must carry a
// positive session allowance and a non-empty price ID.
func NewCatalog(plans map[vo.PlanTier]PlanConfig) (*Catalog, error) {
	if len(plans) == 0 {
		return nil, fmt.Errorf("plan catalog is empty")
	}

	priceToTier := make(map[string]vo.PlanTier, len(plans))
	for tier, cfg := range plans {
		if !vo.ValidTiers[tier] {
			return nil, fmt.Errorf("unknown plan tier in catalog: %s", tier)
		}
		if cfg.Sessions <= 0 {
			return nil, fmt.Errorf("plan %s: session allowance must be positive", tier)
		}
		if cfg.PriceID == "" {
			return nil, fmt.Errorf("plan %s: price ID is required", tier)
		}
		if existing, ok := priceToTier[cfg.PriceID]; ok {
			return nil, fmt.Errorf("price ID %s mapped to both %s and %s", cfg.PriceID, existing, tier)
		}
		priceToTier[cfg.PriceID] = tier
	}

	return &Catalog{plans: plans, priceToTier: priceToTier}, nil
}

// TierForPriceID resolves a processor price identifier to a plan tier.
func (c *Catalog) TierForPriceID(priceID string) (vo.PlanTier, bool) {
	tier, ok := c.priceToTier[priceID]
	return tier, ok
}

// SessionAllowance returns the monthly session allowance for a tier.
func (c *Catalog) SessionAllowance(tier vo.PlanTier) (int, bool) {
	cfg, ok := c.plans[tier]
	if !ok {
		return 0, false
	}
	return cfg.Sessions, true
}

// Plan returns the full config for a tier.
func (c *Catalog) Plan(tier vo.PlanTier) (PlanConfig, bool) {
	cfg, ok := c.plans[tier]
	return cfg, ok
}
