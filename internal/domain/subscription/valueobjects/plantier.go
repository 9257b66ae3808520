package valueobjects

// PlanTier identifies one of the fixed subscription tiers.
type PlanTier string

const (
	TierBasic PlanTier = "basic"
	TierCore  PlanTier = "core"
	TierPro   PlanTier = "pro"
)

// ValidTiers is the set of tiers accepted from persistence and configuration.
var ValidTiers = map[PlanTier]bool{
	TierBasic: true,
	TierCore:  true,
	TierPro:   true,
}

func (t PlanTier) String() string {
	return string(t)
}
