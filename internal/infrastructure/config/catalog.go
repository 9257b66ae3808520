package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"readora/internal/domain/subscription"
	vo "readora/internal/domain/subscription/valueobjects"
)

// catalogFile mirrors the on-disk plan catalog. Keys are plan tiers.
type catalogFile struct {
	Plans map[string]catalogPlan `yaml:"plans"`
}

type catalogPlan struct {
	Name     string `yaml:"name"`
	Sessions int    `yaml:"sessions"`
	PriceUSD int    `yaml:"price_usd"`
	PriceID  string `yaml:"price_id"`
}

// LoadCatalog reads the plan catalog from a YAML file and validates it into
// the domain catalog. The catalog is immutable after load; changing plans
// means editing the file and restarting.
func LoadCatalog(path string) (*subscription.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plan catalog: %w", err)
	}
	if len(file.Plans) == 0 {
		return nil, fmt.Errorf("plan catalog %s defines no plans", path)
	}

	plans := make(map[vo.PlanTier]subscription.PlanConfig, len(file.Plans))
	for tier, plan := range file.Plans {
		plans[vo.PlanTier(tier)] = subscription.PlanConfig{
			Name:     plan.Name,
			Sessions: plan.Sessions,
			PriceUSD: plan.PriceUSD,
			PriceID:  plan.PriceID,
		}
	}

	return subscription.NewCatalog(plans)
}
