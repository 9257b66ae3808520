// Package reset implements the one-shot quota reset sweep command, for
// operators who want to run the sweep outside the in-process scheduler.
package reset

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	subscriptionUsecases "readora/internal/application/subscription/usecases"
	"readora/internal/infrastructure/config"
	"readora/internal/infrastructure/database"
	"readora/internal/infrastructure/repository"
	"readora/internal/shared/biztime"
	"readora/internal/shared/logger"
)

var env string

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, string) {}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Run one quota reset sweep",
		Long:  `Restore session quotas for every active subscription whose reset date has elapsed, then exit. Safe to run alongside the in-process scheduler; the per-row due-date guard prevents double resets.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Reading.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	log := logger.NewLogger()
	subscriptionRepo := repository.NewSubscriptionRepository(database.Get(), log)

	// The standalone sweep skips cache invalidation; cached snapshots expire
	// by TTL within minutes.
	resetUC := subscriptionUsecases.NewResetDueSubscriptionsUseCase(subscriptionRepo, noopInvalidator{}, log)

	count, err := resetUC.Execute(cmd.Context())
	if err != nil {
		return fmt.Errorf("reset sweep failed: %w", err)
	}

	fmt.Printf("reset %d subscription(s)\n", count)
	return nil
}
