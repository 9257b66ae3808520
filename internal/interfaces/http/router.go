// Package http wires repositories, use cases, handlers and middleware into
// the Gin engine.
package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	billingUsecases "readora/internal/application/billing/usecases"
	readingUsecases "readora/internal/application/reading/usecases"
	sessionUsecases "readora/internal/application/session/usecases"
	subscriptionUsecases "readora/internal/application/subscription/usecases"
	"readora/internal/infrastructure/auth"
	"readora/internal/infrastructure/cache"
	"readora/internal/infrastructure/config"
	"readora/internal/infrastructure/email"
	"readora/internal/infrastructure/paddle"
	"readora/internal/infrastructure/repository"
	"readora/internal/infrastructure/scheduler"
	"readora/internal/interfaces/http/handlers"
	"readora/internal/interfaces/http/middleware"
	shareddb "readora/internal/shared/db"
	"readora/internal/shared/logger"
	"readora/internal/shared/services/markdown"
)

// Router holds the engine plus the long-lived components that need a
// coordinated shutdown.
type Router struct {
	engine         *gin.Engine
	redis          *redis.Client
	resetScheduler *scheduler.ResetScheduler
	log            logger.Interface

	webhookHandler      *handlers.WebhookHandler
	subscriptionHandler *handlers.SubscriptionHandler
	sessionHandler      *handlers.SessionHandler
	passageHandler      *handlers.PassageHandler
	progressHandler     *handlers.ProgressHandler
	transcriptHandler   *handlers.TranscriptHandler
	authMiddleware      *middleware.AuthMiddleware
	allowedOrigins      []string
}

// cacheInvalidator adapts the entitlement cache to the use cases' best-effort
// invalidation contract: failures are logged, never propagated.
type cacheInvalidator struct {
	cache cache.EntitlementCache
	log   logger.Interface
}

func (i *cacheInvalidator) Invalidate(ctx context.Context, userID string) {
	if i.cache == nil {
		return
	}
	if err := i.cache.Invalidate(ctx, userID); err != nil {
		i.log.Warnw("failed to invalidate entitlement cache", "user_id", userID, "error", err)
	}
}

// NewRouter creates the HTTP router with all dependencies wired together.
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()

	catalog, err := config.LoadCatalog(cfg.Billing.CatalogPath)
	if err != nil {
		return nil, err
	}

	// Repositories
	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	webhookEventRepo := repository.NewWebhookEventRepository(db, log)
	passageRepo := repository.NewPassageRepository(db, log)
	completionRepo := repository.NewCompletionRepository(db, log)
	transcriptRepo := repository.NewTranscriptRepository(db, log)
	progressRepo := repository.NewProgressRepository(db, log)
	sessionHistoryRepo := repository.NewReadingSessionRepository(db, log)
	bookmarkRepo := repository.NewBookmarkRepository(db, log)

	// Redis-backed entitlement cache, optional
	var redisClient *redis.Client
	var entitlementCache cache.EntitlementCache
	if cfg.Redis.Enabled {
		redisClient = initRedis(cfg, log)
		entitlementCache = cache.NewRedisEntitlementCache(redisClient, log)
	}
	invalidator := &cacheInvalidator{cache: entitlementCache, log: log}

	// Billing notifier, optional
	var billingNotifier *email.SMTPEmailService
	if cfg.Email.Enabled {
		billingNotifier = email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPass,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
		})
	}

	// Billing use cases
	provisionUC := billingUsecases.NewProvisionSubscriptionUseCase(subscriptionRepo, catalog, invalidator, log)
	changePlanUC := billingUsecases.NewChangePlanUseCase(subscriptionRepo, catalog, invalidator, log)
	// A nil *SMTPEmailService must not end up inside a non-nil interface
	// value, or the notifier==nil guards in the use cases stop working.
	var statusNotifier billingUsecases.BillingNotifier
	var paymentNotifier billingUsecases.PaymentNotifier
	if billingNotifier != nil {
		statusNotifier = billingNotifier
		paymentNotifier = billingNotifier
	}

	updateStatusUC := billingUsecases.NewUpdateSubscriptionStatusUseCase(subscriptionRepo, invalidator, statusNotifier, log)
	handleEventUC := billingUsecases.NewHandleWebhookEventUseCase(
		webhookEventRepo, subscriptionRepo,
		provisionUC, changePlanUC, updateStatusUC,
		paymentNotifier, shareddb.NewTransactionManager(db), log,
	)

	// Subscription read side and reset sweep
	getSubscriptionUC := subscriptionUsecases.NewGetSubscriptionUseCase(subscriptionRepo, entitlementCache, catalog, log)
	resetUC := subscriptionUsecases.NewResetDueSubscriptionsUseCase(subscriptionRepo, invalidator, log)

	var resetScheduler *scheduler.ResetScheduler
	if cfg.Scheduler.ResetEnabled {
		interval := time.Duration(cfg.Scheduler.ResetIntervalMinutes) * time.Minute
		resetScheduler = scheduler.NewResetScheduler(resetUC, interval, log)
	}

	// Reading and session use cases
	markdownService := markdown.NewMarkdownService()
	completeDiscussionUC := sessionUsecases.NewCompleteDiscussionUseCase(
		subscriptionRepo, passageRepo, completionRepo, transcriptRepo, progressRepo,
		markdownService, invalidator, cfg.Reading.MinSessionSeconds, log,
	)
	createPassageUC := readingUsecases.NewCreatePassageUseCase(passageRepo, log)
	getPassageUC := readingUsecases.NewGetPassageUseCase(passageRepo, markdownService)
	listPassagesUC := readingUsecases.NewListPassagesUseCase(passageRepo, completionRepo, bookmarkRepo, log)
	authoredUC := readingUsecases.NewAuthoredPassagesUseCase(passageRepo)
	bookmarkUC := readingUsecases.NewBookmarkPassageUseCase(bookmarkRepo, passageRepo, log)
	listBookmarksUC := readingUsecases.NewListBookmarksUseCase(bookmarkRepo, passageRepo, log)
	onboardUC := readingUsecases.NewOnboardStudentUseCase(progressRepo, log)
	getProgressUC := readingUsecases.NewGetProgressUseCase(progressRepo)
	updateGradeUC := readingUsecases.NewUpdateGradeUseCase(progressRepo, log)
	recordSessionUC := readingUsecases.NewRecordSessionUseCase(sessionHistoryRepo, passageRepo, progressRepo, log)
	recentPassagesUC := readingUsecases.NewRecentPassagesUseCase(sessionHistoryRepo, passageRepo, log)
	listTranscriptsUC := readingUsecases.NewListTranscriptsUseCase(transcriptRepo)
	getTranscriptUC := readingUsecases.NewGetTranscriptUseCase(transcriptRepo)
	deleteTranscriptUC := readingUsecases.NewDeleteTranscriptUseCase(transcriptRepo, log)

	// Webhook signature verification
	maxAge := time.Duration(cfg.Billing.WebhookMaxAgeSeconds) * time.Second
	verifier := paddle.NewVerifier(cfg.Billing.WebhookSecret, maxAge)

	tokenVerifier := auth.NewTokenVerifier(cfg.Auth.TokenSigningSecret, cfg.Auth.Issuer)

	return &Router{
		engine:         engine,
		redis:          redisClient,
		resetScheduler: resetScheduler,
		log:            log,

		webhookHandler:      handlers.NewWebhookHandler(verifier, handleEventUC, log),
		subscriptionHandler: handlers.NewSubscriptionHandler(getSubscriptionUC, cfg.Billing.Environment),
		sessionHandler:      handlers.NewSessionHandler(completeDiscussionUC, recordSessionUC, recentPassagesUC),
		passageHandler:      handlers.NewPassageHandler(createPassageUC, getPassageUC, listPassagesUC, authoredUC, bookmarkUC, listBookmarksUC),
		progressHandler:     handlers.NewProgressHandler(onboardUC, getProgressUC, updateGradeUC),
		transcriptHandler:   handlers.NewTranscriptHandler(listTranscriptsUC, getTranscriptUC, deleteTranscriptUC),
		authMiddleware:      middleware.NewAuthMiddleware(tokenVerifier, log),
		allowedOrigins:      cfg.Server.AllowedOrigins,
	}, nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warnw("Redis unreachable, continuing without entitlement cache", "error", err)
		return redisClient
	}
	log.Infow("Redis connection established")

	return redisClient
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes() {
	registerValidations()

	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.allowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Webhooks authenticate by signature, not by user token.
	r.engine.POST("/webhooks/paddle", r.webhookHandler.HandleWebhook)

	api := r.engine.Group("/api/v1")
	api.Use(r.authMiddleware.RequireAuth())
	{
		api.GET("/subscription", r.subscriptionHandler.GetStatus)

		api.POST("/sessions", r.sessionHandler.StartSession)
		api.POST("/sessions/complete", r.sessionHandler.CompleteDiscussion)
		api.GET("/sessions/recent", r.sessionHandler.RecentPassages)

		api.POST("/passages", r.passageHandler.CreatePassage)
		api.GET("/passages", r.passageHandler.ListPassages)
		api.GET("/passages/mine", r.passageHandler.ListAuthored)
		api.GET("/passages/:sid", r.passageHandler.GetPassage)
		api.POST("/passages/:sid/bookmark", r.passageHandler.BookmarkPassage)
		api.DELETE("/passages/:sid/bookmark", r.passageHandler.UnbookmarkPassage)
		api.GET("/bookmarks", r.passageHandler.ListBookmarks)

		api.POST("/progress/onboard", r.progressHandler.Onboard)
		api.GET("/progress", r.progressHandler.GetProgress)
		api.PUT("/progress/grade", r.progressHandler.UpdateGrade)

		api.GET("/transcripts", r.transcriptHandler.ListTranscripts)
		api.GET("/transcripts/completion/:completion_sid", r.transcriptHandler.GetByCompletion)
		api.DELETE("/transcripts/:sid", r.transcriptHandler.DeleteTranscript)
	}
}

// StartBackground launches background workers.
func (r *Router) StartBackground(ctx context.Context) {
	if r.resetScheduler != nil {
		r.resetScheduler.Start(ctx)
	}
}

// Shutdown stops background workers and closes shared clients.
func (r *Router) Shutdown() {
	if r.resetScheduler != nil {
		r.resetScheduler.Stop()
	}
	if r.redis != nil {
		if err := r.redis.Close(); err != nil {
			r.log.Warnw("failed to close Redis client", "error", err)
		}
	}
}

// GetEngine returns the Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server.
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
