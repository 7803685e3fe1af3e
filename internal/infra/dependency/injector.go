// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finance-tracker/recurring-payments/config"
	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/application/usecase/category"
	"github.com/finance-tracker/recurring-payments/internal/application/usecase/reconciliation"
	"github.com/finance-tracker/recurring-payments/internal/application/usecase/recurringpayment"
	"github.com/finance-tracker/recurring-payments/internal/application/usecase/saving"
	"github.com/finance-tracker/recurring-payments/internal/application/usecase/transaction"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
	"github.com/finance-tracker/recurring-payments/internal/infra/server/router"
	"github.com/finance-tracker/recurring-payments/internal/integration/adapters"
	"github.com/finance-tracker/recurring-payments/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/recurring-payments/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/recurring-payments/internal/integration/messaging"
	"github.com/finance-tracker/recurring-payments/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router

	SynchronizeAll         *recurringpayment.SynchronizeAllUseCase
	AccrueSavings          *saving.AccrueMonthlySavingsUseCase
	SynchronizeRateLimiter *middleware.RateLimiter

	redisClient *redis.Client
	publisher   *messaging.AMQPPublisher
}

// NewInjector creates a new dependency injector with all dependencies wired.
// dbHealthChecker reports the database state on the health endpoint.
func NewInjector(cfg *config.Config, db *gorm.DB, dbHealthChecker controller.HealthChecker) (*Injector, error) {
	inj := &Injector{Config: cfg, DB: db}

	// Create repositories
	recurringPaymentRepo := persistence.NewRecurringPaymentRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)

	// Create adapters/services
	locker, err := inj.newLocker()
	if err != nil {
		return nil, err
	}
	publisher, err := inj.newPublisher()
	if err != nil {
		inj.Close()
		return nil, err
	}
	resolver, err := newBusinessDayResolver(cfg.Scheduling)
	if err != nil {
		inj.Close()
		return nil, err
	}
	scheduler := recurringpayment.NewScheduler(resolver, cfg.Scheduling.BackfillFromFirstOccurrence)

	matching := valueobject.DefaultMatchingConfig()
	matching.DefaultWindowDays = cfg.Scheduling.CandidateWindowDays
	matching.DefaultLimit = cfg.Scheduling.CandidateLimit

	// Create recurring payment use cases
	synchronizeUseCase := recurringpayment.NewSynchronizeUseCase(recurringPaymentRepo, locker, publisher, scheduler)
	createDefinitionUseCase := recurringpayment.NewCreateDefinitionUseCase(recurringPaymentRepo, categoryRepo, synchronizeUseCase)
	updateDefinitionUseCase := recurringpayment.NewUpdateDefinitionUseCase(recurringPaymentRepo, categoryRepo, locker, synchronizeUseCase)
	deleteDefinitionUseCase := recurringpayment.NewDeleteDefinitionUseCase(recurringPaymentRepo, locker)
	getDefinitionUseCase := recurringpayment.NewGetDefinitionUseCase(recurringPaymentRepo)
	listDefinitionsUseCase := recurringpayment.NewListDefinitionsUseCase(recurringPaymentRepo)
	listOccurrencesUseCase := recurringpayment.NewListOccurrencesUseCase(recurringPaymentRepo)
	completeOccurrenceUseCase := recurringpayment.NewCompleteOccurrenceUseCase(recurringPaymentRepo, transactionRepo, locker, publisher, synchronizeUseCase)
	updateOccurrenceUseCase := recurringpayment.NewUpdateOccurrenceUseCase(recurringPaymentRepo, transactionRepo, locker, publisher, synchronizeUseCase)
	inj.SynchronizeAll = recurringpayment.NewSynchronizeAllUseCase(recurringPaymentRepo, synchronizeUseCase)

	// Create saving use cases
	inj.AccrueSavings = saving.NewAccrueMonthlySavingsUseCase(recurringPaymentRepo, locker)
	listBalancesUseCase := saving.NewListBalancesUseCase(recurringPaymentRepo)

	// Create reconciliation use cases
	getCandidatesUseCase := reconciliation.NewGetCandidatesUseCase(recurringPaymentRepo, transactionRepo, matching)
	linkTransactionUseCase := reconciliation.NewLinkTransactionUseCase(recurringPaymentRepo, transactionRepo, locker)
	unlinkTransactionUseCase := reconciliation.NewUnlinkTransactionUseCase(recurringPaymentRepo, transactionRepo, locker)

	// Create transaction and category use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)

	// Create controllers
	horizon := cfg.Scheduling.DefaultHorizonMonths
	healthController := controller.NewHealthController(dbHealthChecker, inj.healthDependencies())
	recurringPaymentController := controller.NewRecurringPaymentController(
		listDefinitionsUseCase,
		createDefinitionUseCase,
		getDefinitionUseCase,
		updateDefinitionUseCase,
		deleteDefinitionUseCase,
		synchronizeUseCase,
		horizon,
	)
	occurrenceController := controller.NewOccurrenceController(
		listOccurrencesUseCase,
		completeOccurrenceUseCase,
		updateOccurrenceUseCase,
		getCandidatesUseCase,
		linkTransactionUseCase,
		unlinkTransactionUseCase,
		horizon,
	)
	savingBalanceController := controller.NewSavingBalanceController(listBalancesUseCase, inj.AccrueSavings)
	transactionController := controller.NewTransactionController(listTransactionsUseCase, createTransactionUseCase)
	categoryController := controller.NewCategoryController(createCategoryUseCase)

	// Create middleware
	inj.SynchronizeRateLimiter = middleware.NewRateLimiterWithConfig(
		cfg.Server.SynchronizeRateLimit,
		cfg.Server.SynchronizeRateWindow,
		middleware.ByPathParam("id"),
	)

	inj.Router = router.NewRouter(
		healthController,
		recurringPaymentController,
		occurrenceController,
		savingBalanceController,
		transactionController,
		categoryController,
		inj.SynchronizeRateLimiter,
	)

	return inj, nil
}

// Close releases the connections opened by the injector.
func (inj *Injector) Close() {
	if inj.publisher != nil {
		if err := inj.publisher.Close(); err != nil {
			slog.Error("Failed to close event publisher", "error", err)
		}
	}
	if inj.redisClient != nil {
		if err := inj.redisClient.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}
	}
}

func (inj *Injector) newLocker() (adapter.DefinitionLocker, error) {
	if inj.Config.Scheduling.LockBackend != config.LockBackendRedis {
		return adapters.NewMemoryDefinitionLocker(), nil
	}

	opts, err := redis.ParseURL(inj.Config.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if inj.Config.Redis.Password != "" {
		opts.Password = inj.Config.Redis.Password
	}
	if inj.Config.Redis.DB != 0 {
		opts.DB = inj.Config.Redis.DB
	}
	inj.redisClient = redis.NewClient(opts)

	slog.Info("Using redis definition locker", "addr", opts.Addr, "ttl", inj.Config.Scheduling.LockTTL)
	return adapters.NewRedisDefinitionLocker(inj.redisClient, inj.Config.Scheduling.LockTTL, 50*time.Millisecond), nil
}

func (inj *Injector) newPublisher() (adapter.EventPublisher, error) {
	if inj.Config.AMQP.URL == "" {
		slog.Info("AMQP_URL not set, events are not published")
		return messaging.NoopPublisher{}, nil
	}

	publisher, err := messaging.NewAMQPPublisher(inj.Config.AMQP.URL, inj.Config.AMQP.Exchange)
	if err != nil {
		return nil, err
	}
	inj.publisher = publisher
	return publisher, nil
}

func (inj *Injector) healthDependencies() map[string]controller.HealthChecker {
	if inj.redisClient == nil {
		return nil
	}
	client := inj.redisClient
	return map[string]controller.HealthChecker{
		"redis": func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := client.Ping(ctx).Err(); err != nil {
				slog.Error("Redis health check failed", "error", err)
				return false
			}
			return true
		},
	}
}

func newBusinessDayResolver(cfg config.SchedulingConfig) (valueobject.BusinessDayResolver, error) {
	holidays, err := valueobject.ParseHolidaySet(cfg.Holidays)
	if err != nil {
		return valueobject.BusinessDayResolver{}, err
	}
	annual, err := valueobject.ParseAnnualHolidays(cfg.AnnualHolidays)
	if err != nil {
		return valueobject.BusinessDayResolver{}, err
	}
	return valueobject.NewBusinessDayResolver(valueobject.CompositeHolidayProvider{holidays, annual}), nil
}
