// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/recurring-payments/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/recurring-payments/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                     *gin.Engine
	healthController           *controller.HealthController
	recurringPaymentController *controller.RecurringPaymentController
	occurrenceController       *controller.OccurrenceController
	savingBalanceController    *controller.SavingBalanceController
	transactionController      *controller.TransactionController
	categoryController         *controller.CategoryController
	synchronizeRateLimiter     *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	recurringPaymentController *controller.RecurringPaymentController,
	occurrenceController *controller.OccurrenceController,
	savingBalanceController *controller.SavingBalanceController,
	transactionController *controller.TransactionController,
	categoryController *controller.CategoryController,
	synchronizeRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:           healthController,
		recurringPaymentController: recurringPaymentController,
		occurrenceController:       occurrenceController,
		savingBalanceController:    savingBalanceController,
		transactionController:      transactionController,
		categoryController:         categoryController,
		synchronizeRateLimiter:     synchronizeRateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// Engine returns the configured Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	if r.recurringPaymentController != nil {
		synchronize := []gin.HandlerFunc{r.recurringPaymentController.Synchronize}
		if r.synchronizeRateLimiter != nil {
			synchronize = append([]gin.HandlerFunc{r.synchronizeRateLimiter.Middleware()}, synchronize...)
		}

		recurringPayments := v1.Group("/recurring-payments")
		{
			recurringPayments.GET("", r.recurringPaymentController.List)
			recurringPayments.POST("", r.recurringPaymentController.Create)
			recurringPayments.GET("/:id", r.recurringPaymentController.Get)
			recurringPayments.PATCH("/:id", r.recurringPaymentController.Update)
			recurringPayments.DELETE("/:id", r.recurringPaymentController.Delete)
			recurringPayments.POST("/:id/synchronize", synchronize...)
		}
	}

	if r.occurrenceController != nil {
		occurrences := v1.Group("/occurrences")
		{
			occurrences.GET("", r.occurrenceController.List)
			occurrences.PATCH("/:id", r.occurrenceController.Update)
			occurrences.POST("/:id/complete", r.occurrenceController.Complete)
			occurrences.GET("/:id/candidates", r.occurrenceController.Candidates)
			occurrences.POST("/:id/link", r.occurrenceController.Link)
			occurrences.DELETE("/:id/link", r.occurrenceController.Unlink)
		}
	}

	if r.savingBalanceController != nil {
		balances := v1.Group("/saving-balances")
		{
			balances.GET("", r.savingBalanceController.List)
			balances.POST("/accrue", r.savingBalanceController.Accrue)
		}
	}

	if r.transactionController != nil {
		transactions := v1.Group("/transactions")
		{
			transactions.GET("", r.transactionController.List)
			transactions.POST("", r.transactionController.Create)
		}
	}

	if r.categoryController != nil {
		v1.POST("/categories", r.categoryController.Create)
	}
}
