package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meridianbank/banking/internal/cache"
	"github.com/meridianbank/banking/internal/command"
	"github.com/meridianbank/banking/internal/config"
	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/events"
	"github.com/meridianbank/banking/internal/handler"
	"github.com/meridianbank/banking/internal/ledger"
	"github.com/meridianbank/banking/internal/middleware"
	"github.com/meridianbank/banking/internal/query"
	"github.com/meridianbank/banking/internal/repository"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword, 0)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	userRepo := repository.NewUserRepository(db)
	store := repository.NewStore(db)

	publisher := events.NewPublisher(redisClient.Client)
	notifier := events.NewLedgerNotifier(publisher)

	locks := ledger.NewAccountLocks(cfg.LockWait)
	ledgerService := ledger.NewService(store, locks, notifier)

	accountQueries := query.NewAccountQueryService(accountRepo, redisClient.Client)
	transactionQueries := query.NewTransactionQueryService(transactionRepo, redisClient.Client)
	customerQueries := query.NewCustomerQueryService(customerRepo)
	authService := query.NewAuthQueryService(userRepo, []byte(cfg.JWTSecret), cfg.TokenTTL)

	accountCommands := command.NewAccountCommandService(accountRepo, customerRepo, accountQueries, publisher)
	customerCommands := command.NewCustomerCommandService(customerRepo)
	userCommands := command.NewUserCommandService(userRepo)

	transactionHandler := handler.NewTransactionHandler(ledgerService, transactionQueries)
	accountHandler := handler.NewAccountHandler(accountCommands, accountQueries)
	customerHandler := handler.NewCustomerHandler(customerCommands, customerQueries)
	authHandler := handler.NewAuthHandler(authService, userCommands)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "banking-core"})
	})

	secret := []byte(cfg.JWTSecret)
	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		protected := v1.Group("")
		protected.Use(middleware.Protect(secret))

		authed := protected.Group("/auth")
		{
			authed.POST("/register", middleware.Authorize(domain.RoleAdmin), authHandler.Register)
			authed.GET("/me", authHandler.Me)
			authed.PUT("/change-password", authHandler.ChangePassword)
		}

		customers := protected.Group("/customers")
		{
			customers.POST("", middleware.Authorize(domain.RoleAdmin, domain.RoleTeller), customerHandler.Create)
			customers.GET("", middleware.Authorize(domain.RoleAdmin, domain.RoleTeller), customerHandler.List)
			customers.GET("/:id", customerHandler.Get)
			customers.PUT("/:id", middleware.Authorize(domain.RoleAdmin, domain.RoleTeller), customerHandler.Update)
			customers.GET("/:id/accounts", accountHandler.ListByCustomer)
		}

		accounts := protected.Group("/accounts")
		{
			accounts.POST("", middleware.Authorize(domain.RoleAdmin, domain.RoleTeller), accountHandler.Create)
			accounts.GET("", middleware.Authorize(domain.RoleAdmin, domain.RoleTeller), accountHandler.List)
			accounts.GET("/:id", accountHandler.Get)
			accounts.GET("/number/:accountNumber", accountHandler.GetByNumber)
			accounts.GET("/:id/transactions", transactionHandler.ListByAccount)
			accounts.PATCH("/:id/status", middleware.Authorize(domain.RoleAdmin), accountHandler.UpdateStatus)
			accounts.DELETE("/:id", middleware.Authorize(domain.RoleAdmin), accountHandler.Close)
		}

		transactions := protected.Group("/transactions")
		{
			transactions.POST("/deposit", middleware.Authorize(domain.RoleAdmin, domain.RoleTeller), transactionHandler.Deposit)
			transactions.POST("/withdraw", middleware.Authorize(domain.RoleAdmin, domain.RoleTeller), transactionHandler.Withdraw)
			transactions.POST("/transfer", middleware.Authorize(domain.RoleAdmin, domain.RoleTeller), transactionHandler.Transfer)
			transactions.GET("", middleware.Authorize(domain.RoleAdmin), transactionHandler.List)
			transactions.GET("/:transactionId", transactionHandler.Get)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Projector: keep the Redis account views in step with committed
	// balance changes.
	projector := events.NewSubscriber(redisClient.Client, events.SubscriberConfig{
		Group:    "account-view-projector",
		Consumer: "server-1",
		Stream:   events.AccountEventsStream,
		Handler:  accountViewProjector(accountQueries),
	})
	go func() {
		if err := projector.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("projector stopped", "error", err)
		}
	}()

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// accountViewProjector refreshes an account's cached view whenever its
// balance changes. Other account events carry no view delta and are ACKed
// untouched.
func accountViewProjector(views *query.AccountQueryService) events.Handler {
	return func(ctx context.Context, event events.Event) error {
		if event.Type != events.BalanceUpdated {
			return nil
		}
		raw, err := json.Marshal(event.Data)
		if err != nil {
			return err
		}
		var payload events.BalanceUpdatedEvent
		if err := json.Unmarshal(raw, &payload); err != nil {
			return err
		}
		return views.RefreshView(ctx, payload.AccountID)
	}
}
