package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/kitchenflow/config"
	"github.com/rookgm/kitchenflow/internal/auth"
	handler "github.com/rookgm/kitchenflow/internal/handler/http"
	"github.com/rookgm/kitchenflow/internal/logger"
	"github.com/rookgm/kitchenflow/internal/middleware"
	"github.com/rookgm/kitchenflow/internal/models"
	"github.com/rookgm/kitchenflow/internal/payments"
	"github.com/rookgm/kitchenflow/internal/repository"
	"github.com/rookgm/kitchenflow/internal/repository/postgres"
	"github.com/rookgm/kitchenflow/internal/service"
	"github.com/rookgm/kitchenflow/internal/worker"
	"go.uber.org/zap"
)

const defaultAuthTokenKey = "f53ac685bbceebd75043e6be2e06ee07"

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	authTokenKey := cfg.AuthTokenKey
	if authTokenKey == "" {
		authTokenKey = defaultAuthTokenKey
	}
	tokenKey, err := hex.DecodeString(authTokenKey)
	if err != nil {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	// dependency injection
	orderRepo := repository.NewOrderRepository(db)

	// order
	orderService := service.NewOrderService(orderRepo)
	orderHandler := handler.NewOrderHandler(orderService)

	// workflow
	workflowService := service.NewWorkflowService(orderRepo)
	workflowHandler := handler.NewWorkflowHandler(workflowService)

	// payments
	processorClient := payments.NewClient(cfg.ProcessorAddr)
	paymentService := service.NewPaymentService(orderRepo, processorClient)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// auth
	staff := models.Staff{
		Login:        cfg.StaffLogin,
		PasswordHash: cfg.StaffPasswordHash,
	}
	authService := service.NewAuthService(staff, token)
	authHandler := handler.NewAuthHandler(authService)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))

	// customer-facing intake and processor webhook
	router.Post("/api/orders", orderHandler.CreateOrder())
	router.Post("/api/payments/confirm", paymentHandler.ConfirmPayment())
	router.Post("/api/foh/login", authHandler.LoginUser())

	// polling reads for both channels
	router.Group(func(group chi.Router) {
		group.Use(handler.AnyAuth(token, cfg.StationKeyHash))
		group.Get("/api/orders", orderHandler.ListOrders())
		group.Get("/api/orders/{number}", orderHandler.GetOrder())
		group.Get("/api/orders/{number}/history", orderHandler.GetOrderHistory())
	})

	// front of house channel
	router.Group(func(group chi.Router) {
		group.Use(handler.FOHAuth(token))
		group.Post("/api/foh/orders/{number}/status", workflowHandler.RequestTransition())
	})

	// kitchen channel
	router.Group(func(group chi.Router) {
		group.Use(handler.BOHAuth(cfg.StationKeyHash))
		group.Post("/api/boh/orders/{number}/status", workflowHandler.RequestTransition())
	})

	// reconcile payments whose webhook never arrived
	reconciler := worker.NewPaymentReconciler(paymentService, cfg.ReconcileInterval)
	go reconciler.Run(ctx)

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
