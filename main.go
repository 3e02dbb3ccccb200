package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"parcel-payment/config"
	"parcel-payment/database"
	httpServices "parcel-payment/httpServices/stripe"
	"parcel-payment/logger"
	"parcel-payment/routes"
	"parcel-payment/services/gateway"
	"parcel-payment/services/ledger"
	"parcel-payment/services/parcel_store"
	"parcel-payment/services/reconciliation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", err)
		os.Exit(1)
	}

	logFile, err := logger.Setup(cfg.LogDir)
	if err != nil {
		logger.Error("Failed to set up log file", err)
		os.Exit(1)
	}
	defer logFile.Close()

	// weight and cost are emitted as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close the database", err)
		}
	}()

	asyncLogger := logger.NewAsyncLogger(db)
	asyncLogger.Start()
	defer asyncLogger.Close()

	parcels := parcel_store.NewStore(db)
	payments := ledger.NewLedger(db)
	stripeClient := httpServices.NewClient(cfg.StripeSecretKey, "")
	intents := gateway.NewAdapter(parcels, stripeClient, cfg.Currency, cfg.GatewayTimeout)
	reconciler := reconciliation.NewService(parcels, payments, intents)

	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       1 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Parcels:    parcels,
		Reconciler: reconciler,
		Payments:   payments,
		Logger:     asyncLogger,
		JWTSecret:  cfg.JWTSecret,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", err)
		}
	}()

	logger.Success("Server is running on " + cfg.ListenAddr())
	if err := app.Listen(cfg.ListenAddr()); err != nil {
		logger.Error("Server stopped", err)
	}
}
