package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/miskhill/luvio-server/config"
	"github.com/miskhill/luvio-server/controllers"
	"github.com/miskhill/luvio-server/middleware"
	"github.com/miskhill/luvio-server/routes"
	"github.com/miskhill/luvio-server/services"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync() //nolint:errcheck

	stripeClient := services.NewStripeClient(
		cfg.StripeSecretKey,
		cfg.StripeWebhookSecret,
		time.Duration(cfg.StripeTimeoutSecs)*time.Second,
	)
	paymentSvc := services.NewPaymentService(stripeClient, cfg.ShippingCountry, logger)

	pc := &controllers.PaymentController{
		Service:        paymentSvc,
		Stripe:         stripeClient,
		Logger:         logger,
		FrontendURL:    cfg.FrontendURL,
		AllowedOrigins: cfg.AllowedOrigins,
		Currency:       cfg.Currency,
	}
	hc := controllers.NewHealthController()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	routes.RegisterRoutes(r, pc, hc)

	logger.Info("Luvio server running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
