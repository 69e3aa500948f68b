package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/miskhill/luvio-server/controllers"
	"github.com/miskhill/luvio-server/middleware"
)

// RegisterRoutes mounts the health endpoints and the Stripe API routes.
// API routes sit behind a general rate limiter and a progressive speed
// limiter; checkout creation carries an additional, stricter limiter.
func RegisterRoutes(r *gin.Engine, pc *controllers.PaymentController, hc *controllers.HealthController) {
	r.GET("/", hc.Root)
	r.GET("/health", hc.Health)

	api := r.Group("/api")
	// 100 requests per 15 minutes per IP
	api.Use(middleware.RateLimitMiddleware(
		rate.Every(15*time.Minute/100), 20,
		"Too many requests from this IP, please try again later.",
	))
	// 500ms added per request beyond 5 in the window, capped at 20s
	api.Use(middleware.SpeedLimitMiddleware(15*time.Minute, 5, 500*time.Millisecond, 20*time.Second))

	stripeAPI := api.Group("/stripe")
	// 10 checkout attempts per 15 minutes per IP
	stripeAPI.POST("/create-checkout-session",
		middleware.RateLimitMiddleware(
			rate.Every(15*time.Minute/10), 5,
			"Too many checkout attempts, please try again later.",
		),
		pc.CreateCheckoutSession,
	)
	stripeAPI.GET("/payment-status/:paymentIntentId", pc.GetPaymentStatus)
	stripeAPI.POST("/webhook", pc.StripeWebhook)
}
