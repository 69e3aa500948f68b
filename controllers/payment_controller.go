package controllers

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/miskhill/luvio-server/models"
	"github.com/miskhill/luvio-server/services"
)

// Webhook payloads are small; anything larger is hostile.
const maxWebhookBodyBytes = int64(65536)

// PaymentController maps HTTP requests onto the payment service.
type PaymentController struct {
	Service        services.PaymentService
	Stripe         services.StripeClient
	Logger         *zap.Logger
	FrontendURL    string
	AllowedOrigins []string
	Currency       string
}

// CreateCheckoutSession handles POST /api/stripe/create-checkout-session.
func (pc *PaymentController) CreateCheckoutSession(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.CartItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart items are required"})
		return
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(pc.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
					Metadata: map[string]string{
						"color":   item.Color,
						"item_id": item.ID,
					},
				},
				// Convert major units to pence.
				UnitAmount: stripe.Int64(int64(math.Round(item.Price * 100))),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = pc.returnURLBase(c) + "?payment=success"
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = pc.returnURLBase(c) + "?payment=cancelled"
	}

	result, err := pc.Service.CreateCheckoutSession(lineItems, successURL, cancelURL, req.Metadata)
	if err != nil {
		pc.Logger.Error("Error creating checkout session", zap.Error(err))
		msg := "Failed to create checkout session"
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
			msg = stripeErr.Msg
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPaymentStatus handles GET /api/stripe/payment-status/:paymentIntentId.
// Failures are reported generically so Stripe internals do not leak.
func (pc *PaymentController) GetPaymentStatus(c *gin.Context) {
	paymentIntentID := c.Param("paymentIntentId")

	result, err := pc.Service.GetPaymentStatus(paymentIntentID)
	if err != nil {
		pc.Logger.Error("Error retrieving payment",
			zap.String("payment_intent_id", paymentIntentID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payment status"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// StripeWebhook handles POST /api/stripe/webhook. The raw body is required
// for signature verification; nothing is processed before the signature
// checks out.
func (pc *PaymentController) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		pc.Logger.Warn("Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body"})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	event, err := pc.Stripe.ConstructWebhookEvent(payload, sigHeader)
	if err != nil {
		pc.Logger.Warn("Webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook Error: " + err.Error()})
		return
	}

	if err := pc.Service.ProcessWebhookEvent(event); err != nil {
		pc.Logger.Error("Error processing webhook",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// returnURLBase resolves the base URL for default success/cancel redirects.
// The Origin header is honored only when it is on the CORS allow-list; it is
// caller-controlled input and must not redirect checkout to arbitrary sites.
func (pc *PaymentController) returnURLBase(c *gin.Context) string {
	origin := strings.TrimSuffix(c.GetHeader("Origin"), "/")
	if origin != "" {
		for _, allowed := range pc.AllowedOrigins {
			if origin == allowed {
				return origin
			}
		}
	}
	return pc.FrontendURL
}
