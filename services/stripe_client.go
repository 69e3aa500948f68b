package services

import (
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"
)

// StripeClient is the boundary to the Stripe API. Handlers and the payment
// service depend on this interface so tests can substitute a double.
type StripeClient interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	RetrievePaymentIntent(id string) (*stripe.PaymentIntent, error)
	ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

type stripeClient struct {
	webhookSecret string
}

// NewStripeClient sets the global Stripe key and HTTP timeout and returns the
// real client.
func NewStripeClient(secretKey, webhookSecret string, timeout time.Duration) StripeClient {
	stripe.Key = secretKey
	stripe.SetHTTPClient(&http.Client{Timeout: timeout})
	return &stripeClient{webhookSecret: webhookSecret}
}

func (c *stripeClient) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

func (c *stripeClient) RetrievePaymentIntent(id string) (*stripe.PaymentIntent, error) {
	return paymentintent.Get(id, nil)
}

func (c *stripeClient) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
}
