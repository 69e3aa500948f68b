package services

import (
	"encoding/json"
	"time"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/miskhill/luvio-server/models"
)

// PaymentService translates domain requests into Stripe calls and normalizes
// the responses. It is stateless; the state of a payment is whatever Stripe
// reports at query time.
type PaymentService interface {
	CreateCheckoutSession(lineItems []*stripe.CheckoutSessionLineItemParams, successURL, cancelURL string, metadata map[string]string) (*models.CheckoutSession, error)
	GetPaymentStatus(paymentIntentID string) (*models.PaymentStatus, error)
	ProcessWebhookEvent(event stripe.Event) error
}

type paymentServiceImpl struct {
	stripe          StripeClient
	shippingCountry string
	logger          *zap.Logger
}

// NewPaymentService creates a PaymentService. shippingCountry is the single
// ISO 3166-1 alpha-2 country shipping is restricted to.
func NewPaymentService(client StripeClient, shippingCountry string, logger *zap.Logger) PaymentService {
	return &paymentServiceImpl{
		stripe:          client,
		shippingCountry: shippingCountry,
		logger:          logger,
	}
}

// CreateCheckoutSession creates a hosted Stripe checkout session: card only,
// single payment mode, billing address required, shipping restricted to the
// configured country. Stripe errors propagate unchanged.
func (s *paymentServiceImpl) CreateCheckoutSession(
	lineItems []*stripe.CheckoutSessionLineItemParams,
	successURL, cancelURL string,
	metadata map[string]string,
) (*models.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		LineItems:                lineItems,
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:               stripe.String(successURL),
		CancelURL:                stripe.String(cancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{s.shippingCountry}),
		},
	}
	params.Metadata = metadata

	sess, err := s.stripe.CreateCheckoutSession(params)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Checkout session created",
		zap.String("session_id", sess.ID),
		zap.Int("line_items", len(lineItems)),
	)

	return &models.CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}

// GetPaymentStatus retrieves a PaymentIntent and normalizes it: amount back
// to major units, created epoch seconds to RFC 3339.
func (s *paymentServiceImpl) GetPaymentStatus(paymentIntentID string) (*models.PaymentStatus, error) {
	pi, err := s.stripe.RetrievePaymentIntent(paymentIntentID)
	if err != nil {
		return nil, err
	}

	return &models.PaymentStatus{
		Status:   string(pi.Status),
		Amount:   float64(pi.Amount) / 100,
		Currency: string(pi.Currency),
		Created:  time.Unix(pi.Created, 0).UTC().Format(time.RFC3339),
	}, nil
}

// ProcessWebhookEvent dispatches a verified webhook event by type. Unknown
// event types are logged and acknowledged, not treated as errors; Stripe
// redelivers on any non-2xx, so only genuine processing failures return one.
func (s *paymentServiceImpl) ProcessWebhookEvent(event stripe.Event) error {
	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return err
		}
		s.logger.Info("Payment succeeded", zap.String("payment_intent_id", pi.ID))
		s.handleSuccessfulPayment(&pi)
	case stripe.EventTypePaymentIntentPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return err
		}
		s.logger.Info("Payment failed", zap.String("payment_intent_id", pi.ID))
		s.handleFailedPayment(&pi)
	default:
		s.logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}
	return nil
}

// handleSuccessfulPayment is an extension point for order fulfillment and
// confirmation emails. It currently only logs.
func (s *paymentServiceImpl) handleSuccessfulPayment(pi *stripe.PaymentIntent) {
	s.logger.Info("Processing successful payment",
		zap.String("payment_intent_id", pi.ID),
		zap.Float64("amount", float64(pi.Amount)/100),
	)
}

// handleFailedPayment is an extension point for failure notifications. It
// currently only logs.
func (s *paymentServiceImpl) handleFailedPayment(pi *stripe.PaymentIntent) {
	s.logger.Warn("Processing failed payment",
		zap.String("payment_intent_id", pi.ID),
	)
}
