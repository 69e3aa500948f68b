package services_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/miskhill/luvio-server/services"
)

// ---- mock Stripe client ----

type mockStripeClient struct {
	gotParams  *stripe.CheckoutSessionParams
	session    *stripe.CheckoutSession
	sessionErr error
	intent     *stripe.PaymentIntent
	intentErr  error
}

func (m *mockStripeClient) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	m.gotParams = params
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	return m.session, nil
}

func (m *mockStripeClient) RetrievePaymentIntent(id string) (*stripe.PaymentIntent, error) {
	if m.intentErr != nil {
		return nil, m.intentErr
	}
	return m.intent, nil
}

func (m *mockStripeClient) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return stripe.Event{}, nil
}

func newTestService(client *mockStripeClient) services.PaymentService {
	logger, _ := zap.NewDevelopment()
	return services.NewPaymentService(client, "GB", logger)
}

// ---- tests ----

func TestCreateCheckoutSession(t *testing.T) {
	t.Run("Sends fixed session options", func(t *testing.T) {
		client := &mockStripeClient{session: &stripe.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.com/c/pay/cs_test_123"}}
		svc := newTestService(client)

		lineItems := []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("gbp"),
				UnitAmount: stripe.Int64(1999),
			},
			Quantity: stripe.Int64(2),
		}}
		metadata := map[string]string{"order_ref": "ord_42"}

		result, err := svc.CreateCheckoutSession(lineItems, "https://luvioband.co.uk?payment=success", "https://luvioband.co.uk?payment=cancelled", metadata)

		assert.NoError(t, err)
		assert.Equal(t, "cs_test_123", result.SessionID)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", result.URL)

		params := client.gotParams
		assert.Equal(t, []*string{stripe.String("card")}, params.PaymentMethodTypes)
		assert.Equal(t, "payment", *params.Mode)
		assert.Equal(t, "required", *params.BillingAddressCollection)
		assert.Equal(t, []*string{stripe.String("GB")}, params.ShippingAddressCollection.AllowedCountries)
		assert.Equal(t, "https://luvioband.co.uk?payment=success", *params.SuccessURL)
		assert.Equal(t, "https://luvioband.co.uk?payment=cancelled", *params.CancelURL)
		assert.Equal(t, metadata, params.Metadata)
		assert.Equal(t, lineItems, params.LineItems)
	})

	t.Run("Propagates Stripe errors unchanged", func(t *testing.T) {
		stripeErr := &stripe.Error{Msg: "Amount must be at least 30 pence"}
		client := &mockStripeClient{sessionErr: stripeErr}
		svc := newTestService(client)

		result, err := svc.CreateCheckoutSession(nil, "s", "c", nil)

		assert.Nil(t, result)
		assert.Equal(t, stripeErr, err)
	})
}

func TestGetPaymentStatus(t *testing.T) {
	t.Run("Normalizes amount and timestamp", func(t *testing.T) {
		client := &mockStripeClient{intent: &stripe.PaymentIntent{
			Status:   stripe.PaymentIntentStatusSucceeded,
			Amount:   3998,
			Currency: stripe.CurrencyGBP,
			Created:  1700000000,
		}}
		svc := newTestService(client)

		result, err := svc.GetPaymentStatus("pi_123")

		assert.NoError(t, err)
		assert.Equal(t, "succeeded", result.Status)
		assert.Equal(t, 39.98, result.Amount)
		assert.Equal(t, "gbp", result.Currency)
		assert.Equal(t, "2023-11-14T22:13:20Z", result.Created)
	})

	t.Run("Minor-unit conversion inverts the checkout rounding", func(t *testing.T) {
		// 19.99 * 2 rounds to 3998 pence; reading it back must give 39.98 exactly.
		client := &mockStripeClient{intent: &stripe.PaymentIntent{Amount: 3998}}
		svc := newTestService(client)

		result, err := svc.GetPaymentStatus("pi_123")

		assert.NoError(t, err)
		assert.Equal(t, 2*19.99, result.Amount)
	})

	t.Run("Propagates retrieval errors", func(t *testing.T) {
		client := &mockStripeClient{intentErr: errors.New("request timed out")}
		svc := newTestService(client)

		result, err := svc.GetPaymentStatus("pi_123")

		assert.Nil(t, result)
		assert.Error(t, err)
	})
}

func TestProcessWebhookEvent(t *testing.T) {
	intentJSON := json.RawMessage(`{"id":"pi_123","amount":1999}`)

	t.Run("payment_intent.succeeded", func(t *testing.T) {
		svc := newTestService(&mockStripeClient{})

		err := svc.ProcessWebhookEvent(stripe.Event{
			Type: stripe.EventTypePaymentIntentSucceeded,
			Data: &stripe.EventData{Raw: intentJSON},
		})

		assert.NoError(t, err)
	})

	t.Run("payment_intent.payment_failed", func(t *testing.T) {
		svc := newTestService(&mockStripeClient{})

		err := svc.ProcessWebhookEvent(stripe.Event{
			Type: stripe.EventTypePaymentIntentPaymentFailed,
			Data: &stripe.EventData{Raw: intentJSON},
		})

		assert.NoError(t, err)
	})

	t.Run("Unrecognized type is acknowledged, not an error", func(t *testing.T) {
		svc := newTestService(&mockStripeClient{})

		err := svc.ProcessWebhookEvent(stripe.Event{
			Type: "customer.subscription.created",
			Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
		})

		assert.NoError(t, err)
	})

	t.Run("Malformed payload on a handled type is an error", func(t *testing.T) {
		svc := newTestService(&mockStripeClient{})

		err := svc.ProcessWebhookEvent(stripe.Event{
			Type: stripe.EventTypePaymentIntentSucceeded,
			Data: &stripe.EventData{Raw: json.RawMessage(`{"amount":"not a number"`)},
		})

		assert.Error(t, err)
	})
}
