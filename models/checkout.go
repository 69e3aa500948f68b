package models

// CartItem is a single entry in the caller's cart. Price is in major currency
// units (pounds, not pence).
type CartItem struct {
	ID       string  `json:"id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Color    string  `json:"color"`
	Price    float64 `json:"price" binding:"gte=0"`
	Quantity int64   `json:"quantity" binding:"min=1"`
}

// CheckoutRequest is the body of POST /api/stripe/create-checkout-session.
// SuccessURL and CancelURL are optional; the controller resolves defaults.
type CheckoutRequest struct {
	CartItems  []CartItem        `json:"cartItems" binding:"dive"`
	SuccessURL string            `json:"successUrl"`
	CancelURL  string            `json:"cancelUrl"`
	Metadata   map[string]string `json:"metadata"`
}

// CheckoutSession is the hosted-checkout handle returned to the frontend.
// Both fields are owned by Stripe and ephemeral.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// PaymentStatus is the normalized view of a Stripe PaymentIntent. Amount is
// in major currency units; Created is an RFC 3339 timestamp.
type PaymentStatus struct {
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Created  string  `json:"created"`
}
