package api

import (
	"context"
	"net/http"

	"github.com/manhhung3004/Gentsshop/httpclient"
)

// Payments covers the card payment endpoints.
//
// Process is not idempotent: do not wrap it in resilience.Retry unless the
// backend accepts an idempotency key.
type Payments struct {
	client httpclient.Client
}

// NewPayments creates the payment module.
func NewPayments(c httpclient.Client) *Payments {
	return &Payments{client: c}
}

// StripeKey returns the publishable key for the payment form.
func (p *Payments) StripeKey(ctx context.Context) (string, error) {
	var out struct {
		Key string `json:"stripeApiKey"`
	}
	if err := send(ctx, p.client, httpclient.NewDescriptor(http.MethodGet, PathStripeKey), &out); err != nil {
		return "", err
	}
	return out.Key, nil
}

// Process starts a payment and returns the client secret used to confirm it.
func (p *Payments) Process(ctx context.Context, in PaymentInput) (*PaymentIntent, error) {
	if err := preflight(in); err != nil {
		return nil, err
	}

	var out PaymentIntent
	d := httpclient.NewDescriptor(http.MethodPost, PathProcessPayment, httpclient.WithJSON(in))
	if err := send(ctx, p.client, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
