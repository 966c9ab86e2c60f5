package services

import "context"

const (
	IntentStatusSucceeded = "succeeded"
	IntentStatusCanceled  = "canceled"
)

// PaymentIntent is the subset of a processor-side payment intent the booking flow relies on.
// Amount is in minor currency units.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

func (p *PaymentIntent) Succeeded() bool {
	return p != nil && p.Status == IntentStatusSucceeded
}

// PaymentProcessor is the external payment service.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntent, error)
	UpdateIntent(ctx context.Context, id string, amount int64) (*PaymentIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*PaymentIntent, error)
	ConfirmIntent(ctx context.Context, id string) (*PaymentIntent, error)
	CancelIntent(ctx context.Context, id string) (*PaymentIntent, error)
}
