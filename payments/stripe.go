package payments

import (
	"context"
	"errors"
	"strings"

	"hotel-booking/services"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProcessor implements services.PaymentProcessor on Stripe payment intents.
type StripeProcessor struct {
	api *client.API
}

var _ services.PaymentProcessor = (*StripeProcessor)(nil)

// NewStripeProcessor builds a processor for the given secret key. backends may be
// nil; tests pass one pointing at a local server.
func NewStripeProcessor(secretKey string, backends *stripe.Backends) (*StripeProcessor, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, errors.New("stripe secret key is required")
	}
	return &StripeProcessor{api: client.New(secretKey, backends)}, nil
}

func toIntent(pi *stripe.PaymentIntent) *services.PaymentIntent {
	if pi == nil {
		return nil
	}
	return &services.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*services.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}
	return toIntent(pi), nil
}

func (p *StripeProcessor) UpdateIntent(ctx context.Context, id string, amount int64) (*services.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{Amount: stripe.Int64(amount)}
	params.Context = ctx
	pi, err := p.api.PaymentIntents.Update(id, params)
	if err != nil {
		return nil, err
	}
	return toIntent(pi), nil
}

func (p *StripeProcessor) RetrieveIntent(ctx context.Context, id string) (*services.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := p.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, err
	}
	return toIntent(pi), nil
}

func (p *StripeProcessor) ConfirmIntent(ctx context.Context, id string) (*services.PaymentIntent, error) {
	params := &stripe.PaymentIntentConfirmParams{}
	params.Context = ctx
	pi, err := p.api.PaymentIntents.Confirm(id, params)
	if err != nil {
		return nil, err
	}
	return toIntent(pi), nil
}

func (p *StripeProcessor) CancelIntent(ctx context.Context, id string) (*services.PaymentIntent, error) {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	pi, err := p.api.PaymentIntents.Cancel(id, params)
	if err != nil {
		return nil, err
	}
	return toIntent(pi), nil
}
