package httpServices

import (
	"context"

	"parcel-payment/services/gateway"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeClient creates payment intents through the Stripe API.
type StripeClient struct {
	api *client.API
}

// NewClient builds a Stripe client. baseURL overrides the API host and is
// empty in production. Network retries are disabled; a failed call is
// reported to the caller straight away.
func NewClient(secretKey, baseURL string) *StripeClient {
	config := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if baseURL != "" {
		config.URL = stripe.String(baseURL)
	}

	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, config),
		Connect: stripe.GetBackend(stripe.ConnectBackend),
		Uploads: stripe.GetBackend(stripe.UploadsBackend),
	})
	return &StripeClient{api: api}
}

func (c *StripeClient) CreatePaymentIntent(ctx context.Context, req gateway.IntentRequest) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.AmountMinorUnits),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	params.AddMetadata("integration_check", "accept_a_payment")
	params.AddMetadata("parcelId", req.ParcelID)

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}
