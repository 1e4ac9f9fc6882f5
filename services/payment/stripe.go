package paymentsvc

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
	"github.com/stripe/stripe-go/v72/webhook"

	"github.com/prepaclassics/backend/core"
)

type stripeService struct {
	api           *client.API
	webhookSecret string
	priceID       string
	successURL    string
	cancelURL     string
}

var _ core.PaymentService = (*stripeService)(nil)

func NewStripeService(conf *core.Config) *stripeService {
	svc := &stripeService{
		webhookSecret: conf.Stripe.WebhookSecret,
		priceID:       conf.Stripe.PremiumPriceID,
		successURL:    conf.Stripe.SuccessURL,
		cancelURL:     conf.Stripe.CancelURL,
	}
	if conf.Stripe.Configured() {
		svc.api = &client.API{}
		svc.api.Init(conf.Stripe.SecretKey, nil)
	}
	return svc
}

func (svc stripeService) CheckoutURL(email string) (string, error) {
	if svc.api == nil {
		return "", core.ErrPaymentNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:      stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(svc.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(svc.successURL),
		CancelURL:  stripe.String(svc.cancelURL),
	}
	session, err := svc.api.CheckoutSessions.New(params)
	if err != nil {
		return "", errors.Wrap(err, "creating checkout session")
	}
	return session.URL, nil
}

func (svc stripeService) VerifyEvent(payload []byte, sigHeader string) (core.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, svc.webhookSecret)
	if err != nil {
		return core.PaymentEvent{}, errors.Wrap(err, "verifying webhook signature")
	}

	pe := core.PaymentEvent{Type: event.Type}
	if pe.CheckoutCompleted() {
		var session stripe.CheckoutSession
		if err = json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pe, errors.Wrap(err, "decoding checkout session")
		}
		if session.CustomerDetails != nil {
			pe.Email = session.CustomerDetails.Email
		}
		if pe.Email == "" {
			pe.Email = session.CustomerEmail
		}
	}
	return pe, nil
}
