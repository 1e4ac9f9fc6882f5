package core

import "github.com/pkg/errors"

var ErrPaymentNotConfigured = errors.New("payment provider not configured")

type (
	// PaymentEvent is a provider-agnostic view of an inbound webhook event.
	// Only completed checkouts carry a usable Email.
	PaymentEvent struct {
		Type  string
		Email string
	}

	// PaymentService fronts the external payment provider.
	PaymentService interface {
		// CheckoutURL creates a checkout session for the given email and
		// returns the redirect URL.
		CheckoutURL(email string) (string, error)
		// VerifyEvent checks the webhook payload signature and decodes the event.
		VerifyEvent(payload []byte, sigHeader string) (PaymentEvent, error)
	}
)

// CheckoutCompleted reports whether the event marks a paid checkout session.
func (e PaymentEvent) CheckoutCompleted() bool {
	return e.Type == "checkout.session.completed"
}
