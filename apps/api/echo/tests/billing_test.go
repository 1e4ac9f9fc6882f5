package tests

import (
	"net/http"
	"testing"

	. "github.com/prepaclassics/backend/apps/api/echo"
	"github.com/prepaclassics/backend/core"
)

func Test_billingApi_checkout(t *testing.T) {
	app, env := setup(t)

	usr := createUser(t, env, "student@test.cd", false)
	token := getToken(t, usr)

	tests := []httpTest{
		{
			name:     "Anonymous checkout with an email",
			method:   http.MethodPost,
			path:     "/v1/billing/checkout",
			body:     marchallObj(t, CheckoutRequest{Email: "someone@test.cd"}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, CheckoutResponse{URL: "https://checkout.test/session?prefilled_email=someone@test.cd"}),
		},
		{
			name:     "Authenticated checkout falls back to the token email",
			method:   http.MethodPost,
			path:     "/v1/billing/checkout",
			body:     marchallObj(t, CheckoutRequest{}),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, CheckoutResponse{URL: "https://checkout.test/session?prefilled_email=student@test.cd"}),
		},
		{
			name:     "No email at all",
			method:   http.MethodPost,
			path:     "/v1/billing/checkout",
			body:     marchallObj(t, CheckoutRequest{}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "email is required"}),
		},
		{
			name:     "Malformed email",
			method:   http.MethodPost,
			path:     "/v1/billing/checkout",
			body:     marchallObj(t, CheckoutRequest{Email: "not-an-email"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "GET is not allowed",
			method:   http.MethodGet,
			path:     "/v1/billing/checkout",
			wantCode: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_billingApi_paymentNotConfigured(t *testing.T) {
	app, _ := setupWithPayment(t, false)

	wantBody := marchallObj(t, httpErr{Error: "payment provider not configured"})
	tests := []httpTest{
		{
			name:     "Checkout without a provider",
			method:   http.MethodPost,
			path:     "/v1/billing/checkout",
			body:     marchallObj(t, CheckoutRequest{Email: "someone@test.cd"}),
			wantCode: http.StatusInternalServerError,
			wantData: wantBody,
		},
		{
			name:     "Webhook without a provider",
			method:   http.MethodPost,
			path:     "/v1/billing/webhook",
			wantCode: http.StatusInternalServerError,
			wantData: wantBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_billingApi_webhook(t *testing.T) {
	app, env := setup(t)

	env.payment.registerEvent("sig-completed", core.PaymentEvent{
		Type:  "checkout.session.completed",
		Email: "payer@test.cd",
	})
	env.payment.registerEvent("sig-other", core.PaymentEvent{
		Type: "invoice.paid",
	})

	received := marchallObj(t, WebhookResponse{Received: true})

	tests := []httpTest{
		{
			name:     "Bad signature",
			method:   http.MethodPost,
			path:     "/v1/billing/webhook",
			extra:    "sig-forged",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid signature"}),
		},
		{
			name:     "Completed checkout grants premium",
			method:   http.MethodPost,
			path:     "/v1/billing/webhook",
			extra:    "sig-completed",
			wantCode: http.StatusOK,
			wantData: received,
		},
		{
			name:     "Other events are acknowledged untouched",
			method:   http.MethodPost,
			path:     "/v1/billing/webhook",
			extra:    "sig-other",
			wantCode: http.StatusOK,
			wantData: received,
		},
		{
			name:     "GET is not allowed",
			method:   http.MethodGet,
			path:     "/v1/billing/webhook",
			extra:    "",
			wantCode: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, []byte(`{}`))
			req.Header.Set("Stripe-Signature", tt.extra.(string))
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	if !env.usrSvc.IsPremium(testCtx(), "payer@test.cd") {
		t.Errorf("IsPremium(payer@test.cd) = false after completed checkout")
	}
}
