package echoapi

import (
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/prepaclassics/backend/core"
	"github.com/prepaclassics/backend/core/user"
)

type billingApi struct {
	payment  core.PaymentService
	usrSvc   *user.Service
	validate *validator.Validate
	logger   core.Logger
}

func registerBillingAPI(g *echo.Group, optJWT echo.MiddlewareFunc, deps *Deps) {
	api := billingApi{
		payment:  deps.PaymentSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
		logger:   deps.Logger,
	}

	bg := g.Group("/billing")
	bg.POST("/checkout", api.checkout, optJWT)
	bg.POST("/webhook", api.webhook)
}

// Handlers

func (api *billingApi) checkout(ctx echo.Context) error {
	var data CheckoutRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CheckoutRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	// fall back to the authenticated caller's email
	email := data.Email
	if email == "" {
		email = getContextIdentity(ctx).Email
	}
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	if api.payment == nil {
		return errPaymentNotConfigured
	}
	url, err := api.payment.CheckoutURL(email)
	if err != nil {
		if errors.Cause(err) == core.ErrPaymentNotConfigured {
			return errPaymentNotConfigured
		}
		return errors.Wrap(err, "creating checkout session")
	}
	return ctx.JSON(http.StatusOK, CheckoutResponse{URL: url})
}

// webhook receives provider notifications. A completed checkout grants the
// payer's entitlement; every other verified event is acknowledged untouched
// so the provider stops retrying it.
func (api *billingApi) webhook(ctx echo.Context) error {
	if api.payment == nil {
		return errPaymentNotConfigured
	}

	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading webhook payload")
	}

	event, err := api.payment.VerifyEvent(payload, ctx.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		return errInvalidSignature
	}

	if event.CheckoutCompleted() {
		if event.Email == "" {
			api.logger.Warn("checkout completed without a customer email", errors.New("missing customer email"))
		} else if _, err = api.usrSvc.GrantPremium(ctx.Request().Context(), event.Email); err != nil {
			// non-2xx makes the provider retry the event
			return errors.Wrap(err, "granting premium")
		}
	}
	return ctx.JSON(http.StatusOK, WebhookResponse{Received: true})
}
