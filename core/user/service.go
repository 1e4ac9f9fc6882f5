package user

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/prepaclassics/backend/core"
)

var ErrNotFound = errors.New("user not found")

const premiumCacheKeyPrefix = "entitlement:"

type (
	Repository interface {
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// SetUserPremium flips the entitlement, creating the row when the
		// provider has not mirrored the user yet.
		SetUserPremium(ctx context.Context, email string, premium bool) (User, error)
	}

	Service struct {
		repo    Repository
		cache   core.Cache
		mailSvc core.EmailService
		appName string
		logger  core.Logger
	}
)

// NewService builds the entitlement service. A nil repo degrades every lookup
// to "not premium". cache and mailSvc may be nil.
func NewService(repo Repository, cache core.Cache, mailSvc core.EmailService, appName string, logger core.Logger) *Service {
	return &Service{repo: repo, cache: cache, mailSvc: mailSvc, appName: appName, logger: logger}
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	if svc.repo == nil {
		return User{}, ErrNotFound
	}
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// IsPremium is a pure read with graceful degradation: a missing row, a missing
// store or a store failure all read as "not premium".
func (svc *Service) IsPremium(ctx context.Context, email string) bool {
	if email == "" || svc.repo == nil {
		return false
	}
	email = core.CleanString(email, true /* lower */)

	if svc.cache != nil {
		var premium bool
		if err := svc.cache.Get(ctx, premiumCacheKeyPrefix+email, &premium); err == nil {
			return premium
		}
	}

	usr, err := svc.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			svc.logger.Warn("reading entitlement", err)
		}
		return false
	}

	if svc.cache != nil {
		if err = svc.cache.Set(ctx, premiumCacheKeyPrefix+email, usr.IsPremium, 10*time.Minute); err != nil {
			svc.logger.Warn("caching entitlement", err)
		}
	}
	return usr.IsPremium
}

// GrantPremium flips the entitlement after a confirmed payment and sends the
// confirmation email. Only the webhook flow and the admin CLI call this.
func (svc *Service) GrantPremium(ctx context.Context, email string) (User, error) {
	return svc.setPremium(ctx, email, true)
}

// RevokePremium is the admin fix-up counterpart of GrantPremium.
func (svc *Service) RevokePremium(ctx context.Context, email string) (User, error) {
	return svc.setPremium(ctx, email, false)
}

func (svc *Service) setPremium(ctx context.Context, email string, premium bool) (User, error) {
	if svc.repo == nil {
		return User{}, errors.New("user store not configured")
	}
	email = core.CleanString(email, true /* lower */)

	usr, err := svc.repo.SetUserPremium(ctx, email, premium)
	if err != nil {
		return User{}, errors.Wrap(err, "setting premium flag")
	}

	if svc.cache != nil {
		if err = svc.cache.Delete(ctx, premiumCacheKeyPrefix+email); err != nil {
			svc.logger.Warn("invalidating entitlement cache", err)
		}
	}

	if premium && svc.mailSvc != nil {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Address: usr.Email}},
			Subject: "Abonnement premium activé",
			BodyStr: "Merci ! Ton abonnement " + svc.appName + " est actif : tous les exercices premium sont débloqués.",
		})
	}
	return usr, nil
}
