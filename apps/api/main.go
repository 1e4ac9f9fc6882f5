package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/prepaclassics/backend/apps/api/echo"
	"github.com/prepaclassics/backend/core"
	"github.com/prepaclassics/backend/core/exercise"
	"github.com/prepaclassics/backend/core/progress"
	"github.com/prepaclassics/backend/core/user"
	emailsvc "github.com/prepaclassics/backend/services/email"
	logsvc "github.com/prepaclassics/backend/services/logger"
	paymentsvc "github.com/prepaclassics/backend/services/payment"
	"github.com/prepaclassics/backend/storage/cache"
	"github.com/prepaclassics/backend/storage/database"
	sqlxrepos "github.com/prepaclassics/backend/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// set up logger
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.RollbarToken != "" {
		rollbarLogger := logsvc.NewRollbarLogger(std, conf)
		rollbarLogger.Enable(!conf.Debug)
		logger = rollbarLogger
	} else {
		logger = logsvc.NewConsoleLogger(std)
	}

	// set up repos; without store credentials the app serves an empty
	// read-only catalog
	var (
		exoRepo  exercise.Repository
		progRepo progress.Repository
		usrRepo  user.Repository
	)
	if conf.Database.Configured() {
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		if err = database.Migrate(db); err != nil {
			logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				logger.Error("closing database", err)
			}
		}()

		exoRepo = sqlxrepos.NewExerciseRepository(db)
		progRepo = sqlxrepos.NewProgressRepository(db)
		usrRepo = sqlxrepos.NewUserRepository(db)
	} else {
		logger.Warn("database not configured; running in degraded mode", nil)
	}

	// set up cache
	var appCache core.Cache
	if conf.Redis.Configured() {
		redisCache := cache.NewRedisCache(conf)
		defer redisCache.Close()
		appCache = redisCache
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	exoSvc := exercise.NewService(exoRepo, appCache, conf.Redis.CatalogTTL, logger)
	progSvc := progress.NewService(progRepo, conf.Progress.AnonymousRevertDelay, logger)
	usrSvc := user.NewService(usrRepo, appCache, mailSvc, conf.AppName, logger)

	var paymentSvc core.PaymentService
	if conf.Stripe.Configured() {
		paymentSvc = paymentsvc.NewStripeService(conf)
	} else {
		logger.Warn("payments not configured; billing endpoints disabled", nil)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		conf.Server.Addr,
		&echoapi.Deps{
			Conf:        conf,
			Logger:      logger,
			ExerciseSvc: exoSvc,
			ProgressSvc: progSvc,
			UserSvc:     usrSvc,
			PaymentSvc:  paymentSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)
	server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
