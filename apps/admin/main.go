package main

import (
	"log"
	"os"

	"github.com/prepaclassics/backend/core"
	"github.com/prepaclassics/backend/core/exercise"
	"github.com/prepaclassics/backend/core/progress"
	"github.com/prepaclassics/backend/core/user"
	logsvc "github.com/prepaclassics/backend/services/logger"
	"github.com/prepaclassics/backend/storage/database"
	sqlxrepos "github.com/prepaclassics/backend/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.LoadConfig()
	errAndDie(err)

	// set up DB; the admin CLI has no degraded mode
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	svcLogger := logsvc.NewConsoleLogger(logger)
	validate, _ := core.NewValidator()

	// start CLI
	cli := commandLine{
		db:       db,
		exoSvc:   exercise.NewService(sqlxrepos.NewExerciseRepository(db), nil, 0, svcLogger),
		progSvc:  progress.NewService(sqlxrepos.NewProgressRepository(db), conf.Progress.AnonymousRevertDelay, svcLogger),
		usrSvc:   user.NewService(sqlxrepos.NewUserRepository(db), nil, nil, conf.AppName, svcLogger),
		validate: validate,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
