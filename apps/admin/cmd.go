package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/prepaclassics/backend/core/exercise"
	"github.com/prepaclassics/backend/core/progress"
	"github.com/prepaclassics/backend/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db       *sqlx.DB
	exoSvc   *exercise.Service
	progSvc  *progress.Service
	usrSvc   *user.Service
	validate *validator.Validate
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (up, down, status, ...)")
	fmt.Println("  importcatalog -file PATH - import the exercise catalog from an .xlsx or .csv file")
	fmt.Println("  setpremium -email EMAIL [-revoke] - flip a user's premium entitlement")
	fmt.Println("  resetprogress -email EMAIL [-exercise ID] [-index N] - delete a user's stored progress")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	importCmd := flag.NewFlagSet("importcatalog", flag.ExitOnError)
	importFile := importCmd.String("file", "", "Path to the .xlsx or .csv catalog file.")
	importSheet := importCmd.String("sheet", defaultSheetName, "Worksheet to read (.xlsx only).")
	importStartRow := importCmd.Int("start", 2, "1-based row to start importing from.")

	setPremiumCmd := flag.NewFlagSet("setpremium", flag.ExitOnError)
	setPremiumEmail := setPremiumCmd.String("email", "", "The user's email. The row is created when missing.")
	setPremiumRevoke := setPremiumCmd.Bool("revoke", false, "Revoke the entitlement instead of granting it.")

	resetCmd := flag.NewFlagSet("resetprogress", flag.ExitOnError)
	resetEmail := resetCmd.String("email", "", "The user's email.")
	resetExercise := resetCmd.Int("exercise", 0, "Limit the reset to one exercise. 0 resets everything.")
	resetIndex := resetCmd.Int("index", 0, "Limit the reset to one bubble. 0 resets the whole exercise.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "importcatalog":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		result, err := cli.importCatalog(ImportConfig{
			FilePath:  *importFile,
			SheetName: *importSheet,
			StartRow:  *importStartRow,
		})
		if err != nil {
			return err
		}
		result.print()
		return nil
	case "setpremium":
		if err := setPremiumCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setPremiumEmail == "" {
			setPremiumCmd.Usage()
			return errHelp
		}
		return cli.setPremium(*setPremiumEmail, !*setPremiumRevoke)
	case "resetprogress":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetEmail == "" {
			resetCmd.Usage()
			return errHelp
		}
		return cli.resetProgress(*resetEmail, *resetExercise, *resetIndex)
	default:
		cli.printUsage()
		return errHelp
	}
}
