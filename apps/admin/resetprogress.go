package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/prepaclassics/backend/core/user"
)

// resetProgress deletes a user's stored bubbles, reverting them to the
// implicit default. exerciseID 0 resets the whole catalog; index 0 resets the
// whole exercise.
func (cli *commandLine) resetProgress(email string, exerciseID, index int) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return fmt.Errorf("no user with email %q", email)
		}
		return err
	}

	if exerciseID != 0 {
		if err = cli.progSvc.Reset(ctx, usr.ID, exerciseID, index); err != nil {
			return err
		}
		fmt.Printf("progress reset for %s on exercise %d\n", usr.Email, exerciseID)
		return nil
	}

	for _, exo := range cli.exoSvc.List(ctx) {
		if err = cli.progSvc.Reset(ctx, usr.ID, exo.ID, 0); err != nil {
			return err
		}
	}
	fmt.Printf("progress reset for %s\n", usr.Email)
	return nil
}
