package main

import (
	"context"
	"fmt"
)

// setPremium flips a user's entitlement, creating the row when the auth
// provider has not mirrored the user yet.
func (cli *commandLine) setPremium(email string, premium bool) error {
	ctx := context.Background()

	setFunc := cli.usrSvc.GrantPremium
	if !premium {
		setFunc = cli.usrSvc.RevokePremium
	}
	usr, err := setFunc(ctx, email)
	if err != nil {
		return err
	}

	state := "granted"
	if !usr.IsPremium {
		state = "revoked"
	}
	fmt.Printf("premium %s for %s\n", state, usr.Email)
	return nil
}
