package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, a role and a password, creates the account
// and signs it in. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, "Choose role: (A) enter company data, (B) upload files", a.out)
	if err != nil {
		return err
	}
	role, err := models.ParseRole(answer)
	if err != nil {
		return common.NewValidationError("role", "must be A or B")
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	me, err := a.auth.SignUp(ctx, email, password, role)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Account created, signed in as %s (%s)", me.Email, me.Role))
	return nil
}

// Login prompts for credentials and signs in. The password byte slice is
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	me, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Signed in as %s (%s)", me.Email, me.Role))
	return nil
}

// Logout ends the session and forgets the current identity.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		return err
	}
	printlnFn("Signed out")
	return nil
}

// WhoAmI prints the signed-in identity.
func (a *App) WhoAmI(ctx context.Context) error {
	me := a.current(ctx)
	if me == nil {
		return common.ErrNotAuthenticated
	}
	printlnFn(fmt.Sprintf("%s  %s  id=%s", me.Email, me.Role, me.ID))
	return nil
}

func (a *App) role() models.Role {
	me := a.current(context.Background())
	if me == nil {
		return ""
	}
	return me.Role
}
