package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/studiogate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and opens a session. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, userName, password); err != nil {
		return err
	}

	a.logger.Info(ctx, "logged in", "username", userName)
	printlnFn("Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	printlnFn("Logged out")
	return nil
}

func (a *App) Whoami(_ context.Context) error {
	st := a.session.State()
	printlnFn("User:", st.User)
	printlnFn("Pages:", describeScope(st.Pages))
	printlnFn("LinkedIn pages:", describeScope(st.LinkedInPages))
	return nil
}

func describeScope(ids []string) string {
	if len(ids) == 0 {
		return "all"
	}
	return strings.Join(ids, ", ")
}
