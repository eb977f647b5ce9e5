package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/studiogate/internal/client/client"
)

func (a *App) getStatus() string {
	st := a.session.State()
	if !st.IsLoggedIn {
		return ""
	}
	if a.isAdmin() {
		return fmt.Sprintf("(%s admin)", st.User)
	}
	return fmt.Sprintf("(%s)", st.User)
}

func (a *App) Root(ctx context.Context) {

	printlnFn("Welcome to studio CLI (type 'help' for commands)")

	if !a.isLoggedIn() {
		if err := a.Login(ctx); err != nil {
			a.handleError(ctx, err)
		}
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// handleError reports err. A rejected token ends the session.
func (a *App) handleError(ctx context.Context, err error) {
	if errors.Is(err, client.ErrUnauthorized) && a.isLoggedIn() {
		printlnFn("Session expired, please log in again")
		a.auth.Logout(ctx)
		return
	}
	printlnFn("Error:", err)
}
