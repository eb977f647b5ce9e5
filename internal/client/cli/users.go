package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/studiogate/internal/authz"
	"github.com/dmitrijs2005/studiogate/internal/client/client"
	"github.com/dmitrijs2005/studiogate/internal/common"
)

// keepMarker leaves a page set unchanged in setpages.
const keepMarker = "-"

func (a *App) Users(ctx context.Context) error {
	users, err := a.api.ListUsers(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tPAGES\tLINKEDIN")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, describeScope(u.Pages), describeScope(u.LinkedInPages))
	}
	return w.Flush()
}

func (a *App) AddUser(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter email of the new user", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	pages, err := getSimpleText(a.reader, "Pages (comma separated, empty for all)", a.out)
	if err != nil {
		return err
	}
	linkedIn, err := getSimpleText(a.reader, "LinkedIn pages as account:page (comma separated, empty for all)", a.out)
	if err != nil {
		return err
	}
	linkedInSet, err := parseLinkedInList(linkedIn)
	if err != nil {
		return err
	}

	err = a.api.CreateUser(ctx, client.CreateUserRequest{
		Username:      username,
		Password:      string(password),
		Pages:         ParseList(pages),
		LinkedInPages: linkedInSet,
	})
	if err != nil {
		return err
	}

	printlnFn("User created")
	return nil
}

// SetPages replaces a user's page sets; "-" keeps a set as it is.
func (a *App) SetPages(ctx context.Context, args []string) error {
	username, err := a.usernameArg(args)
	if err != nil {
		return err
	}

	req := client.UpdateUserRequest{Username: username}

	pages, err := getSimpleText(a.reader, "Pages (comma separated, empty for all, - to keep)", a.out)
	if err != nil {
		return err
	}
	if pages != keepMarker {
		set := ParseList(pages)
		req.Pages = &set
	}

	linkedIn, err := getSimpleText(a.reader, "LinkedIn pages (comma separated, empty for all, - to keep)", a.out)
	if err != nil {
		return err
	}
	if linkedIn != keepMarker {
		set, err := parseLinkedInList(linkedIn)
		if err != nil {
			return err
		}
		req.LinkedInPages = &set
	}

	if err := a.api.UpdateUser(ctx, req); err != nil {
		return err
	}

	printlnFn("User updated")
	return nil
}

func (a *App) Passwd(ctx context.Context, args []string) error {
	username, err := a.usernameArg(args)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if len(password) == 0 {
		return errors.New("empty password")
	}

	if err := a.api.UpdateUser(ctx, client.UpdateUserRequest{Username: username, Password: string(password)}); err != nil {
		return err
	}

	printlnFn("Password changed")
	return nil
}

func (a *App) DelUser(ctx context.Context, args []string) error {
	username, err := a.usernameArg(args)
	if err != nil {
		return err
	}

	if err := a.admin.DeleteUser(ctx, username); err != nil {
		return err
	}

	printlnFn("User deleted")
	return nil
}

// parseLinkedInList splits s like ParseList and checks that every entry is
// an account:page key.
func parseLinkedInList(s string) ([]string, error) {
	set := ParseList(s)
	for _, key := range set {
		if _, _, ok := authz.SplitCompositeKey(key); !ok {
			return nil, fmt.Errorf("invalid LinkedIn page %q, expected account:page", key)
		}
	}
	return set, nil
}

func (a *App) usernameArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.reader, "Enter email", a.out)
}
