package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/shopkeeper/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email, phone and password and creates an
// account. A successful sign-up also signs the user in.
func (a *App) Register(ctx context.Context) error {
	var in services.SignUpInput
	var err error

	if in.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if in.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if in.Phone, err = getSimpleText(a.reader, "Enter phone", a.out); err != nil {
		return err
	}
	if in.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}

	u, err := a.accounts.SignUp(ctx, in)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", u.Name)
	return nil
}

// Login prompts for an email or phone number and a password.
func (a *App) Login(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter email or phone", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	u, err := a.accounts.SignIn(ctx, id, password)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", u.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.accounts.SignOut(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// WhoAmI prints the signed-in user's profile.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.accounts.CurrentUser()
	if u == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> %s (since %s)\n", u.Name, u.Email, u.Phone, u.CreatedAt.Format("2006-01-02"))
	return nil
}

// Profile edits the signed-in user's contact details. An empty answer keeps
// the current value.
func (a *App) Profile(ctx context.Context) error {
	u := a.accounts.CurrentUser()
	if u == nil {
		fmt.Fprintln(a.out, "Please sign in first")
		return nil
	}

	var upd services.ProfileUpdate
	fields := []struct {
		label   string
		current string
		dst     **string
	}{
		{"name", u.Name, &upd.Name},
		{"email", u.Email, &upd.Email},
		{"phone", u.Phone, &upd.Phone},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, fmt.Sprintf("New %s [%s]", f.label, f.current), a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = &v
		}
	}

	u, err := a.accounts.UpdateProfile(ctx, upd)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}
	fmt.Fprintf(a.out, "Profile updated: %s <%s> %s\n", u.Name, u.Email, u.Phone)
	return nil
}
