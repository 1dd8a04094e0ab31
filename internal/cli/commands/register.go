package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/b3uf/backoffice/internal/session"
)

type registerInput struct {
	email       string
	password    string
	displayName string
	firstName   string
	lastName    string
}

// NewRegisterCmd creates the register command
func NewRegisterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "register",
		Short:       "Create a back-office account",
		Long:        "Create a back-office account. Registration does not sign you in; run 'b3uf login' afterwards.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Open(cmd.Context(), "Register")
		},
	}

	cmd.Flags().StringVar(&app.signup.email, "email", "", "Email address")
	cmd.Flags().StringVar(&app.signup.password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&app.signup.displayName, "display-name", "", "Display name")
	cmd.Flags().StringVar(&app.signup.firstName, "first-name", "", "First name (used when --display-name is empty)")
	cmd.Flags().StringVar(&app.signup.lastName, "last-name", "", "Last name (used when --display-name is empty)")

	return cmd
}

func (a *App) registerScreen(ctx context.Context) error {
	in := a.signup

	if in.email == "" {
		if !a.Prompt.Interactive() {
			return errors.New("email is required (use --email flag)")
		}
		email, err := a.Prompt.Ask("Email")
		if err != nil {
			return err
		}
		in.email = email
	}

	if in.displayName == "" && in.firstName == "" && in.lastName == "" && a.Prompt.Interactive() {
		name, err := a.Prompt.Ask("Display name")
		if err != nil {
			return err
		}
		in.displayName = name
	}

	if in.password == "" {
		if !a.Prompt.Interactive() {
			return errors.New("password is required in non-interactive mode (use --password flag)")
		}
		password, err := a.Prompt.AskSecret("Password")
		if err != nil {
			return err
		}
		confirm, err := a.Prompt.AskSecret("Confirm password")
		if err != nil {
			return err
		}
		if password != confirm {
			return errors.New("passwords do not match")
		}
		in.password = password
	}

	ok := a.Session.Register(ctx, session.NewUser{
		Email:       in.email,
		Password:    in.password,
		DisplayName: in.displayName,
		FirstName:   in.firstName,
		LastName:    in.lastName,
	})
	if !ok {
		return errors.New(a.Session.LastError())
	}

	fmt.Fprintln(a.Out, "✓ Account created!")
	fmt.Fprintf(a.Out, "  Sign in with: b3uf login --email %s\n", in.email)
	return nil
}
