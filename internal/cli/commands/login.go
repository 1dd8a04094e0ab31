package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/b3uf/backoffice/internal/session"
)

type loginInput struct {
	email    string
	password string
}

// NewLoginCmd creates the login command
func NewLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Sign in to the back-office",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Open(cmd.Context(), "Login")
		},
	}

	cmd.Flags().StringVar(&app.login.email, "email", "", "Email address (or set B3UF_EMAIL)")
	cmd.Flags().StringVar(&app.login.password, "password", "", "Password (or set B3UF_PASSWORD, will prompt if not provided)")

	return cmd
}

func (a *App) loginScreen(ctx context.Context) error {
	creds, err := a.loginCredentials()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "Logging in as %s...\n", creds.Email)

	if !a.Session.Login(ctx, creds) {
		return errors.New(a.Session.LastError())
	}

	user := a.Session.User()
	fmt.Fprintln(a.Out, "✓ Login successful!")
	fmt.Fprintf(a.Out, "  User: %s (%s)\n", user.DisplayName, user.Email)
	if a.Session.IsAdmin() {
		fmt.Fprintln(a.Out, "  Role: Admin")
	}
	return nil
}

// loginCredentials resolves flags, then environment, then prompts
func (a *App) loginCredentials() (session.Credentials, error) {
	creds := session.Credentials{Email: a.login.email, Password: a.login.password}

	// Check for environment variables (useful for CI/CD)
	if creds.Email == "" {
		creds.Email = a.Getenv("B3UF_EMAIL")
	}
	if creds.Password == "" {
		creds.Password = a.Getenv("B3UF_PASSWORD")
	}

	if creds.Email == "" {
		if !a.Prompt.Interactive() {
			return creds, errors.New("email is required (use --email flag or B3UF_EMAIL env var)")
		}
		email, err := a.Prompt.Ask("Email")
		if err != nil {
			return creds, err
		}
		creds.Email = email
	}

	if creds.Password == "" {
		if !a.Prompt.Interactive() {
			return creds, errors.New("password is required in non-interactive mode (use --password flag or B3UF_PASSWORD env var)")
		}
		password, err := a.Prompt.AskSecret("Password")
		if err != nil {
			return creds, err
		}
		creds.Password = password
	}

	return creds, nil
}
