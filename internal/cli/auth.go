package cli

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/form"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/session"
	"github.com/spf13/cobra"
)

// CredentialsOptions holds flags for the signup and login commands.
type CredentialsOptions struct {
	*RootOptions
	Email    string
	Password string
}

// NewSignUpCommand creates the signup command.
func NewSignUpCommand(rootOpts *RootOptions) *cobra.Command {
	return newCredentialsCommand(rootOpts, "signup", "Create an account and sign in", (*session.Session).SignUp)
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	return newCredentialsCommand(rootOpts, "login", "Sign in with email and password", (*session.Session).SignIn)
}

type credentialsAction func(s *session.Session, ctx context.Context, email, password string) error

func newCredentialsCommand(rootOpts *RootOptions, use, short string, action credentialsAction) *cobra.Command {
	opts := &CredentialsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := newLineReader(cmd)
			email := opts.Email
			if email == "" {
				var err error
				if email, err = in.ask("Email: "); err != nil {
					return err
				}
			}
			password := opts.Password
			if !cmd.Flags().Changed("password") {
				var err error
				if password, err = in.secret("Password: "); err != nil {
					return err
				}
			}
			email = strings.TrimSpace(email)

			if err := form.ValidateCredentials(email, password); err != nil {
				return NewExitError(ExitFailure, apperr.AuthMessage(err))
			}

			e, err := openEnv(cmd.Context(), opts.RootOptions)
			if err != nil {
				return err
			}
			defer e.close()

			if err := action(e.session, cmd.Context(), email, password); err != nil {
				code := ExitFailure
				if apperr.Retryable(err) {
					code = ExitCommandError
				}
				return NewExitError(code, apperr.AuthMessage(err))
			}
			return opts.printer(cmd.OutOrStdout()).message("Signed in as " + e.session.Current().Email + ".")
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password (prompted when not set)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Sign out and forget the stored session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			p := rootOpts.printer(cmd.OutOrStdout())
			// An unchecked stored session is still forgotten locally.
			if e.session.Current() == nil && e.restoreErr == nil {
				return p.message("Not signed in.")
			}
			if err := e.session.SignOut(cmd.Context()); err != nil {
				return WrapExitError(ExitCommandError, "sign out failed", err)
			}
			if e.restoreErr != nil {
				return p.message("Signed out on this device. The server could not be reached.")
			}
			return p.message("Signed out.")
		},
	}
}

// NewWhoAmICommand creates the whoami command.
func NewWhoAmICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "whoami",
		Short:         "Show the signed-in account",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			p := rootOpts.printer(cmd.OutOrStdout())
			id, err := e.identity()
			if err != nil {
				return err
			}
			if p.json {
				return p.encode(map[string]any{"identity": id})
			}
			if id == nil {
				return p.message("Not signed in.")
			}
			return p.message(id.Email + " (" + id.UID + ")")
		},
	}
}
