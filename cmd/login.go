package cmd

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aurabank/aura/internal/app"
	"github.com/aurabank/aura/internal/authflow"
	"github.com/aurabank/aura/internal/errhandler"
	"github.com/aurabank/aura/internal/ui/prompts"
	"github.com/aurabank/aura/internal/ui/views"
)

type loginFlags struct {
	Username string
	Password string
}

type loginRunner struct {
	app   *app.App
	flags *loginFlags
	cmd   *cobra.Command
}

func NewLoginCmd(application *app.App) *cobra.Command {
	flags := &loginFlags{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to your account",
		Long: `Log in to your AuraBank account.

	Credentials are checked against the configured backend. With a step-up
	secret enrolled on this device, you confirm your identity before the
	credentials are sent.

	Examples:
	# Interactive mode
	aura login

	# Quick mode with flags (password still prompted elsewhere is safer;
	# passing it as a flag exposes it to the shell history)
	aura login --username alice --password 'S3cret!pw'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &loginRunner{
				app:   application,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}
	cmd.Flags().StringVarP(&flags.Username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&flags.Password, "password", "p", "", "Account password")

	return cmd
}

func (r *loginRunner) Run() error {
	// An existing session only needs the step-up confirmation, not a full
	// credential round trip. Without an enrolled secret we fall back to a
	// fresh login.
	if sess, ok := r.app.Session.Current(); ok {
		outcome := r.app.Flow.Unlock(r.cmd.Context())
		switch outcome.Status {
		case authflow.StatusSucceeded:
			pterm.Success.Printf("Welcome back, %s\n", sess.DisplayName)
			views.RenderDashboard(sess.Profile())
			return nil
		case authflow.StatusCancelled:
			errhandler.RenderFailure(outcome)
			return nil
		case authflow.StatusFailed:
			if !errors.Is(outcome.Err, authflow.ErrChallengeUnavailable) {
				errhandler.RenderFailure(outcome)
				return nil
			}
		}
	}

	username := r.flags.Username
	password := r.flags.Password

	if !r.cmd.Flags().Changed("username") && !r.cmd.Flags().Changed("password") {
		var err error
		username, password, err = prompts.LoginForm()
		if err != nil {
			errhandler.HandleError(err)
			return nil
		}
	}

	outcome := r.app.Flow.Submit(r.cmd.Context(), authflow.NewLoginRequest(username, password))
	if outcome.Status != authflow.StatusSucceeded {
		errhandler.RenderFailure(outcome)
		return nil
	}

	pterm.Success.Printf("Logged in as %s\n", outcome.Session.DisplayName)
	views.RenderDashboard(outcome.Session.Profile())

	return nil
}
