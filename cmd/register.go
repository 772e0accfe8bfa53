package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aurabank/aura/internal/app"
	"github.com/aurabank/aura/internal/authflow"
	"github.com/aurabank/aura/internal/errhandler"
	"github.com/aurabank/aura/internal/ui/prompts"
)

type registerRunner struct {
	app *app.App
	cmd *cobra.Command
}

func NewRegisterCmd(application *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long: `Create a new AuraBank account and enroll this device.

	Registration collects your profile and credentials, then enrolls a
	device step-up secret. The secret is asked again before every
	sensitive action, so pick one you can type quickly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &registerRunner{
				app: application,
				cmd: cmd,
			}
			return runner.Run()
		},
	}

	return cmd
}

func (r *registerRunner) Run() error {
	fields, err := prompts.RegisterForm()
	if err != nil {
		errhandler.HandleError(err)
		return nil
	}

	secret, err := prompts.StepUpSecretForm()
	if err != nil {
		errhandler.HandleError(err)
		return nil
	}

	outcome := r.app.Flow.Submit(r.cmd.Context(), authflow.NewRegisterRequest(fields, secret))
	if outcome.Status != authflow.StatusSucceeded {
		errhandler.RenderFailure(outcome)
		return nil
	}

	pterm.Success.Println("Registration successful! You can now log in with `aura login`.")

	return nil
}
