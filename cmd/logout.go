package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aurabank/aura/internal/app"
)

type logoutRunner struct {
	app *app.App
}

func NewLogoutCmd(application *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out of your account",
		Long: `Log out of your account on this device.

	The session is destroyed. Your registered credentials stay on the
	device, so the next login can still use the step-up secret.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &logoutRunner{app: application}
			return runner.Run()
		},
	}

	return cmd
}

func (r *logoutRunner) Run() error {
	if _, ok := r.app.Session.Current(); !ok {
		pterm.Info.Println("You are not logged in")
		return nil
	}

	if err := r.app.Flow.Logout(); err != nil {
		return err
	}

	pterm.Success.Println("Logged out")
	return nil
}
