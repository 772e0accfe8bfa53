package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aurabank/aura/internal/app"
	"github.com/aurabank/aura/internal/errhandler"
	"github.com/aurabank/aura/internal/ui/views"
)

type dashboardRunner struct {
	app *app.App
	cmd *cobra.Command
}

func NewDashboardCmd(application *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show your account overview",
		Long: `Show your profile and current balance.

	The balance is fetched fresh from the backend; if the backend cannot
	be reached, the last synced value is shown with a warning.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &dashboardRunner{
				app: application,
				cmd: cmd,
			}
			return runner.Run()
		},
	}

	return cmd
}

func (r *dashboardRunner) Run() error {
	if _, ok := r.app.Session.Current(); !ok {
		return errNotLoggedIn
	}
	if !gateSession(r.app, r.cmd) {
		return nil
	}

	profile, err := r.app.Flow.RefreshProfile(r.cmd.Context())
	if err != nil {
		errhandler.RenderRefreshError(err)

		sess, _ := r.app.Session.Current()
		views.RenderDashboard(sess.Profile())
		return nil
	}

	views.RenderDashboard(profile)
	return nil
}
