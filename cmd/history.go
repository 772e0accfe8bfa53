package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aurabank/aura/internal/app"
	"github.com/aurabank/aura/internal/errhandler"
	"github.com/aurabank/aura/internal/ui"
	"github.com/aurabank/aura/internal/ui/views"
)

type historyRunner struct {
	app *app.App
	cmd *cobra.Command
}

func NewHistoryCmd(application *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"txs"},
		Short:   "Show your transaction history",
		Long: `Show your transaction history, newest first.

	The list is fetched fresh from the backend. When the fetch fails the
	last known list cannot be trusted, so a staleness warning is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &historyRunner{
				app: application,
				cmd: cmd,
			}
			return runner.Run()
		},
	}

	return cmd
}

func (r *historyRunner) Run() error {
	if _, ok := r.app.Session.Current(); !ok {
		return errNotLoggedIn
	}
	if !gateSession(r.app, r.cmd) {
		return nil
	}

	ui.PrintTitle("Transaction History")

	txs, err := r.app.Flow.RefreshHistory(r.cmd.Context())
	if err != nil {
		errhandler.RenderRefreshError(err)
		return views.RenderTransactions(nil, true)
	}

	return views.RenderTransactions(txs, r.app.Session.HistoryStale())
}
