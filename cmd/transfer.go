package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aurabank/aura/internal/app"
	"github.com/aurabank/aura/internal/authflow"
	"github.com/aurabank/aura/internal/errhandler"
	"github.com/aurabank/aura/internal/ui/prompts"
	"github.com/aurabank/aura/internal/ui/views"
	"github.com/aurabank/aura/internal/utils"
)

type transferFlags struct {
	To     string
	Amount string
	Yes    bool
}

type transferRunner struct {
	app   *app.App
	flags *transferFlags
	cmd   *cobra.Command
}

func NewTransferCmd(application *app.App) *cobra.Command {
	flags := &transferFlags{}

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Send money to another account",
		Long: `Send money from your account to another account.

	The transfer is a sensitive action: it requires the device step-up
	confirmation before anything leaves this machine. The balance shown
	afterwards is the value the backend reports, never a local guess.

	Examples:
	# Interactive mode
	aura transfer

	# Quick mode with flags
	aura transfer --to ACC-4521 --amount 150.50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &transferRunner{
				app:   application,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}
	cmd.Flags().StringVarP(&flags.To, "to", "t", "", "Recipient account number")
	cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Amount to send (e.g. 150 or 150.50)")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func (r *transferRunner) Run() error {
	recipient := r.flags.To
	amount := r.flags.Amount

	if !r.cmd.Flags().Changed("to") && !r.cmd.Flags().Changed("amount") {
		var err error
		recipient, amount, err = prompts.TransferForm()
		if err != nil {
			errhandler.HandleError(err)
			return nil
		}
	}

	if !r.flags.Yes {
		ok, err := prompts.Confirm(
			pterm.Sprintf("Send %s to %s?", amount, recipient),
			false,
		)
		if err != nil {
			errhandler.HandleError(err)
			return nil
		}
		if !ok {
			pterm.Warning.Println("Transfer aborted")
			return nil
		}
	}

	outcome := r.app.Flow.Submit(r.cmd.Context(), authflow.NewTransferRequest(recipient, amount))
	if outcome.Status != authflow.StatusSucceeded {
		errhandler.RenderFailure(outcome)
		return nil
	}

	pterm.Success.Printf("Transfer complete. New balance: %s\n",
		utils.FormatFromCents(outcome.NewBalanceCents))

	if outcome.HistoryStale {
		pterm.Warning.Println("Could not refresh your transaction list; it may be out of date")
		return nil
	}

	return views.RenderTransactions(outcome.Transactions, false)
}
