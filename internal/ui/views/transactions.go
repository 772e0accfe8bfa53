package views

import (
	"time"

	"github.com/pterm/pterm"

	"github.com/aurabank/aura/internal/constants"
	"github.com/aurabank/aura/internal/model"
	"github.com/aurabank/aura/internal/utils"
)

// FormatTimestamp renders a backend timestamp for display. An unparseable
// timestamp is shown verbatim: a bad row must not take the list down.
func FormatTimestamp(raw string) string {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return raw
	}
	return t.Format(constants.TimeDisplayFormat)
}

// RenderTransactions prints the history snapshot in the order it arrived.
func RenderTransactions(txs []model.Transaction, stale bool) error {
	if stale {
		pterm.Warning.Println("Transaction list may be out of date")
	}

	if len(txs) == 0 {
		pterm.Info.Println("No transactions yet")
		return nil
	}

	tableData := pterm.TableData{
		{"Counterparty", "When", "Amount"},
	}

	for _, tx := range txs {
		sent := tx.Direction == model.DirectionSent
		amount := utils.FormatSigned(tx.AmountCents, sent)
		if sent {
			amount = pterm.Red(amount)
		} else {
			amount = pterm.Green(amount)
		}

		tableData = append(tableData, []string{
			tx.CounterpartyName,
			FormatTimestamp(tx.Timestamp),
			amount,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transactions\n", len(txs))
	return nil
}
