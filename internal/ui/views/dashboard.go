package views

import (
	"github.com/pterm/pterm"

	"github.com/aurabank/aura/internal/model"
	"github.com/aurabank/aura/internal/ui"
	"github.com/aurabank/aura/internal/utils"
)

// RenderDashboard shows the profile header with the authoritative balance.
func RenderDashboard(profile model.Profile) {
	ui.PrintTitle("Welcome back, %s!", profile.Name)

	pterm.DefaultBasicText.Println()
	pterm.DefaultBasicText.Printf("Balance: %s\n", pterm.Bold.Sprint(utils.FormatFromCents(profile.BalanceCents)))
	pterm.DefaultBasicText.Printf("Account: %s\n", profile.AccountNumber)
	pterm.DefaultBasicText.Printf("Email:   %s\n", profile.Email)
	pterm.DefaultBasicText.Printf("Phone:   %s\n", profile.PhoneNumber)
	pterm.DefaultBasicText.Println()
}
