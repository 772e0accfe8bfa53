package prompts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/aurabank/aura/internal/validation"
)

// LoginForm collects the login credentials interactively.
func LoginForm() (username, password string, err error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username:").
				Value(&username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password:").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(required("password")),
		),
	)

	err = form.Run()
	return username, password, err
}

// RegisterForm collects the registration fields. Field-level validators
// reuse the same pure checks the flow controller runs, so the user learns
// about a bad value before the final submit.
func RegisterForm() (validation.RegisterFields, error) {
	var f validation.RegisterFields

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full name:").
				Value(&f.Name).
				Validate(required("name")),
			huh.NewInput().
				Title("Username:").
				Value(&f.Username).
				Validate(required("username")),
			huh.NewInput().
				Title("Email:").
				Value(&f.Email).
				Validate(func(s string) error { return validation.ValidateEmail(s) }),
			huh.NewInput().
				Title("Phone number:").
				Value(&f.PhoneNumber).
				Validate(required("phone number")),
			huh.NewInput().
				Title("Account number:").
				Value(&f.AccountNumber).
				Validate(required("account number")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Password:").
				Description("8-16 characters with an uppercase letter, a lowercase letter and a symbol").
				EchoMode(huh.EchoModePassword).
				Value(&f.Password).
				Validate(func(s string) error { return validation.ValidatePassword(s) }),
			huh.NewInput().
				Title("Confirm password:").
				EchoMode(huh.EchoModePassword).
				Value(&f.ConfirmPassword),
		),
	)

	err := form.Run()
	return f, err
}

// StepUpSecretForm enrolls the device step-up secret during registration.
func StepUpSecretForm() (string, error) {
	var secret, confirm string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Device step-up secret:").
				Description("Asked before every sensitive action on this device").
				EchoMode(huh.EchoModePassword).
				Value(&secret).
				Validate(required("step-up secret")),
			huh.NewInput().
				Title("Confirm step-up secret:").
				EchoMode(huh.EchoModePassword).
				Value(&confirm),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}
	if confirm != "" && secret != confirm {
		return "", fmt.Errorf("step-up secrets do not match")
	}
	return secret, nil
}

// TransferForm collects the transfer recipient and amount.
func TransferForm() (recipient, amount string, err error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Recipient account:").
				Value(&recipient).
				Validate(required("recipient account")),
			huh.NewInput().
				Title("Amount:").
				Description("Enter the amount, no currency symbol (e.g. 150 or 150.50)").
				Value(&amount).
				Validate(func(s string) error {
					_, err := validation.ValidateTransfer("x", s)
					return err
				}),
		),
	)

	err = form.Run()
	return recipient, amount, err
}

// Confirm prompts for yes/no confirmation.
func Confirm(message string, defaultValue bool) (bool, error) {
	confirm := defaultValue

	err := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		Run()

	return confirm, err
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
