// Package validation holds the pure input checks for each sensitive action.
// They are callable on their own, outside the authorization flow, so the
// interactive prompts can reuse them field by field.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/aurabank/aura/internal/utils"
)

const (
	PasswordMinLen = 8
	PasswordMaxLen = 16
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// RegisterFields carries the raw registration form input.
type RegisterFields struct {
	Name            string
	Username        string
	Email           string
	PhoneNumber     string
	AccountNumber   string
	Password        string
	ConfirmPassword string
}

func ValidateLogin(username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("please enter username and password")
	}
	return nil
}

func ValidateRegister(f RegisterFields) error {
	if strings.TrimSpace(f.Name) == "" ||
		strings.TrimSpace(f.Username) == "" ||
		strings.TrimSpace(f.Email) == "" ||
		strings.TrimSpace(f.PhoneNumber) == "" ||
		strings.TrimSpace(f.AccountNumber) == "" ||
		f.Password == "" {
		return fmt.Errorf("please fill in all fields")
	}

	if err := ValidateEmail(f.Email); err != nil {
		return err
	}

	if f.ConfirmPassword != "" && f.Password != f.ConfirmPassword {
		return fmt.Errorf("passwords do not match")
	}

	return ValidatePassword(f.Password)
}

// ValidateTransfer checks the transfer form and returns the parsed amount
// in cents. The recipient must be non-empty and the amount a positive
// numeric value.
func ValidateTransfer(recipientAccount, amountRaw string) (int64, error) {
	if strings.TrimSpace(recipientAccount) == "" {
		return 0, fmt.Errorf("please fill in recipient and amount")
	}

	amountRaw = strings.TrimSpace(amountRaw)
	if amountRaw == "" {
		return 0, fmt.Errorf("please fill in recipient and amount")
	}

	cents, err := utils.ParseToCents(amountRaw)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %s", amountRaw)
	}
	if cents <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	return cents, nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("please enter a valid email address")
	}
	return nil
}

// ValidatePassword enforces the credential strength policy: 8-16
// characters with at least one uppercase letter, one lowercase letter and
// one non-alphanumeric character.
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLen || len(password) > PasswordMaxLen {
		return fmt.Errorf("password must be %d-%d characters", PasswordMinLen, PasswordMaxLen)
	}

	var hasUpper, hasLower, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			hasSymbol = true
		}
	}

	if !hasUpper || !hasLower || !hasSymbol {
		return fmt.Errorf("password must contain an uppercase letter, a lowercase letter and a symbol")
	}

	return nil
}
