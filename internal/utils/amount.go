package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aurabank/aura/internal/constants"
)

func FormatFromCents(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/float64(constants.CentsPerUnit))
}

// FormatSigned renders an amount with its transfer direction sign,
// e.g. "- 150.00" for money sent and "+ 150.00" for money received.
func FormatSigned(cents int64, sent bool) string {
	if sent {
		return "- " + FormatFromCents(cents)
	}
	return "+ " + FormatFromCents(cents)
}

// ParseToCents converts a user-entered amount string to cents.
// Handles formats: "150", "150.5", "150.50". Extra fractional digits
// are truncated. Both parts must consist of digits only, so trailing
// garbage ("12abc") and exponent notation ("1e3") are errors, and the
// sign applies to the whole amount including the fraction.
func ParseToCents(amountStr string) (int64, error) {
	s := strings.TrimSpace(amountStr)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("invalid amount format: %s", amountStr)
	}
	if parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return 0, fmt.Errorf("invalid amount: %s", amountStr)
	}

	var units, cents int64
	var err error

	if parts[0] != "" {
		units, err = strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount: %s", amountStr)
		}
	}

	if len(parts) == 2 {
		centStr := parts[1]
		if _, err := strconv.ParseUint(centStr, 10, 64); err != nil {
			return 0, fmt.Errorf("invalid cents: %s", amountStr)
		}
		if len(centStr) == 1 {
			centStr += "0" // "150.5" -> "50"
		} else if len(centStr) > 2 {
			centStr = centStr[:2]
		}
		cents, err = strconv.ParseInt(centStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid cents: %s", amountStr)
		}
	}

	total := units*int64(constants.CentsPerUnit) + cents
	if negative {
		total = -total
	}
	return total, nil
}

// CentsFromDecimal converts a wire decimal (e.g. a JSON balance) to cents,
// rounding half away from zero.
func CentsFromDecimal(v float64) int64 {
	if v >= 0 {
		return int64(v*constants.CentsPerUnit + 0.5)
	}
	return int64(v*constants.CentsPerUnit - 0.5)
}

// DecimalFromCents converts cents back to the wire decimal representation.
func DecimalFromCents(cents int64) float64 {
	return float64(cents) / float64(constants.CentsPerUnit)
}
