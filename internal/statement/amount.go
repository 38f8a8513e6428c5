package statement

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount")

var amountNoise = strings.NewReplacer(
	"$", "",
	",", "",
	"€", "",
	"£", "",
	"¥", "",
	" ", "",
	"\u00a0", "",
)

// parseAmount reads a signed statement amount.
// Currency symbols and thousands separators are ignored and accountant-style
// parentheses mark a negative value.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = amountNoise.Replace(s)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}

	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}
