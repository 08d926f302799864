package payslip

import (
	"strings"

	"github.com/shopspring/decimal"
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatMoney renders amount with two decimals behind its currency symbol.
// Codes without a symbol are written out, e.g. "SDG 12.50".
func FormatMoney(amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	prefix, ok := symbols[currency]
	if !ok {
		prefix = currency + " "
	}
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	return sign + prefix + amount.StringFixed(2)
}
