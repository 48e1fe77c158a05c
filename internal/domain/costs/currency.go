package costs

import (
	"fmt"
	"strings"
	"unicode"
)

var countryCurrencies = map[string]string{
	"Philippines":    "PHP",
	"United States":  "USD",
	"United Kingdom": "GBP",
	"Germany":        "EUR",
	"France":         "EUR",
	"Spain":          "EUR",
	"Portugal":       "EUR",
	"Netherlands":    "EUR",
	"Ireland":        "EUR",
	"Norway":         "NOK",
	"Sweden":         "SEK",
	"Denmark":        "DKK",
	"Poland":         "PLN",
	"India":          "INR",
	"Singapore":      "SGD",
	"Australia":      "AUD",
	"Canada":         "CAD",
	"Brazil":         "BRL",
	"Mexico":         "MXN",
	"Japan":          "JPY",
}

// CurrencyCode maps a worker's country to a payout currency. Contractors are
// always paid in EUR regardless of country; that quirk is load-bearing for
// existing contracts and is locked in by tests.
func CurrencyCode(country, workerType string) string {
	if workerType == "contractor" {
		return "EUR"
	}
	if code, ok := countryCurrencies[strings.TrimSpace(country)]; ok {
		return code
	}
	return "USD"
}

// ParseSalaryValue strips currency symbols, grouping separators and period
// suffixes from a display salary, e.g. "₱85,000/mo" yields "85000".
func ParseSalaryValue(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var currencySymbols = map[string]string{
	"PHP": "₱",
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
	"INR": "₹",
	"JPY": "¥",
}

// FormatAmount rounds to the nearest display unit. This is the only place
// rounding happens; calculator outputs stay unrounded to avoid drift when
// composed.
func FormatAmount(amount float64, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		return fmt.Sprintf("%.2f %s", amount, currency)
	}
	return fmt.Sprintf("%s%.2f", symbol, amount)
}
