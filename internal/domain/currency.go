package domain

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const USD = "USD"

// SupportedCurrencies lists the display currencies, USD first.
var SupportedCurrencies = []string{
	"USD", "EUR", "GBP", "JPY", "CNY", "INR", "KRW", "AUD", "CAD", "CHF",
	"BRL", "MXN", "SEK", "NOK", "DKK", "PLN", "SGD", "HKD", "NZD", "ZAR",
}

var fallbackRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 150.0,
	"CNY": 7.2,
	"INR": 83.0,
	"KRW": 1350.0,
	"AUD": 1.52,
	"CAD": 1.36,
	"CHF": 0.88,
	"BRL": 5.0,
	"MXN": 17.0,
	"SEK": 10.5,
	"NOK": 10.6,
	"DKK": 6.9,
	"PLN": 4.0,
	"SGD": 1.35,
	"HKD": 7.8,
	"NZD": 1.65,
	"ZAR": 18.5,
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "CN¥",
	"INR": "₹",
	"KRW": "₩",
	"AUD": "A$",
	"CAD": "CA$",
	"BRL": "R$",
	"MXN": "MX$",
	"PLN": "zł",
	"SGD": "S$",
	"HKD": "HK$",
	"NZD": "NZ$",
	"ZAR": "R",
}

// zero-decimal currencies are displayed without a fractional part.
var zeroDecimalCurrencies = map[string]struct{}{
	"JPY": {},
	"KRW": {},
}

// RateTable maps currency codes to their rate relative to USD.
type RateTable struct {
	Rates     map[string]float64
	FetchedAt time.Time
}

// FallbackRateTable returns a copy of the hard-coded rates used when the FX
// endpoint is unreachable. Its FetchedAt is zero so it is never treated as fresh.
func FallbackRateTable() RateTable {
	rates := make(map[string]float64, len(fallbackRates))
	for code, rate := range fallbackRates {
		rates[code] = rate
	}
	return RateTable{Rates: rates}
}

func (t RateTable) IsEmpty() bool {
	return len(t.Rates) == 0
}

// IsFresh reports whether the table was fetched less than maxAge before now.
func (t RateTable) IsFresh(now time.Time, maxAge time.Duration) bool {
	if t.IsEmpty() || t.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(t.FetchedAt) < maxAge
}

func (t RateTable) Rate(code string) (float64, bool) {
	rate, ok := t.Rates[normalizeCode(code)]
	if !ok || rate == 0 {
		return 0, false
	}
	return rate, true
}

// Codes returns the table's currency codes in sorted order.
func (t RateTable) Codes() []string {
	codes := make([]string, 0, len(t.Rates))
	for code := range t.Rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Convert pivots amount through USD. It reports false when a required rate is
// missing or zero.
func Convert(amount float64, from, to string, table RateTable) (float64, bool) {
	from = normalizeCode(from)
	to = normalizeCode(to)
	if from == to {
		return amount, true
	}

	amountUSD := amount
	if from != USD {
		rate, ok := table.Rate(from)
		if !ok {
			return 0, false
		}
		amountUSD = amount / rate
	}

	if to == USD {
		return amountUSD, true
	}

	rate, ok := table.Rate(to)
	if !ok {
		return 0, false
	}
	return amountUSD * rate, true
}

// Symbol returns the display symbol for code, or the code followed by a space
// when no symbol is known.
func Symbol(code string) string {
	code = normalizeCode(code)
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return code + " "
}

func IsSupportedCurrency(code string) bool {
	code = normalizeCode(code)
	for _, supported := range SupportedCurrencies {
		if supported == code {
			return true
		}
	}
	return false
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders amount with the currency symbol, e.g. "€18.40".
func FormatAmount(amount float64, code string) string {
	code = normalizeCode(code)
	if _, ok := zeroDecimalCurrencies[code]; ok {
		return Symbol(code) + amountPrinter.Sprintf("%.0f", amount)
	}
	return Symbol(code) + amountPrinter.Sprintf("%.2f", amount)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
