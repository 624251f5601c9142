package utils

import (
	"strings"
)

// Company-name aliases for the tickers reports are published on.
var tickerAliases = map[string]string{
	"BIKAJI":                          "BIKAJI",
	"BIKAJI FOODS":                    "BIKAJI",
	"BIKAJI FOODS INTERNATIONAL":      "BIKAJI",
	"IDFCFIRSTB":                      "IDFCFIRSTB",
	"IDFC FIRST":                      "IDFCFIRSTB",
	"IDFC FIRST BANK":                 "IDFCFIRSTB",
	"IDFC":                            "IDFCFIRSTB",
	"ABLBL":                           "ABLBL",
	"ADITYA BIRLA LIFESTYLE":          "ABLBL",
	"ADITYA BIRLA LIFESTYLE BRANDS":   "ABLBL",
	"ABFRL":                           "ABFRL",
	"ADITYA BIRLA FASHION":            "ABFRL",
	"ADITYA BIRLA FASHION AND RETAIL": "ABFRL",
	"CELLO":                           "CELLO",
	"CELLO WORLD":                     "CELLO",
	"SULA":                            "SULA",
	"SULA VINEYARDS":                  "SULA",
}

// NormalizeTicker normalizes a user-input ticker to the canonical NSE format.
// It handles aliases, uppercasing, whitespace, a leading "$", an "NSE:"
// prefix and Yahoo-style ".NS"/".BO" suffixes.
func NormalizeTicker(ticker string) string {
	ticker = strings.Join(strings.Fields(strings.ToUpper(ticker)), " ")

	ticker = strings.TrimPrefix(ticker, "$")
	ticker = strings.TrimPrefix(ticker, "NSE:")
	ticker = strings.TrimSpace(ticker)
	ticker = strings.TrimSuffix(ticker, ".NS")
	ticker = strings.TrimSuffix(ticker, ".BO")
	ticker = strings.TrimSuffix(ticker, " LTD")

	if canonical, ok := tickerAliases[ticker]; ok {
		return canonical
	}
	return ticker
}

// TickerSlug turns a ticker into a lowercase file-system name:
// "IDFCFIRSTB" → "idfcfirstb", "M&M" → "m-m".
func TickerSlug(ticker string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(NormalizeTicker(ticker)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
