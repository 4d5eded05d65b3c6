package analysis

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators, e.g. "10,000".
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent renders a percentage with two decimals, e.g. "20.37%".
func FormatPercent(p float64) string {
	return printer.Sprintf("%.2f%%", p)
}
