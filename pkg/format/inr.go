// Package format renders amounts for display.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// IndianEnglish is the locale amounts are grouped in (12,34,567).
var IndianEnglish = language.MustParse("en-IN")

var inrPrinter = message.NewPrinter(IndianEnglish)

// Number formats v with en-IN digit grouping and at most two decimals.
func Number(v float64) string {
	return inrPrinter.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

// INR formats v as a rupee amount, e.g. ₹4,000.
func INR(v float64) string {
	return "₹" + Number(v)
}
