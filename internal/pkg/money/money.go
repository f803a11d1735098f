package money

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Round rounds v half away from zero to the given number of decimal places.
// It is meant for presentation only; keep full precision in calculations.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Percent returns part/whole*100 rounded to one decimal, or 0 when whole is 0
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return Round(part/whole*100, 1)
}

// Average returns sum/count, or 0 when count is 0
func Average(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Format renders an amount with thousands separators (1000000 -> "1,000,000")
func Format(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}
