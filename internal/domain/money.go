package domain

import "github.com/shopspring/decimal"

// FormatRub renders a kopeck amount as a ruble string for display and logs,
// e.g. 149900 -> "1499.00 ₽".
func FormatRub(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2) + " ₽"
}
