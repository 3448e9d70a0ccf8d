package exporter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"salescli/pkg/contracts/domain"
)

// formatDecimal writes the shortest exact form, so 11.95 stays 11.95 and 700 stays 700
func formatDecimal(d decimal.Decimal) string {
	return d.String()
}

// formatMoney formats an amount with exactly 2 decimal places
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatTimestamp formats an order date the way the cleaned checkpoint stores it
func formatTimestamp(t time.Time) string {
	return t.Format(domain.CheckpointDateLayout)
}
