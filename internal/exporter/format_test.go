package exporter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "cents", input: "11.95", expected: "11.95"},
		{name: "whole amount", input: "700", expected: "700"},
		{name: "trailing zero dropped", input: "1700.50", expected: "1700.5"},
		{name: "zero", input: "0", expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDecimal(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "23.90", formatMoney(decimal.RequireFromString("23.9")))
	assert.Equal(t, "700.00", formatMoney(decimal.NewFromInt(700)))
	assert.Equal(t, "0.33", formatMoney(decimal.RequireFromString("0.333")))
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "0", formatInt(0))
	assert.Equal(t, "-12", formatInt(-12))
	assert.Equal(t, "9223372036854775807", formatInt(9223372036854775807))
}

func TestFormatTimestamp(t *testing.T) {
	at := time.Date(2019, 4, 19, 8, 46, 0, 0, time.UTC)
	assert.Equal(t, "2019-04-19 08:46:00", formatTimestamp(at))
}
