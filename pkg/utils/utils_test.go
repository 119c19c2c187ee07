package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"150", "150", false},
		{" 1500.50 ", "1500.50", false},
		{"1500,50", "1500.50", false},
		{"-5", "-5", false},
		{"", "", true},
		{"abc", "", true},
		{"1,500,50", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "raw %q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw %q", tt.raw)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "raw %q", tt.raw)
	}
}

func TestParseDateOr(t *testing.T) {
	fallback := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	parsed := ParseDateOr("2026-08-15", fallback)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, time.August, parsed.Month())
	assert.Equal(t, 15, parsed.Day())

	assert.Equal(t, fallback, ParseDateOr("", fallback))
	assert.Equal(t, fallback, ParseDateOr("15/08/2026", fallback))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, time.August, 5, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-05", FormatDate(d))
}
