package funnel

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "letters only", raw: "abc", want: ""},
		{name: "small number", raw: "50", want: "50"},
		{name: "millions", raw: "1234567", want: "1.234.567"},
		{name: "already grouped", raw: "1.234.567", want: "1.234.567"},
		{name: "currency noise", raw: "$ 2,500,000 ARS", want: "2.500.000"},
		{name: "leading zeros", raw: "007", want: "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalize_OnlyDigitsAndSeparators(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"12a34b56c7", "--99 999 999--", "x1y2z3", "€ 4.000.000,00"} {
		got := Normalize(raw)
		rest := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' || r == '.' {
				return -1
			}
			return r
		}, got)
		assert.Empty(t, rest, "normalize(%q) = %q", raw, got)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"abc", 0},
		{"1.000.000", 1000000},
		{"1,000", 1000},
		{" 42 ", 42},
		{"99999999999999999999999", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Parse(tt.in), "Parse(%q)", tt.in)
	}
}

func TestNormalizeParseRoundTrip(t *testing.T) {
	t.Parallel()
	digits := []string{
		"0", "1", "12", "123", "1234", "12345", "123456", "1000000",
		"0001", "9223372036854775807", "99999999999999999999999",
	}
	for _, s := range digits {
		assert.Equal(t, Parse(s), Parse(Normalize(s)), "round trip %q", s)
	}

	enUS, err := NewFormatter("en-US", "")
	require.NoError(t, err)
	for _, s := range digits {
		assert.Equal(t, Parse(s), Parse(enUS.Normalize(s)), "en-US round trip %q", s)
	}
}

func TestFormatter_EnglishLocale(t *testing.T) {
	t.Parallel()
	f, err := NewFormatter("en-US", "US$")
	require.NoError(t, err)

	assert.Equal(t, "en-US", f.Locale())
	assert.Equal(t, "1,234,567", f.Number(1234567))
	assert.Equal(t, "US$ 2,500,000", f.Currency(2500000))
	assert.Equal(t, "10.50%", f.Percent(10.5))
}

func TestFormatter_DefaultLocale(t *testing.T) {
	t.Parallel()
	f := DefaultFormatter()

	assert.Equal(t, "1.234.567", f.Number(1234567))
	assert.Equal(t, "$ 1.000.000", f.Currency(1000000))
	assert.Equal(t, "$ 20.000", f.Currency(19999.6))
	assert.Equal(t, "$ 0", f.Currency(0))
	assert.Equal(t, "10,50%", f.Percent(10.5))
	assert.Equal(t, "47,00%", f.Percent(47))
}

func TestFormatter_Rate(t *testing.T) {
	t.Parallel()
	f := DefaultFormatter()

	assert.Equal(t, "12.00", f.Rate(12.000000000000002))
	assert.Equal(t, "83.33", f.Rate(250.0/3))
	assert.Equal(t, "0.00", f.Rate(0))
}

func TestFormatter_CurrencySaturates(t *testing.T) {
	t.Parallel()
	f, err := NewFormatter("en-US", "$")
	require.NoError(t, err)

	top := f.Number(math.MaxInt64)
	tests := []struct {
		name string
		v    float64
		want string
	}{
		{name: "2^63", v: math.Pow(2, 63), want: "$ " + top},
		{name: "far beyond int64", v: 1e30, want: "$ " + top},
		{name: "positive infinity", v: math.Inf(1), want: "$ " + top},
		{name: "NaN", v: math.NaN(), want: "$ 0"},
		{name: "largest exact float below 2^63", v: 9223372036854774784, want: "$ 9,223,372,036,854,774,784"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, f.Currency(tt.v))
		})
	}
}

func TestCostPanelFigures_LargestParsedInvestment(t *testing.T) {
	t.Parallel()
	f := DefaultFormatter()

	in := ParseInput("9223372036854775807", "10", "5", "2", "1")
	require.Equal(t, int64(math.MaxInt64), in.Investment)

	cost := Compute(in).Cost
	assert.False(t, cost.WithinTarget)
	assert.NotContains(t, f.Currency(cost.Actual), "-")
	assert.NotContains(t, f.Currency(cost.Delta), "-")
	assert.Equal(t, "$ "+f.Number(math.MaxInt64), f.Currency(cost.Actual))
}

func TestNewFormatter_BadLocale(t *testing.T) {
	t.Parallel()
	_, err := NewFormatter("not a locale!", "$")
	assert.Error(t, err)
}
