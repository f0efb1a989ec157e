package funnel

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Display defaults used when no configuration overrides them.
const (
	DefaultLocale         = "es-AR"
	DefaultCurrencySymbol = "$"
)

// Formatter renders funnel numbers for display in a fixed locale.
type Formatter struct {
	tag    language.Tag
	p      *message.Printer
	symbol string
}

// NewFormatter creates a Formatter for a BCP-47 locale. An empty symbol falls
// back to DefaultCurrencySymbol.
func NewFormatter(locale, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, eris.Wrapf(err, "funnel: parse locale %q", locale)
	}
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return &Formatter{tag: tag, p: message.NewPrinter(tag), symbol: symbol}, nil
}

var defaultFormatter = &Formatter{
	tag:    language.MustParse(DefaultLocale),
	p:      message.NewPrinter(language.MustParse(DefaultLocale)),
	symbol: DefaultCurrencySymbol,
}

// DefaultFormatter returns the shared es-AR formatter.
func DefaultFormatter() *Formatter { return defaultFormatter }

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() string { return f.tag.String() }

// Number formats n with the locale's thousands separator.
func (f *Formatter) Number(n int64) string {
	return f.p.Sprintf("%d", n)
}

// Currency formats v rounded to whole units, grouped, with the currency symbol.
// Values beyond the int64 range saturate instead of wrapping.
func (f *Formatter) Currency(v float64) string {
	return f.symbol + " " + f.Number(roundToInt64(v))
}

// Rate formats a conversion rate with exactly two decimals and a dot
// separator, the way chart labels show it.
func (f *Formatter) Rate(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}

// Percent formats v with two locale decimals and a "%" suffix.
func (f *Formatter) Percent(v float64) string {
	return f.p.Sprintf("%v%%", number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Normalize keeps the digits of raw and regroups them for display. Input
// with no digits yields "".
func (f *Formatter) Normalize(raw string) string {
	digits := digitsOnly(raw)
	if digits == "" {
		return ""
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// Too large to group; Parse still maps it to 0.
		return digits
	}
	return f.Number(n)
}

// Normalize formats raw input with the default formatter.
func Normalize(raw string) string { return defaultFormatter.Normalize(raw) }

// Parse strips every non-digit from s and reads the rest as a base-10
// integer. Empty or out-of-range input yields 0.
func Parse(s string) int64 {
	digits := digitsOnly(s)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// roundToInt64 rounds v to the nearest integer, clamped to the int64 range.
// float64(math.MaxInt64) is 2^63, so the upper check must be inclusive.
func roundToInt64(v float64) int64 {
	r := math.Round(v)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	}
	return int64(r)
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
