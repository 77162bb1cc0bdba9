package ocrparse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// Day name followed by DD.MM.YY, e.g. "Torsdag 07.08.25" or "Lørdag 09.08.25".
	dateHeaderPattern = regexp.MustCompile(`(\p{Latin}+)\s+(\d{2})\.(\d{2})\.(\d{2})`)
	// Signed amount with optional space grouping and a comma or dot before two decimals, e.g. "-1 234,50".
	// \p{Zs} covers the no-break spaces OCR engines emit as thousands separators.
	amountPattern = regexp.MustCompile(`-?\d[\d\s\p{Zs}]*[.,]\d{2}`)
	whitespace    = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// DateHeader is a matched record-start line. DayName is kept verbatim and
// never interpreted.
type DateHeader struct {
	DayName string
	Day     string
	Month   string
	Year    string
}

// ISODate returns the header date as YYYY-MM-DD. Two-digit years are always
// read as 20YY.
func (h DateHeader) ISODate() string {
	return fmt.Sprintf("20%s-%s-%s", h.Year, h.Month, h.Day)
}

// MatchDateHeader finds a "<day name> DD.MM.YY" token anywhere in line.
func MatchDateHeader(line string) (DateHeader, bool) {
	m := dateHeaderPattern.FindStringSubmatch(line)
	if m == nil {
		return DateHeader{}, false
	}
	return DateHeader{DayName: m[1], Day: m[2], Month: m[3], Year: m[4]}, true
}

// MatchAmount finds the first amount token in line and parses it.
func MatchAmount(line string) (decimal.Decimal, bool) {
	token := amountPattern.FindString(line)
	if token == "" {
		return decimal.Zero, false
	}
	normalized := strings.Replace(whitespace.ReplaceAllString(token, ""), ",", ".", 1)
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// hasAmount reports whether line contains an amount token.
func hasAmount(line string) bool {
	return amountPattern.MatchString(line)
}
