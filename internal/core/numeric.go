// Package core holds the typed tables, numeric coercion and the pure
// aggregation functions of the dashboard.
//
// This file parses monetary cells. Sheet values arrive as formatted
// strings and may carry a currency prefix, thousands separators in either
// locale convention ("1.234.567" or "1,234,567") and an optional decimal
// part.
package core

import (
	"math"
	"strconv"
	"strings"
)

// CoerceRupiah converts a cell to Rupiah, mapping anything unparseable to
// zero. It never fails: downstream aggregation must only ever see numbers.
func CoerceRupiah(s string) Rupiah {
	v, ok := parseRupiah(s)
	if !ok {
		return 0
	}
	return v
}

// ParseRupiah converts user input to Rupiah, rejecting values that are
// not well-formed numbers. Used on the form path, where a bad amount is a
// validation failure rather than a silent zero.
func ParseRupiah(s string) (Rupiah, error) {
	v, ok := parseRupiah(s)
	if !ok {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

func parseRupiah(s string) (Rupiah, bool) {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"Rp", "rp", "RP"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, false
	}

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, ok := splitSeparators(s)
	if !ok {
		return 0, false
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	if intPart == "" && fracPart == "" {
		return 0, false
	}
	if intPart == "" {
		intPart = "0"
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false
	}
	v := float64(iv)
	if fracPart != "" {
		f, err := strconv.ParseFloat("0."+fracPart, 64)
		if err != nil {
			return 0, false
		}
		v += f
	}
	out := Rupiah(math.Round(v))
	if neg {
		out = -out
	}
	return out, true
}

// splitSeparators strips thousands separators and splits off the decimal
// part. With both '.' and ',' present the one appearing last is the
// decimal separator. A single separator followed by exactly three digits
// is read as a thousands separator ("5.000" is five thousand rupiah, not
// five); any other single occurrence is decimal.
func splitSeparators(s string) (intPart, fracPart string, ok bool) {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	var decSep, thouSep string
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			decSep, thouSep = ".", ","
		} else {
			decSep, thouSep = ",", "."
		}
	case lastDot >= 0:
		decSep = "."
	case lastComma >= 0:
		decSep = ","
	default:
		return s, "", true
	}

	if thouSep == "" && strings.Count(s, decSep) == 1 && len(s)-strings.Index(s, decSep) == 4 {
		// Lone separator with a three-digit group: thousands notation.
		return strings.Replace(s, decSep, "", 1), "", true
	}
	if strings.Count(s, decSep) > 1 {
		// Repeated separator can only be a thousands separator.
		return strings.ReplaceAll(s, decSep, ""), "", true
	}

	if thouSep != "" {
		s = strings.ReplaceAll(s, thouSep, "")
	}
	parts := strings.SplitN(s, decSep, 2)
	intPart = parts[0]
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return "", "", false
	}
	return intPart, fracPart, true
}
