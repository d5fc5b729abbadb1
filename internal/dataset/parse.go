package dataset

import (
	"math"
	"strconv"
	"strings"
)

// parseFloat64Or parses a string as a float64, returning def if parsing
// fails or the field is empty.
func parseFloat64Or(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// parseBool parses the boolean spellings that show up across CSV, XLSX, and
// SQL sources ("True", "TRUE", "1", "1.0", "t", "yes"). Anything else is false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "1.0":
		return true
	}
	return false
}

// normalizeID canonicalizes a household ID cell. Integer IDs round-trip
// through float columns as "12345.0" in some exports; those collapse to
// "12345" so the same household matches across sources. Non-numeric IDs
// pass through verbatim.
func normalizeID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	if v != math.Trunc(v) {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// getCol safely retrieves a column value from a row.
func getCol(row []string, colIdx map[string]int, col string) string {
	idx, ok := colIdx[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
