// Package utils provides small helpers for parsing request parameters.
package utils

import (
	"strconv"
	"strings"
)

// AtoiDefault converts s to an int, returning def when s is empty or not an
// integer.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// HistoryLimit parses a "keep the N most recent" query value. Empty or
// invalid input means 0 (no limit); results are clamped to [0, max].
//
//	utils.HistoryLimit("20", 500)   // 20
//	utils.HistoryLimit("-3", 500)   // 0
//	utils.HistoryLimit("9000", 500) // 500
func HistoryLimit(s string, max int) int {
	n := AtoiDefault(strings.TrimSpace(s), 0)
	switch {
	case n < 0:
		return 0
	case max > 0 && n > max:
		return max
	}
	return n
}
