package exporter

import (
	"math"
	"strconv"
)

// formatFloat rounds to two decimals and drops trailing zeros
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatShare renders a 0..1 share as a percentage with one decimal
func formatShare(f float64) string {
	return strconv.FormatFloat(math.Round(f*1000)/10, 'f', 1, 64) + "%"
}
