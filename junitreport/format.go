package junitreport

import (
	"strconv"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02T15:04:05"

// formatDuration renders a millisecond duration as seconds, with at least two
// and at most three fraction digits.
func formatDuration(milliseconds float64) string {
	seconds := strconv.FormatFloat(milliseconds/1000, 'f', 3, 64)
	return strings.TrimSuffix(seconds, "0")
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
