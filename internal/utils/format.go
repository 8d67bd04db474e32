package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	sizeStep        = 1024
)

var sizeUnits = []string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatTimestamp renders value in the local zone with second precision.
// The zero time yields an empty string.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(timestampLayout)
}

// FormatElapsed renders a duration as seconds with two decimals, e.g. "1.25 seconds".
func FormatElapsed(elapsed time.Duration) string {
	return fmt.Sprintf("%.2f seconds", elapsed.Seconds())
}

// FormatFileSize renders a byte count with a lower-case binary unit: 512b, 1.5kb, 10mb.
// One decimal is kept below ten units.
func FormatFileSize(byteCount int64) string {
	if byteCount < sizeStep {
		return strconv.FormatInt(max(byteCount, 0), 10) + sizeUnits[0]
	}
	scaled := float64(byteCount)
	unit := 0
	for scaled >= sizeStep && unit < len(sizeUnits)-1 {
		scaled /= sizeStep
		unit++
	}
	precision := 0
	if scaled < 10 {
		precision = 1
	}
	return strings.TrimSuffix(strconv.FormatFloat(scaled, 'f', precision, 64), ".0") + sizeUnits[unit]
}

// DescribeFileSize formats the size of the regular file at path, or returns "" when
// the path cannot be inspected or is a directory.
func DescribeFileSize(path string) string {
	info, statErr := os.Stat(path)
	if statErr != nil || info.IsDir() {
		return ""
	}
	return FormatFileSize(info.Size())
}
