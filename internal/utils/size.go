package utils

import (
	"strconv"
	"strings"
)

const sizeUnitStep = 1024

// sizeUnits holds one suffix per power of sizeUnitStep.
var sizeUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a document size for the summary log line, such as "512b", "1.5kb"
// or "10mb". Scaled values below ten keep one decimal; negative sizes render as "0b".
func FormatFileSize(byteCount int64) string {
	if byteCount < sizeUnitStep {
		return strconv.FormatInt(max(byteCount, 0), 10) + sizeUnits[0]
	}
	scaled := float64(byteCount)
	unitIndex := 0
	for scaled >= sizeUnitStep && unitIndex < len(sizeUnits)-1 {
		scaled /= sizeUnitStep
		unitIndex++
	}
	precision := 0
	if scaled < 10 {
		precision = 1
	}
	formatted := strconv.FormatFloat(scaled, 'f', precision, 64)
	return strings.TrimSuffix(formatted, ".0") + sizeUnits[unitIndex]
}
