package chart

import (
	"math"
	"strconv"
	"strings"
)

/*
formatCurrency formats a whole-dollar amount with comma separators.

Example:

	-1250.4 -> "-$1,250"
*/
func formatCurrency(amount float64, prefix string) string {
	sign := ""
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}

	raw := strconv.FormatInt(rounded, 10)
	return sign + prefix + groupThousands(raw, ",")
}

/*
groupThousands groups digits in a base-10 string using the provided separator.
*/
func groupThousands(raw string, sep string) string {
	if len(raw) <= 3 {
		return raw
	}

	var builder strings.Builder
	firstGroupLen := len(raw) % 3
	if firstGroupLen == 0 {
		firstGroupLen = 3
	}

	builder.WriteString(raw[:firstGroupLen])

	for index := firstGroupLen; index < len(raw); index += 3 {
		builder.WriteString(sep)
		builder.WriteString(raw[index : index+3])
	}

	return builder.String()
}
