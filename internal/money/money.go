package money

import (
	"math"
	"strconv"
	"strings"
)

// FormatPesos renders an amount as "$12.500" with dot thousands
// separators. Catalog prices are whole pesos; fractions round to the
// nearest peso.
func FormatPesos(amount float64) string {
	n := int64(math.Round(amount))

	neg := n < 0
	if neg {
		n = -n
	}

	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3 + 2)
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')

	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}
