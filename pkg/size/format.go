// Package size formats byte counts for the size report.
//
// The unit ladder is B, KB, MB, TB. There is intentionally no GB step: the
// report has always jumped from MB to TB and existing outputs depend on it.
package size

import "strconv"

// Units is the unit ladder used by Format, smallest first.
var Units = []string{"B", "KB", "MB", "TB"}

// Step is the factor between two adjacent units.
const Step = 1024

// Format converts a byte count into a human readable string.
//
// The value advances one unit while it is strictly greater than Step and a
// larger unit remains, so Format(1024) is "1024 B" and Format(1025) is
// "1.00 KB". Byte counts are printed as integers; every other unit uses two
// decimal places.
//
// Examples:
//
//	Format(512)     // "512 B"
//	Format(2048)    // "2.00 KB"
//	Format(1 << 20) // "1024.00 KB"
func Format(n int64) string {
	div := int64(1)
	unit := 0
	for n > div*Step && unit < len(Units)-1 {
		div *= Step
		unit++
	}
	if unit == 0 {
		return strconv.FormatInt(n, 10) + " " + Units[0]
	}
	return fixed2(n, div) + " " + Units[unit]
}

// fixed2 prints n/div with two decimals. Exact ties round up, so
// fixed2(1152, 1024) is "1.13".
func fixed2(n, div int64) string {
	q, r := n/div, n%div
	cents := q*100 + r*100/div
	if rem := r * 100 % div; 2*rem >= div {
		cents++
	}
	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) < 2 {
		frac = "0" + frac
	}
	return strconv.FormatInt(cents/100, 10) + "." + frac
}
