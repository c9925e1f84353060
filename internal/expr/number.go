package expr

import (
	"math"
	"strconv"
)

// FormatNumber prints v with the fewest digits that parse back to v. NaN and
// the infinities print as NaN, +Inf and -Inf, which the template parser does
// not read as numbers.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// RoundSignificant rounds v to sf significant figures. Non-positive sf,
// zero and non-finite values are returned unchanged.
func RoundSignificant(v float64, sf int) float64 {
	if sf <= 0 || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', sf, 64), 64)
	if err != nil {
		return v
	}
	return r
}
