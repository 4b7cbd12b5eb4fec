package clock

import "strconv"

// trimZeros formats v to prec decimals and strips a trailing ".00"/".0" when
// the value happens to be a whole number, so Nanos{1_000_000}.String() reads
// "1ms" rather than "1.00ms".
func trimZeros(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if prec == 0 {
		return s
	}
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}
