package mathx

import "golang.org/x/exp/constraints"

// DivExact returns a/b and whether b divides a with no remainder.
// b == 0 reports false.
func DivExact[T constraints.Unsigned](a, b T) (T, bool) {
	if b == 0 {
		return 0, false
	}
	return a / b, a%b == 0
}

