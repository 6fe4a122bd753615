// Package strx holds small string helpers shared by the CLI and the config
// parsers. No allocation on the hot paths, so they are fine on the MCU.
package strx

// Coalesce returns the first non-empty value, or "" when there is none.
func Coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// CutSuffixAny strips the first of suffixes that s ends with. It reports
// which one matched; order matters when one suffix ends another ("MHz", "Hz").
func CutSuffixAny(s string, suffixes ...string) (rest, matched string, ok bool) {
	for _, suf := range suffixes {
		if len(s) >= len(suf) && s[len(s)-len(suf):] == suf {
			return s[:len(s)-len(suf)], suf, true
		}
	}
	return s, "", false
}
