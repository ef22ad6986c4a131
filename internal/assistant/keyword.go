package assistant

import (
	"strings"
	"unicode"
)

// keyword is a trigger term. Whole-word keywords only match when bounded by
// non-alphanumerics, so "hi" does not fire inside "this".
type keyword struct {
	text  string
	whole bool
}

func word(s string) keyword   { return keyword{text: s, whole: true} }
func phrase(s string) keyword { return keyword{text: s} }

// in reports whether k occurs in msg, which must already be case-folded.
func (k keyword) in(msg string) bool {
	if !k.whole {
		return strings.Contains(msg, k.text)
	}
	for i := 0; ; {
		j := strings.Index(msg[i:], k.text)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(k.text)
		if boundaryBefore(msg, start) && boundaryAfter(msg, end) {
			return true
		}
		i = start + 1
	}
}

func anyIn(msg string, kws ...keyword) bool {
	for _, k := range kws {
		if k.in(msg) {
			return true
		}
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r := rune(s[i-1])
	return r < 0x80 && !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r := rune(s[i])
	return r < 0x80 && !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func normalize(msg string) string {
	return strings.ToLower(strings.TrimSpace(msg))
}
