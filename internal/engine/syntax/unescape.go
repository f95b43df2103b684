package syntax

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Unescape resolves JavaScript string escapes. Malformed escapes are kept
// verbatim rather than rejected; tree-sitter has already accepted the token.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\r':
			// Line continuation, optionally CRLF.
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			if r, ok := parseHex(s, i+1, 2); ok {
				sb.WriteRune(r)
				i += 2
			} else {
				sb.WriteString(`\x`)
			}
		case 'u':
			r, n := parseUnicode(s, i+1)
			if n == 0 {
				sb.WriteString(`\u`)
				continue
			}
			i += n
			if utf16.IsSurrogate(r) {
				if lo, m := parseLowSurrogate(s, i+1); m > 0 {
					r = utf16.DecodeRune(r, lo)
					i += m
				}
			}
			if !utf8.ValidRune(r) {
				r = utf8.RuneError
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte(e)
		}
	}
	return sb.String()
}

func parseHex(s string, from, width int) (rune, bool) {
	if from+width > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[from:from+width], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// parseUnicode reads the body of a \u escape starting at from and returns the
// rune plus the number of bytes consumed.
func parseUnicode(s string, from int) (rune, int) {
	if from < len(s) && s[from] == '{' {
		end := strings.IndexByte(s[from:], '}')
		if end < 2 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[from+1:from+end], 16, 32)
		if err != nil {
			return 0, 0
		}
		return rune(v), end + 1
	}
	r, ok := parseHex(s, from, 4)
	if !ok {
		return 0, 0
	}
	return r, 4
}

func parseLowSurrogate(s string, from int) (rune, int) {
	if from+1 >= len(s) || s[from] != '\\' || s[from+1] != 'u' {
		return 0, 0
	}
	r, n := parseUnicode(s, from+2)
	if n == 0 || r < 0xDC00 || r > 0xDFFF {
		return 0, 0
	}
	return r, n + 2
}
