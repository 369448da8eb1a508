package ast

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var simpleEscape = map[byte]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'v':  '\v',
}

// Unescape decodes the backslash escapes of a string literal body:
//
//	\n \t \r \\ \' \" \a \b \f \v
//	\o \oo \ooo   octal code point
//	\xhh          two hex digits
//	\uhhhh        four hex digits
//	\Uhhhhhhhh    eight hex digits
//
// Any other or malformed escape is kept verbatim.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var sb strings.Builder

	sb.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 >= len(s) {
			sb.WriteByte(s[i])
			i++

			continue
		}

		r, n, ok := decodeEscape(s[i+1:])
		if !ok {
			sb.WriteByte('\\')
			i++

			continue
		}

		sb.WriteRune(r)
		i += 1 + n
	}

	return sb.String()
}

// decodeEscape decodes the escape whose introducing backslash precedes
// rest. It returns the rune and the number of bytes consumed from rest.
func decodeEscape(rest string) (rune, int, bool) {
	c := rest[0]

	if r, ok := simpleEscape[c]; ok {
		return r, 1, true
	}

	switch {
	case c >= '0' && c <= '7':
		n := 1
		for n < 3 && n < len(rest) && rest[n] >= '0' && rest[n] <= '7' {
			n++
		}

		v, _ := strconv.ParseUint(rest[:n], 8, 32)

		return rune(v), n, true

	case c == 'x':
		return hexEscape(rest, 2)

	case c == 'u':
		return hexEscape(rest, 4)

	case c == 'U':
		return hexEscape(rest, 8)
	}

	return 0, 0, false
}

func hexEscape(rest string, digits int) (rune, int, bool) {
	if len(rest) < 1+digits {
		return 0, 0, false
	}

	v, err := strconv.ParseUint(rest[1:1+digits], 16, 32)
	if err != nil || v > utf8.MaxRune {
		return 0, 0, false
	}

	return rune(v), 1 + digits, true
}
