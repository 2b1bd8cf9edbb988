package jsontext

const hexDigits = "0123456789abcdef"

// AppendQuoted appends the JSON string form of s to dst: surrounding
// double quotes, named escapes for backslash, quote, newline, carriage
// return, tab, form feed, and backspace, and \u00XX escapes for the
// remaining control bytes below 0x20. Everything else, including all
// non-ASCII content, is copied through untouched; s is assumed to already
// be valid UTF-8 and is not validated here.
func AppendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	var prev int
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		dst = append(dst, s[prev:i]...)
		switch c {
		case '\\':
			dst = append(dst, '\\', '\\')
		case '"':
			dst = append(dst, '\\', '"')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\b':
			dst = append(dst, '\\', 'b')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		prev = i + 1
	}
	dst = append(dst, s[prev:]...)
	return append(dst, '"')
}

// Quote returns the JSON string form of s. See [AppendQuoted].
func Quote(s string) string {
	return string(AppendQuoted(make([]byte, 0, len(s)+2), s))
}
