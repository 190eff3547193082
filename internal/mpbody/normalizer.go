package mpbody

import "strings"

// CRLF is the canonical line break marker used for part headers and fields.
const CRLF = "\r\n"

func isBreak(c byte) bool {
	return c == '\r' || c == '\n'
}

// Normalize rewrites every line break in text as marker. A CR LF or LF CR
// pair counts as a single break; two identical break characters in a row
// count as two. An empty marker selects CRLF.
func Normalize(text, marker string) string {
	if marker == "" {
		marker = CRLF
	}

	var out strings.Builder
	out.Grow(len(text) + len(text)/8)

	var last byte // 0 when the previous character did not start a break
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !isBreak(c) {
			out.WriteByte(c)
			last = 0
			continue
		}
		if isBreak(last) {
			// second half of a pair, or a repeated break
			if c == last {
				out.WriteString(marker)
			}
			last = 0
			continue
		}
		out.WriteString(marker)
		last = c
	}

	return out.String()
}
