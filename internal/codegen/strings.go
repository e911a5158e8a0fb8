package codegen

import "strings"

// mipsEscape renders a raw Go string (already unescaped by the lexer) as
// the contents of a SPIM .asciiz directive.
func mipsEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// roundUp4 rounds n up to the next multiple of 4, the word alignment
// every inline byte payload (string constants, buffers) needs.
func roundUp4(n int) int {
	return (n + 3) &^ 3
}
