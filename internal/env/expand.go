// Package env expands ${env.NAME} references in configuration text.
package env

import (
	"os"
	"strings"
)

const prefix = "${env."

// Expand replaces every ${env.NAME} with the value of NAME ("" when unset).
// NAME may hold letters, digits and '_'; anything else leaves the reference
// as literal text.  An unterminated reference is kept verbatim.
func Expand(text string) string {
	if !strings.Contains(text, prefix) {
		return text
	}
	var out strings.Builder
	for {
		start := strings.Index(text, prefix)
		if start < 0 {
			out.WriteString(text)
			return out.String()
		}
		out.WriteString(text[:start])
		rest := text[start+len(prefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			out.WriteString(text[start:])
			return out.String()
		}
		name := rest[:end]
		if !isName(name) {
			out.WriteString(prefix)
			text = rest
			continue
		}
		out.WriteString(os.Getenv(name))
		text = rest[end+1:]
	}
}

func isName(name string) bool {
	for _, r := range name {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
