package email

import (
	"regexp"
	"strings"
)

var tokenRe = regexp.MustCompile(`\{([a-zA-Z0-9_.]+)\}`)

// Render substitutes {token} placeholders in tpl from vars. Tokens with no
// value render as "-" so a half-filled template never leaks raw braces.
func Render(tpl string, vars map[string]string) string {
	return tokenRe.ReplaceAllStringFunc(tpl, func(m string) string {
		key := strings.Trim(m, "{}")
		if v, ok := vars[key]; ok && v != "" {
			return v
		}
		return "-"
	})
}
