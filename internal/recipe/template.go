package recipe

import (
	"regexp"
	"strings"
)

var varRe = regexp.MustCompile(`\$(?:\$|[A-Za-z_][A-Za-z0-9_]*|\{[A-Za-z_][A-Za-z0-9_]*\})`)

// Substitute replaces $NAME and ${NAME} references in text with values from
// vars. References to unknown variables are left verbatim so that a recipe
// never loses information to a missing variable. "$$" yields a literal "$".
func Substitute(text string, vars map[string]string) string {
	return varRe.ReplaceAllStringFunc(text, func(match string) string {
		if match == "$$" {
			return "$"
		}
		name := match[1:]
		if strings.HasPrefix(name, "{") {
			name = name[1 : len(name)-1]
		}
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})
}
