package markup

import "strings"

// htmlEscaper replaces the five HTML-significant characters in a single pass,
// so an "&" produced by one substitution is never escaped again.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape returns s with &, <, >, " and ' replaced by character references.
// An empty string yields an empty string.
func Escape(s string) string {
	if s == "" {
		return ""
	}
	return htmlEscaper.Replace(s)
}
