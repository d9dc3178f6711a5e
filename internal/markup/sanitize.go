package markup

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// Formatting tags that may be reopened after escaping.
	formattingTagPattern = regexp.MustCompile(`(?i)&lt;(/?(?:b|strong|i|em))&gt;`)

	// The href capture accepts escaped text but can never contain &quot;,
	// so no attribute beyond href can be smuggled in.
	anchorOpenPattern  = regexp.MustCompile(`(?i)&lt;a href=&quot;((?:[^&]|&(?:amp|lt|gt|#039);)+)&quot;&gt;`)
	anchorClosePattern = regexp.MustCompile(`(?i)&lt;/a&gt;`)

	hrefPolicy = newHrefPolicy()
)

// newHrefPolicy accepts http, https, mailto and relative URLs on anchors.
func newHrefPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	return p
}

// SanitizeBasic escapes s and then reopens the allow-listed formatting tags:
// b, strong, i, em (open and close), <a href="..."> and </a>. Reopened
// anchors always carry target="_blank" rel="noopener noreferrer". Every
// other tag stays escaped and renders as visible text.
func SanitizeBasic(s string) string {
	escaped := Escape(s)
	if !strings.Contains(escaped, "&lt;") {
		return escaped
	}

	out := formattingTagPattern.ReplaceAllString(escaped, "<${1}>")
	out = anchorOpenPattern.ReplaceAllStringFunc(out, func(m string) string {
		href := anchorOpenPattern.FindStringSubmatch(m)[1]
		if !allowedHref(href) {
			return m
		}
		return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">`
	})
	return anchorClosePattern.ReplaceAllString(out, "</a>")
}

// allowedHref reports whether an escaped href value survives hrefPolicy.
func allowedHref(escaped string) bool {
	raw := html.UnescapeString(escaped)
	if strings.TrimSpace(raw) == "" {
		return false
	}
	probe := hrefPolicy.Sanitize(`<a href="` + Escape(raw) + `">x</a>`)
	return strings.Contains(probe, "href=")
}
