package markup

import (
	"regexp"
	"strings"
)

const fence = "```"

var (
	lineBreakPattern  = regexp.MustCompile(`\r?\n`)
	fenceOpenPattern  = regexp.MustCompile("^```([\\w+#.-]*)$")
	bulletPattern     = regexp.MustCompile(`^[-*](?:\s+|$)`)
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
)

// state is the line classifier's mode.
type state int

const (
	stateNormal state = iota
	stateBulletList
	stateCodeBlock
)

// Converter turns free-text annotations into blocks. It supports paragraphs,
// "-"/"*" bullet lists, fenced code blocks and `inline code`; it is not a
// Markdown parser. A Converter holds no per-call state and is safe for
// concurrent use.
type Converter struct {
	detector LanguageDetector
}

// Option configures a Converter.
type Option func(*Converter)

// WithLanguageDetector guesses a language for fences that declare none.
func WithLanguageDetector(d LanguageDetector) Option {
	return func(c *Converter) { c.detector = d }
}

// NewConverter creates a converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert classifies text line by line and returns blocks in the order they
// were flushed.
func (c *Converter) Convert(text string) []Block {
	s := &scanner{detector: c.detector}
	for _, line := range lineBreakPattern.Split(text, -1) {
		s.feed(line)
	}
	s.finish()
	return s.blocks
}

// scanner carries the running state of one Convert call.
type scanner struct {
	state    state
	bullets  []string
	language string
	code     []string
	blocks   []Block
	detector LanguageDetector
}

func (s *scanner) feed(line string) {
	trimmed := strings.TrimSpace(line)

	if s.state == stateCodeBlock {
		if trimmed == fence {
			s.flushCode()
			return
		}
		s.code = append(s.code, line)
		return
	}

	if m := fenceOpenPattern.FindStringSubmatch(trimmed); m != nil {
		s.flushBullets()
		s.state = stateCodeBlock
		s.language = m[1]
		return
	}

	switch {
	case bulletPattern.MatchString(trimmed):
		loc := bulletPattern.FindStringIndex(trimmed)
		s.bullets = append(s.bullets, trimmed[loc[1]:])
		s.state = stateBulletList
	case trimmed != "":
		s.flushBullets()
		s.blocks = append(s.blocks, Paragraph{Inline: RenderInline(trimmed)})
	default:
		s.flushBullets()
	}
}

// finish flushes whatever is still open. An unterminated fence is rendered
// with the content captured so far.
func (s *scanner) finish() {
	s.flushBullets()
	if s.state == stateCodeBlock {
		s.flushCode()
	}
}

func (s *scanner) flushBullets() {
	if s.state != stateBulletList {
		return
	}
	items := make([]string, len(s.bullets))
	for i, b := range s.bullets {
		items[i] = RenderInline(b)
	}
	s.blocks = append(s.blocks, BulletList{Items: items})
	s.bullets = nil
	s.state = stateNormal
}

func (s *scanner) flushCode() {
	if len(s.code) > 0 {
		code := strings.Join(s.code, "\n")
		lang := s.language
		if lang == "" && s.detector != nil {
			lang = s.detector.Detect(code)
		}
		s.blocks = append(s.blocks, CodeBlock{Language: lang, Code: code})
	}
	s.code = nil
	s.language = ""
	s.state = stateNormal
}

// RenderInline renders one line of inline text: backtick spans become
// escaped <code> elements and the rest goes through SanitizeBasic.
func RenderInline(s string) string {
	matches := inlineCodePattern.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return SanitizeBasic(s)
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(SanitizeBasic(s[last:m[0]]))
		b.WriteString("<code>")
		b.WriteString(Escape(s[m[2]:m[3]]))
		b.WriteString("</code>")
		last = m[1]
	}
	b.WriteString(SanitizeBasic(s[last:]))
	return b.String()
}
