package markup

import "strings"

// Block is one rendered fragment of a post body.
type Block interface {
	HTML() string
}

// Paragraph holds inline HTML that has already been sanitized.
type Paragraph struct {
	Inline string
}

func (p Paragraph) HTML() string { return "<p>" + p.Inline + "</p>" }

// BulletList holds one sanitized inline HTML string per item.
type BulletList struct {
	Items []string
}

func (l BulletList) HTML() string {
	var b strings.Builder
	b.WriteString("<ul>")
	for _, item := range l.Items {
		b.WriteString("<li>")
		b.WriteString(item)
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

// CodeBlock holds raw code; it is escaped when rendered.
type CodeBlock struct {
	Language string
	Code     string
}

func (c CodeBlock) HTML() string {
	var b strings.Builder
	b.WriteString("<pre><code")
	if c.Language != "" {
		b.WriteString(` class="language-`)
		b.WriteString(Escape(c.Language))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	b.WriteString(Escape(c.Code))
	b.WriteString("</code></pre>")
	return b.String()
}

// Blockquote holds a raw highlighted passage.
type Blockquote struct {
	Text string
}

func (q Blockquote) HTML() string { return "<blockquote><p>" + Escape(q.Text) + "</p></blockquote>" }

// Embed is trusted player markup produced by the media package.
type Embed struct {
	Markup string
}

func (e Embed) HTML() string { return e.Markup }

// Separator is a line break between content groups.
type Separator struct{}

func (Separator) HTML() string { return "<br>" }
