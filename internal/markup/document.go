package markup

import (
	"fmt"
	"strings"
)

const (
	// CardBegin and CardEnd wrap the body as a raw HTML card.
	CardBegin = "<!--kg-card-begin: html-->"
	CardEnd   = "<!--kg-card-end: html-->"

	// ContainerClass marks the metadata container.
	ContainerClass = "link-item"

	AttrID      = "raindrop-id"
	AttrTitle   = "raindrop-title"
	AttrLink    = "raindrop-link"
	AttrCreated = "raindrop-created"
	AttrTags    = "raindrop-tags"
)

// IDAttribute renders the identifier attribute exactly as it appears in a
// document. Existing posts are recognised by this substring.
func IDAttribute(id string) string {
	return fmt.Sprintf(`%s="%s"`, AttrID, id)
}

// Metadata is carried as attributes of the container that opens every
// document.
type Metadata struct {
	ID      string
	Title   string
	Link    string
	Created string // display date, already formatted
	Tags    []string
}

// openTag renders the container. The identifier is an opaque token from the
// bookmark service and is written unescaped; every other value is escaped.
func (m Metadata) openTag() string {
	return fmt.Sprintf(`<div class="%s" %s %s="%s" %s="%s" %s="%s" %s="%s">`,
		ContainerClass,
		IDAttribute(m.ID),
		AttrTitle, Escape(m.Title),
		AttrLink, Escape(m.Link),
		AttrCreated, Escape(m.Created),
		AttrTags, Escape(strings.Join(m.Tags, ",")),
	)
}

// Document is an immutable post body: the metadata container followed by
// content blocks.
type Document struct {
	meta   Metadata
	blocks []Block
}

// NewDocument builds a document from metadata and blocks in order.
func NewDocument(meta Metadata, blocks []Block) *Document {
	meta.Tags = append([]string(nil), meta.Tags...)
	return &Document{
		meta:   meta,
		blocks: append([]Block(nil), blocks...),
	}
}

// Metadata returns the container attributes.
func (d *Document) Metadata() Metadata { return d.meta }

// Blocks returns a copy of the content blocks.
func (d *Document) Blocks() []Block { return append([]Block(nil), d.blocks...) }

// String serializes the document inside the card markers.
func (d *Document) String() string {
	parts := make([]string, 0, len(d.blocks)+2)
	parts = append(parts, d.meta.openTag())
	for _, b := range d.blocks {
		parts = append(parts, b.HTML())
	}
	parts = append(parts, "</div>")
	return CardBegin + "\n" + strings.Join(parts, "\n") + "\n" + CardEnd
}
