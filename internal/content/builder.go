package content

import (
	"strings"
	"time"
	_ "time/tzdata" // display dates use a fixed zone regardless of host tzdata

	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/markup"
	"github.com/MrSnakeDoc/linkpost/internal/media"
)

const (
	// DefaultBaseTag is put first on every synced post.
	DefaultBaseTag = "links"
	// DefaultTimezone is the zone used for display dates.
	DefaultTimezone = "America/Los_Angeles"

	displayDateLayout = "January 2, 2006"
)

// Builder turns a bookmark into a post body and payload.
type Builder struct {
	converter *markup.Converter
	location  *time.Location
	baseTag   string
}

// NewBuilder creates a builder. A nil location means UTC and an empty base
// tag means DefaultBaseTag.
func NewBuilder(converter *markup.Converter, location *time.Location, baseTag string) *Builder {
	if converter == nil {
		converter = markup.NewConverter()
	}
	if location == nil {
		location = time.UTC
	}
	if baseTag == "" {
		baseTag = DefaultBaseTag
	}
	return &Builder{
		converter: converter,
		location:  location,
		baseTag:   baseTag,
	}
}

// BaseTag returns the tag every synced post carries.
func (b *Builder) BaseTag() string { return b.baseTag }

// Build renders the document and the payload for bm.
func (b *Builder) Build(bm *domain.Bookmark) (*markup.Document, domain.PostPayload) {
	embed, hasEmbed := media.Detect(bm.Link)

	var blocks []markup.Block
	if strings.TrimSpace(bm.Note) != "" {
		blocks = append(blocks, b.converter.Convert(bm.Note)...)
	}

	if hasEmbed {
		if len(blocks) > 0 {
			blocks = append(blocks, markup.Separator{})
		}
		blocks = append(blocks, markup.Embed{Markup: embed.HTML()})
	}

	rendered := 0
	for _, h := range bm.Highlights {
		if strings.TrimSpace(h.Text) == "" {
			continue
		}
		if rendered == 0 && len(blocks) > 0 {
			blocks = append(blocks, markup.Separator{})
		}
		rendered++
		blocks = append(blocks, markup.Blockquote{Text: h.Text})
		if strings.TrimSpace(h.Note) != "" {
			blocks = append(blocks, b.converter.Convert(h.Note)...)
		}
	}

	doc := markup.NewDocument(markup.Metadata{
		ID:      bm.ID,
		Title:   bm.Title,
		Link:    bm.Link,
		Created: b.DisplayDate(bm.Created),
		Tags:    bm.Tags,
	}, blocks)

	title := bm.Title
	if title == "" {
		title = domain.UntitledTitle
	}

	var mediaTag string
	if hasEmbed {
		mediaTag = embed.Tag()
	}

	payload := domain.PostPayload{
		Title:           title,
		HTML:            doc.String(),
		Tags:            MergeTags(b.baseTag, mediaTag, bm.Tags),
		Status:          domain.StatusPublished,
		Visibility:      domain.VisibilityPublic,
		CanonicalURL:    bm.Link,
		Excerpt:         bm.Excerpt,
		MetaTitle:       title,
		MetaDescription: bm.Excerpt,
	}
	return doc, payload
}

// DisplayDate renders an ISO-8601 timestamp as "January 2, 2006" in the
// builder's zone. Values that do not parse are returned unchanged.
func (b *Builder) DisplayDate(created string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, created); err == nil {
			return t.In(b.location).Format(displayDateLayout)
		}
	}
	return created
}

// MergeTags orders tags as base, media, then the bookmark's own, keeping the
// first occurrence of each and skipping blanks.
func MergeTags(base, mediaTag string, own []string) []string {
	tags := make([]string, 0, len(own)+2)
	seen := make(map[string]bool, len(own)+2)

	add := func(tag string) {
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	add(base)
	add(mediaTag)
	for _, tag := range own {
		add(tag)
	}
	return tags
}
