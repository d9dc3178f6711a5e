package domain

// Bookmark is a saved link read from the bookmarking service.
// It is fetched fresh on every sync and never persisted locally.
type Bookmark struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the opaque identifier assigned by the bookmarking service.
	// It is embedded in the post body and recognises the post on later syncs.
	ID string

	// Title is optional; posts fall back to "Untitled".
	Title string

	// Link is the bookmarked URL. It becomes the post's canonical URL.
	Link string

	// Created is the creation timestamp as sent by the source (ISO-8601).
	Created string

	// ─────────────────────────────
	// Annotations
	// ─────────────────────────────

	// Tags in source order. May be empty.
	Tags []string

	// Note is free text written with the small annotation syntax
	// (paragraphs, "-" bullets, fenced code, `inline code`).
	Note string

	// Highlights are quoted passages in page order.
	Highlights []Highlight

	// Excerpt is the source's page description, used for SEO fields.
	Excerpt string
}

// Highlight is a quoted passage with an optional note of its own.
// A highlight whose text is blank is not rendered.
type Highlight struct {
	Text string
	Note string
}

// HasTag reports whether the bookmark carries tag.
func (b *Bookmark) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
