package domain

import (
	"strings"

	"github.com/MrSnakeDoc/linkpost/internal/media"
)

// ShouldProcess reports whether a bookmark carries enough content to publish:
// a note, at least one highlight, a highlight note, or an embeddable media link.
func ShouldProcess(b *Bookmark) bool {
	if b == nil {
		return false
	}
	if strings.TrimSpace(b.Note) != "" {
		return true
	}
	// A highlight note implies a highlight, so one check covers both.
	if len(b.Highlights) > 0 {
		return true
	}
	_, isMedia := media.Detect(b.Link)
	return isMedia
}
