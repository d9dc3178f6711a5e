package local

import "github.com/MrSnakeDoc/linkpost/internal/domain"

// Entry is one bookmark in the file.
type Entry struct {
	ID         string           `yaml:"id"`
	Title      string           `yaml:"title"`
	Link       string           `yaml:"link"`
	Created    string           `yaml:"created"`
	Excerpt    string           `yaml:"excerpt"`
	Note       string           `yaml:"note"`
	Tags       []string         `yaml:"tags"`
	Highlights []HighlightEntry `yaml:"highlights"`
}

// HighlightEntry is a quoted passage with an optional note.
type HighlightEntry struct {
	Text string `yaml:"text"`
	Note string `yaml:"note"`
}

// BookmarksFile is the root structure: a plain list of entries.
type BookmarksFile []Entry

func (e Entry) toDomain() *domain.Bookmark {
	b := &domain.Bookmark{
		ID:      e.ID,
		Title:   e.Title,
		Link:    e.Link,
		Created: e.Created,
		Tags:    append([]string(nil), e.Tags...),
		Note:    e.Note,
		Excerpt: e.Excerpt,
	}
	for _, h := range e.Highlights {
		b.Highlights = append(b.Highlights, domain.Highlight{Text: h.Text, Note: h.Note})
	}
	return b
}
