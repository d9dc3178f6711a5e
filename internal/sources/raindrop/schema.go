package raindrop

import (
	"encoding/json"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
)

// raindropsResponse is the body of GET /raindrops/{collection}.
type raindropsResponse struct {
	Result bool   `json:"result"`
	Items  []item `json:"items"`
}

type item struct {
	ID         json.Number `json:"_id"`
	Title      string      `json:"title"`
	Link       string      `json:"link"`
	Created    string      `json:"created"`
	Excerpt    string      `json:"excerpt"`
	Note       string      `json:"note"`
	Tags       []string    `json:"tags"`
	Highlights []highlight `json:"highlights"`
}

type highlight struct {
	Text string `json:"text"`
	Note string `json:"note"`
}

func (it item) hasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (it item) toDomain() *domain.Bookmark {
	b := &domain.Bookmark{
		ID:      it.ID.String(),
		Title:   it.Title,
		Link:    it.Link,
		Created: it.Created,
		Tags:    append([]string(nil), it.Tags...),
		Note:    it.Note,
		Excerpt: it.Excerpt,
	}
	for _, h := range it.Highlights {
		b.Highlights = append(b.Highlights, domain.Highlight{Text: h.Text, Note: h.Note})
	}
	return b
}
