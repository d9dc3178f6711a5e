package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ReadMetadata parses a rendered post body and returns the attributes of its
// first metadata container. Attribute values come back unescaped.
func ReadMetadata(body string) (Metadata, bool) {
	if !strings.Contains(body, AttrID) {
		return Metadata{}, false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Metadata{}, false
	}

	sel := doc.Find("div." + ContainerClass + "[" + AttrID + "]").First()
	if sel.Length() == 0 {
		return Metadata{}, false
	}

	meta := Metadata{
		ID:      sel.AttrOr(AttrID, ""),
		Title:   sel.AttrOr(AttrTitle, ""),
		Link:    sel.AttrOr(AttrLink, ""),
		Created: sel.AttrOr(AttrCreated, ""),
	}
	if tags := sel.AttrOr(AttrTags, ""); tags != "" {
		meta.Tags = strings.Split(tags, ",")
	}
	return meta, true
}
