package markup

import (
	"reflect"
	"strings"
	"testing"
)

func testMetadata() Metadata {
	return Metadata{
		ID:      "42",
		Title:   `Tom & "Jerry"`,
		Link:    "https://e.com/?a=1&b=2",
		Created: "March 4, 2024",
		Tags:    []string{"a", "b"},
	}
}

func TestDocumentString(t *testing.T) {
	doc := NewDocument(testMetadata(), []Block{Paragraph{Inline: "hi"}, Separator{}, Blockquote{Text: "q<"}})

	expected := CardBegin + "\n" +
		`<div class="link-item" raindrop-id="42" raindrop-title="Tom &amp; &quot;Jerry&quot;" raindrop-link="https://e.com/?a=1&amp;b=2" raindrop-created="March 4, 2024" raindrop-tags="a,b">` + "\n" +
		"<p>hi</p>\n" +
		"<br>\n" +
		"<blockquote><p>q&lt;</p></blockquote>\n" +
		"</div>\n" +
		CardEnd

	if got := doc.String(); got != expected {
		t.Errorf("String() =\n%s\nwant\n%s", got, expected)
	}
}

func TestDocumentOpensWithOneContainer(t *testing.T) {
	doc := NewDocument(testMetadata(), nil)
	body := doc.String()

	if !strings.HasPrefix(body, CardBegin+"\n<div class=\"link-item\"") {
		t.Errorf("String() should open with the metadata container, got %q", body)
	}
	if n := strings.Count(body, `class="link-item"`); n != 1 {
		t.Errorf("String() has %d metadata containers, want 1", n)
	}
	if !strings.Contains(body, IDAttribute("42")) {
		t.Errorf("String() missing %s", IDAttribute("42"))
	}
}

func TestDocumentIsImmutable(t *testing.T) {
	meta := testMetadata()
	blocks := []Block{Paragraph{Inline: "one"}}
	doc := NewDocument(meta, blocks)

	before := doc.String()
	blocks[0] = Paragraph{Inline: "changed"}
	meta.Tags[0] = "changed"
	doc.Blocks()[0] = Paragraph{Inline: "changed"}

	if after := doc.String(); after != before {
		t.Errorf("String() changed after mutating inputs: %q", after)
	}
}

func TestReadMetadata(t *testing.T) {
	doc := NewDocument(testMetadata(), []Block{Paragraph{Inline: "hi"}})

	meta, ok := ReadMetadata(doc.String())
	if !ok {
		t.Fatal("ReadMetadata() found no container")
	}
	if !reflect.DeepEqual(meta, testMetadata()) {
		t.Errorf("ReadMetadata() = %#v, want %#v", meta, testMetadata())
	}
}

func TestReadMetadataMissing(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "plain post", body: "<p>hello</p>"},
		{name: "container without id", body: `<div class="link-item">x</div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ReadMetadata(tt.body); ok {
				t.Errorf("ReadMetadata(%q) should report no container", tt.body)
			}
		})
	}
}
