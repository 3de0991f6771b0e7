package junit

import (
	"strings"
)

// Node is a piece of a JUnit XML document: either an Element or a Text.
type Node interface {
	render(b *strings.Builder, indent int)
	renderInline(b *strings.Builder)
}

// Attr is a single XML attribute. Attributes are kept in a slice instead of a
// map, so they are written in insertion order and the serialized document is
// stable across runs.
type Attr struct {
	Name  string
	Value string
}

// Element ...
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node
}

// Text ...
type Text struct {
	Content string
}

// SetAttr appends an attribute to the element.
func (e *Element) SetAttr(name, value string) {
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// AddChild appends a child node to the element.
func (e *Element) AddChild(n Node) {
	e.Children = append(e.Children, n)
}

const header = `<?xml version="1.0" encoding="UTF-8"?>`

// Document serializes the element tree into a complete XML document string.
func Document(root Element) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	root.render(&b, 0)
	b.WriteString("\n")
	return b.String()
}

var (
	// Newlines and tabs are escaped in attribute values so they survive
	// attribute-value normalization, but kept literal in text content to
	// leave stacktraces readable.
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#xA;", "\t", "&#x9;", "\r", "&#xD;")
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
)

func (e Element) render(b *strings.Builder, indent int) {
	writeIndent(b, indent)
	e.open(b)

	if len(e.Children) == 0 {
		return
	}

	if e.hasTextChild() {
		for _, child := range e.Children {
			child.renderInline(b)
		}
	} else {
		for _, child := range e.Children {
			b.WriteString("\n")
			child.render(b, indent+1)
		}
		b.WriteString("\n")
		writeIndent(b, indent)
	}

	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteString(">")
}

func (t Text) render(b *strings.Builder, indent int) {
	writeIndent(b, indent)
	t.renderInline(b)
}

func (e Element) renderInline(b *strings.Builder) {
	e.open(b)
	if len(e.Children) == 0 {
		return
	}
	for _, child := range e.Children {
		child.renderInline(b)
	}
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteString(">")
}

func (t Text) renderInline(b *strings.Builder) {
	b.WriteString(textEscaper.Replace(t.Content))
}

// open writes the start tag, self-closing it when there are no children.
func (e Element) open(b *strings.Builder) {
	b.WriteString("<")
	b.WriteString(e.Tag)
	for _, attr := range e.Attrs {
		b.WriteString(" ")
		b.WriteString(attr.Name)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(attr.Value))
		b.WriteString(`"`)
	}
	if len(e.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteString(">")
}

func (e Element) hasTextChild() bool {
	for _, child := range e.Children {
		if _, ok := child.(Text); ok {
			return true
		}
	}
	return false
}

func writeIndent(b *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		b.WriteString("  ")
	}
}
