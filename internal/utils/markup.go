package utils

import (
	"encoding/xml"
	"io"
	"strings"
)

// Some vendor payload fields carry a whole markup document as a string,
// sometimes wrapped in a comment or CDATA escape marker. These helpers
// unwrap the marker and flatten the fragment so parsers can read nested
// fields by tag and attribute without a second decoder stack.

// UnwrapFragment strips a surrounding comment or CDATA escape marker.
func UnwrapFragment(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "<!--") && strings.HasSuffix(s, "-->") {
		s = strings.TrimSpace(s[4 : len(s)-3])
	}
	if strings.HasPrefix(s, "<![CDATA[") && strings.HasSuffix(s, "]]>") {
		s = strings.TrimSpace(s[9 : len(s)-3])
	}

	return s
}

// MarkupNode is one element of a flattened fragment: its tag, its
// attributes and its own character data.
type MarkupNode struct {
	Tag   string
	Attrs map[string]string
	Text  string
}

type MarkupNodes []MarkupNode

// ParseFragment tokenizes an embedded markup fragment into a flat node
// list, in document order. Vendors emit loose markup, so the decoder
// runs in non-strict mode with auto-closed tags allowed.
func ParseFragment(raw string) (MarkupNodes, error) {
	decoder := xml.NewDecoder(strings.NewReader(UnwrapFragment(raw)))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose

	var nodes MarkupNodes
	var stack []int

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[strings.ToLower(a.Name.Local)] = a.Value
			}
			nodes = append(nodes, MarkupNode{
				Tag:   strings.ToLower(t.Name.Local),
				Attrs: attrs,
			})
			stack = append(stack, len(nodes)-1)
		case xml.CharData:
			if len(stack) > 0 {
				idx := stack[len(stack)-1]
				nodes[idx].Text += string(t)
			}
		case xml.EndElement:
			if len(stack) > 0 {
				idx := stack[len(stack)-1]
				nodes[idx].Text = strings.TrimSpace(nodes[idx].Text)
				stack = stack[:len(stack)-1]
			}
		}
	}

	// Elements left open by auto-closing still need their text trimmed.
	for _, idx := range stack {
		nodes[idx].Text = strings.TrimSpace(nodes[idx].Text)
	}

	return nodes, nil
}

// All returns every node with the given tag, in document order.
func (n MarkupNodes) All(tag string) []MarkupNode {
	tag = strings.ToLower(tag)
	var out []MarkupNode
	for _, node := range n {
		if node.Tag == tag {
			out = append(out, node)
		}
	}
	return out
}

// Text returns the character data of the first node with the given tag.
func (n MarkupNodes) Text(tag string) string {
	tag = strings.ToLower(tag)
	for _, node := range n {
		if node.Tag == tag {
			return node.Text
		}
	}
	return ""
}

// Attr returns one attribute of the first node with the given tag.
func (n MarkupNodes) Attr(tag, attr string) string {
	tag = strings.ToLower(tag)
	attr = strings.ToLower(attr)
	for _, node := range n {
		if node.Tag == tag {
			return node.Attrs[attr]
		}
	}
	return ""
}
