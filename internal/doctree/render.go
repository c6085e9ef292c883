// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package doctree

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

// mark is a text decoration attached to a text node.
type mark struct {
	Type  string                     `json:"type"`
	Attrs map[string]json.RawMessage `json:"attrs"`
}

// RenderHTML renders a document tree to HTML. Known block and inline
// kinds get proper tags; unknown kinds render their children so the
// output degrades gracefully when the editor vocabulary grows. Text is
// always escaped. Callers that persist the result should sanitize it.
func RenderHTML(n *Node) string {
	var b strings.Builder
	renderNode(&b, n)
	return b.String()
}

func renderNode(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Type {
	case TypeDoc:
		renderChildren(b, n)
	case "paragraph":
		b.WriteString("<p>")
		renderChildren(b, n)
		b.WriteString("</p>")
	case "heading":
		level := intAttr(n, "level", 1)
		if level < 1 || level > 6 {
			level = 1
		}
		fmt.Fprintf(b, "<h%d>", level)
		renderChildren(b, n)
		fmt.Fprintf(b, "</h%d>", level)
	case "text":
		renderText(b, n)
	case "bulletList":
		b.WriteString("<ul>")
		renderChildren(b, n)
		b.WriteString("</ul>")
	case "orderedList":
		b.WriteString("<ol>")
		renderChildren(b, n)
		b.WriteString("</ol>")
	case "listItem":
		b.WriteString("<li>")
		renderChildren(b, n)
		b.WriteString("</li>")
	case "blockquote":
		b.WriteString("<blockquote>")
		renderChildren(b, n)
		b.WriteString("</blockquote>")
	case "codeBlock":
		b.WriteString("<pre><code>")
		renderChildren(b, n)
		b.WriteString("</code></pre>")
	case "image":
		src := stringAttr(n, "src")
		alt := stringAttr(n, "alt")
		if src != "" {
			fmt.Fprintf(b, `<img src=%q alt=%q>`, src, alt)
		}
	case "hardBreak":
		b.WriteString("<br>")
	case "horizontalRule":
		b.WriteString("<hr>")
	default:
		renderChildren(b, n)
	}
}

func renderChildren(b *strings.Builder, n *Node) {
	for _, child := range n.Content {
		renderNode(b, child)
	}
}

func renderText(b *strings.Builder, n *Node) {
	text := ""
	if n.Text != nil {
		text = *n.Text
	}
	escaped := html.EscapeString(text)

	marks := nodeMarks(n)
	open, closing := markTags(marks)
	b.WriteString(open)
	b.WriteString(escaped)
	b.WriteString(closing)
}

func nodeMarks(n *Node) []mark {
	raw, ok := n.Attrs["marks"]
	if !ok {
		return nil
	}
	var marks []mark
	if err := json.Unmarshal(raw, &marks); err != nil {
		return nil
	}
	return marks
}

func markTags(marks []mark) (open, closing string) {
	var ob, cb strings.Builder
	for _, m := range marks {
		switch m.Type {
		case "bold":
			ob.WriteString("<strong>")
			cb.WriteString("</strong>")
		case "italic":
			ob.WriteString("<em>")
			cb.WriteString("</em>")
		case "code":
			ob.WriteString("<code>")
			cb.WriteString("</code>")
		case "strike":
			ob.WriteString("<s>")
			cb.WriteString("</s>")
		case "link":
			href := ""
			if raw, ok := m.Attrs["href"]; ok {
				_ = json.Unmarshal(raw, &href)
			}
			fmt.Fprintf(&ob, `<a href=%q>`, href)
			cb.WriteString("</a>")
		}
	}
	// Closing tags must nest in reverse order of opening.
	return ob.String(), reverseTags(cb.String())
}

func reverseTags(s string) string {
	if s == "" {
		return s
	}
	var tags []string
	for _, part := range strings.SplitAfter(s, ">") {
		if part != "" {
			tags = append(tags, part)
		}
	}
	var b strings.Builder
	for i := len(tags) - 1; i >= 0; i-- {
		b.WriteString(tags[i])
	}
	return b.String()
}

func intAttr(n *Node, key string, def int) int {
	attrs := nodeAttrs(n)
	raw, ok := attrs[key]
	if !ok {
		return def
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

func stringAttr(n *Node, key string) string {
	attrs := nodeAttrs(n)
	raw, ok := attrs[key]
	if !ok {
		return ""
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v
}

// nodeAttrs decodes the editor's nested "attrs" object, if any.
func nodeAttrs(n *Node) map[string]json.RawMessage {
	raw, ok := n.Attrs["attrs"]
	if !ok {
		return nil
	}
	var attrs map[string]json.RawMessage
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil
	}
	return attrs
}
