// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package doctree implements a structure-preserving codec for rich-text
// document trees. The editor defines the node vocabulary; this package
// only understands "type", "text" and "content" and round-trips every
// other field untouched, so any node kind it has never seen survives a
// transformation verbatim.
package doctree

import (
	"encoding/json"
	"fmt"
)

// Reserved keys handled structurally; everything else goes to Attrs.
const (
	keyType    = "type"
	keyText    = "text"
	keyContent = "content"
)

// TypeDoc is the root node type produced by the editor.
const TypeDoc = "doc"

// Node is one node of a document tree. Text is nil when the node carries
// no "text" field at all, which is distinct from an empty string. Attrs
// holds all remaining fields (attrs, marks, ...) as raw JSON so unknown
// vocabulary passes through unchanged.
type Node struct {
	Type    string
	Text    *string
	Content []*Node
	Attrs   map[string]json.RawMessage
}

// Parse decodes a document tree from JSON.
func Parse(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parsing document tree: %w", err)
	}
	return &n, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*n = Node{}
	for key, val := range raw {
		switch key {
		case keyType:
			if err := json.Unmarshal(val, &n.Type); err != nil {
				return fmt.Errorf("node type: %w", err)
			}
		case keyText:
			// JSON null counts as absent.
			if string(val) == "null" {
				continue
			}
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return fmt.Errorf("node text: %w", err)
			}
			n.Text = &s
		case keyContent:
			if err := json.Unmarshal(val, &n.Content); err != nil {
				return fmt.Errorf("node content: %w", err)
			}
		default:
			if n.Attrs == nil {
				n.Attrs = make(map[string]json.RawMessage)
			}
			n.Attrs[key] = val
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	raw := make(map[string]json.RawMessage, len(n.Attrs)+3)
	for key, val := range n.Attrs {
		raw[key] = val
	}
	if n.Type != "" {
		t, err := json.Marshal(n.Type)
		if err != nil {
			return nil, err
		}
		raw[keyType] = t
	}
	if n.Text != nil {
		t, err := json.Marshal(*n.Text)
		if err != nil {
			return nil, err
		}
		raw[keyText] = t
	}
	if n.Content != nil {
		c, err := json.Marshal(n.Content)
		if err != nil {
			return nil, err
		}
		raw[keyContent] = c
	}
	return json.Marshal(raw)
}

// Clone returns a deep copy of the node. Attribute values are copied by
// value, never shared with the original.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Type: n.Type}
	if n.Text != nil {
		t := *n.Text
		out.Text = &t
	}
	if n.Content != nil {
		out.Content = make([]*Node, len(n.Content))
		for i, child := range n.Content {
			out.Content[i] = child.Clone()
		}
	}
	if n.Attrs != nil {
		out.Attrs = make(map[string]json.RawMessage, len(n.Attrs))
		for key, val := range n.Attrs {
			cp := make(json.RawMessage, len(val))
			copy(cp, val)
			out.Attrs[key] = cp
		}
	}
	return out
}

// ExtractLeafTexts collects leaf texts in pre-order: a node contributes
// its own text first, then its children in document order.
func ExtractLeafTexts(n *Node) []string {
	var texts []string
	collectLeafTexts(n, &texts)
	return texts
}

func collectLeafTexts(n *Node, texts *[]string) {
	if n == nil {
		return
	}
	if n.Text != nil {
		*texts = append(*texts, *n.Text)
	}
	for _, child := range n.Content {
		collectLeafTexts(child, texts)
	}
}

// ReplaceLeafTexts returns a structurally identical copy of the tree with
// every leaf whose text appears in translations replaced by the mapped
// value. Leaves without a mapping keep their text; the input tree is
// never mutated. Lookup is by text value, so two leaves with identical
// source text receive the identical translation regardless of context.
func ReplaceLeafTexts(n *Node, translations map[string]string) *Node {
	if n == nil {
		return nil
	}
	out := n.Clone()
	replaceLeafTexts(out, translations)
	return out
}

func replaceLeafTexts(n *Node, translations map[string]string) {
	if n.Text != nil {
		if t, ok := translations[*n.Text]; ok {
			n.Text = &t
		}
	}
	for _, child := range n.Content {
		replaceLeafTexts(child, translations)
	}
}

// IsEmptyDoc reports whether the tree is the degenerate empty document: a
// root node with no content children. Writing such a document over live
// content is always a bug, so callers use this as a hard guard.
func IsEmptyDoc(n *Node) bool {
	if n == nil {
		return true
	}
	return n.Type == TypeDoc && len(n.Content) == 0
}
