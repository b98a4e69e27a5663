// Package mindmap implements the labeled-tree model behind mindmap generation:
// parsing and normalizing untrusted tree input, clamping it to bounded
// depth/fan-out, and computing a tidy left/right layout for it.
//
// The functions in this package are pure and never panic on malformed input.
// Untrusted data enters through [ParseTree] (or [Normalize] for already-decoded
// values), is bounded by [Clamp], and is positioned by [ComputeLayout]. Nothing
// in this package performs I/O or holds state between calls, so all functions
// are safe for concurrent use.
package mindmap

import (
	"encoding/json"

	"github.com/matzehuels/mindgrid/pkg/errors"
)

// Structural limits applied by Clamp. Generated trees that exceed them are
// truncated, never rejected, so pathological upstream output stays renderable.
const (
	// MaxDepth is the deepest level a node may occupy (root is depth 0).
	// Nodes at MaxDepth are forced into leaves.
	MaxDepth = 3

	// RootFanOut is the maximum number of direct children of the root.
	RootFanOut = 6

	// BranchFanOut is the maximum number of children at every level below the root.
	BranchFanOut = 4
)

// Node is a labeled mindmap tree node. Topic is never empty after
// normalization; Children is nil for leaves.
type Node struct {
	Topic    string  `json:"topic"`
	Children []*Node `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// ParseTree decodes raw JSON into a normalized mindmap tree.
//
// It returns structured errors for the two caller-distinguishable failure
// modes: INVALID_INPUT when the bytes are not valid JSON, and MISSING_TOPIC
// when the decoded value does not carry a usable topic field. It never
// returns a partially-normalized tree alongside an error.
func ParseTree(data []byte) (*Node, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "JSON parse failed")
	}

	root := Normalize(raw)
	if root == nil {
		return nil, errors.New(errors.ErrCodeMissingTopic, "mindmap is missing a topic")
	}
	return root, nil
}

// Normalize coerces an arbitrary decoded JSON value into a well-formed Node.
//
// It returns nil if the value is not an object or its "topic" field is not a
// string. A "children" field that is absent or not an array yields a leaf;
// array elements that fail normalization are dropped silently rather than
// failing the subtree. Normalize is total: it never panics, regardless of
// input shape.
func Normalize(raw any) *Node {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	topic, ok := obj["topic"].(string)
	if !ok {
		return nil
	}

	node := &Node{Topic: topic}
	if kids, ok := obj["children"].([]any); ok {
		for _, k := range kids {
			if child := Normalize(k); child != nil {
				node.Children = append(node.Children, child)
			}
		}
	}
	return node
}

// Clamp bounds a normalized tree to MaxDepth and the per-level fan-out limits,
// returning a fresh copy. depth is the level of n itself (pass 0 for the root).
//
// Truncation keeps the first N children in their original order and discards
// the rest; there is no reordering or reselection. At the depth limit the node
// is copied as a leaf. Clamp is idempotent: clamping an already-clamped tree
// returns an equal tree.
func Clamp(n *Node, depth int) *Node {
	if n == nil {
		return nil
	}
	if depth >= MaxDepth || n.IsLeaf() {
		return &Node{Topic: n.Topic}
	}

	limit := BranchFanOut
	if depth == 0 {
		limit = RootFanOut
	}
	kids := n.Children
	if len(kids) > limit {
		kids = kids[:limit]
	}

	out := &Node{Topic: n.Topic, Children: make([]*Node, 0, len(kids))}
	for _, child := range kids {
		out.Children = append(out.Children, Clamp(child, depth+1))
	}
	return out
}

// LeafCount returns the number of leaves in the subtree rooted at n.
// A node without children counts as one leaf. The count is used purely as a
// relative weight when allocating vertical space in the layout.
func LeafCount(n *Node) int {
	if n == nil || n.IsLeaf() {
		return 1
	}
	total := 0
	for _, child := range n.Children {
		total += LeafCount(child)
	}
	return total
}
