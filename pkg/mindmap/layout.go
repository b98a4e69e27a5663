package mindmap

// Layout spacing in scene units. Vertical space is allotted per leaf; the
// horizontal step is constant per depth level.
const (
	// VGap is the vertical space reserved per leaf in a subtree's band.
	VGap = 110.0

	// HGap is the horizontal distance between consecutive depth levels.
	HGap = 260.0
)

// PositionedNode is a tree node with its computed position. Depth is the
// root-relative path length. Positions are immutable once computed.
type PositionedNode struct {
	Topic string  `json:"topic"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Depth int     `json:"depth"`
}

// Edge is a parent→child relationship between indices into the positioned
// node sequence produced by ComputeLayout. Index 0 is always the root.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ComputeLayout assigns coordinates to every node of a clamped tree.
//
// The root sits at the origin. Its direct children are split order-preserving
// into two halves: the first ceil(n/2) branch left (negative x), the rest
// branch right. Within a side, each child subtree is allotted a vertical band
// proportional to its leaf count and is centered inside it; the stacked bands
// are centered as a group on the parent. The same stacking rule applies
// recursively at every depth, with each level offset a further HGap in the
// side's fixed direction.
//
// Nodes are emitted in first-visit order (root, then each side fully expanded
// depth-first) together with a parallel edge list in the same order. Output is
// fully deterministic for a given tree.
func ComputeLayout(root *Node) ([]PositionedNode, []Edge) {
	if root == nil {
		return nil, nil
	}

	nodes := []PositionedNode{{Topic: root.Topic, X: 0, Y: 0, Depth: 0}}
	var edges []Edge

	split := (len(root.Children) + 1) / 2
	left, right := root.Children[:split], root.Children[split:]

	placeSide(left, -1, 0, 0, &nodes, &edges)
	placeSide(right, +1, 0, 0, &nodes, &edges)

	return nodes, edges
}

// placeSide stacks children vertically around the parent's y, assigning each
// a leaf-proportional band, and recurses into their subtrees. dir is -1 for
// the left half and +1 for the right half; it stays fixed for the whole
// branch so descendants keep moving outward.
func placeSide(children []*Node, dir float64, parentIdx int, parentY float64, nodes *[]PositionedNode, edges *[]Edge) {
	if len(children) == 0 {
		return
	}
	parent := (*nodes)[parentIdx]

	span := 0.0
	for _, c := range children {
		span += float64(LeafCount(c)) * VGap
	}
	cursor := parentY - (span-VGap)/2

	for _, child := range children {
		band := float64(LeafCount(child)) * VGap
		y := cursor + (band-VGap)/2
		x := parent.X + dir*HGap

		*nodes = append(*nodes, PositionedNode{Topic: child.Topic, X: x, Y: y, Depth: parent.Depth + 1})
		idx := len(*nodes) - 1
		*edges = append(*edges, Edge{From: parentIdx, To: idx})

		placeSide(child.Children, dir, idx, y, nodes, edges)
		cursor += band
	}
}
