package ttd

import (
	"context"
	"regexp"
	"strings"

	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/mindmap"
	"github.com/matzehuels/mindgrid/pkg/scene"
	"github.com/matzehuels/mindgrid/pkg/synth"
)

var (
	flowHeaderRe = regexp.MustCompile(`^(?:graph|flowchart)\s+(\w+)$`)
	flowEdgeRe   = regexp.MustCompile(`^(\w+)(?:\[([^\]]*)\])?\s*-->\s*(?:\|[^|]*\|\s*)?(\w+)(?:\[([^\]]*)\])?$`)
	flowNodeRe   = regexp.MustCompile(`^(\w+)(?:\[([^\]]*)\])?$`)
)

// FlowchartParser parses the flowchart dialect the upstream diagram endpoint
// emits: an optional "graph TD"/"graph LR" header followed by node and
// "A[label] --> B[label]" statements separated by newlines or semicolons.
// Nodes are stacked in first-appearance order (vertically for TD, hence
// horizontally for LR) and styled like mindmap shapes; richer dialects need
// an external Parser.
type FlowchartParser struct{}

// NewFlowchartParser creates the built-in flowchart parser.
func NewFlowchartParser() *FlowchartParser { return &FlowchartParser{} }

// Parse implements Parser. It never produces file blobs.
func (p *FlowchartParser) Parse(_ context.Context, definition string) ([]*scene.Element, map[string][]byte, error) {
	statements := splitStatements(definition)
	if len(statements) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "empty diagram definition")
	}

	direction := "TD"
	if m := flowHeaderRe.FindStringSubmatch(statements[0]); m != nil {
		direction = strings.ToUpper(m[1])
		statements = statements[1:]
	}

	var (
		order  []string
		index  = map[string]int{}
		labels = map[string]string{}
		edges  []mindmap.Edge
	)
	addNode := func(id, label string) int {
		i, ok := index[id]
		if !ok {
			i = len(order)
			index[id] = i
			order = append(order, id)
		}
		if label = cleanLabel(label); label != "" {
			labels[id] = label
		}
		return i
	}

	for _, stmt := range statements {
		if m := flowEdgeRe.FindStringSubmatch(stmt); m != nil {
			from := addNode(m[1], m[2])
			to := addNode(m[3], m[4])
			edges = append(edges, mindmap.Edge{From: from, To: to})
			continue
		}
		if m := flowNodeRe.FindStringSubmatch(stmt); m != nil {
			addNode(m[1], m[2])
			continue
		}
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "unrecognized statement %q", stmt)
	}
	if len(order) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "diagram defines no nodes")
	}

	nodes := make([]mindmap.PositionedNode, len(order))
	for i, id := range order {
		topic := labels[id]
		if topic == "" {
			topic = id
		}
		n := mindmap.PositionedNode{Topic: topic, Depth: 1}
		if direction == "LR" || direction == "RL" {
			n.X = float64(i) * mindmap.HGap
		} else {
			n.Y = float64(i) * mindmap.VGap
		}
		nodes[i] = n
	}

	elements, err := synth.Synthesize(nodes, edges, "default", nil)
	if err != nil {
		return nil, nil, err
	}
	return elements, nil, nil
}

// splitStatements breaks a definition into trimmed statements, dropping
// blanks and %% comment lines.
func splitStatements(definition string) []string {
	raw := strings.FieldsFunc(definition, func(r rune) bool {
		return r == '\n' || r == ';'
	})
	statements := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || strings.HasPrefix(s, "%%") {
			continue
		}
		statements = append(statements, s)
	}
	return statements
}

func cleanLabel(label string) string {
	return strings.Trim(strings.TrimSpace(label), `"'`)
}
