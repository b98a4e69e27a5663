package ttd

import (
	"context"
	"testing"

	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/mindmap"
	"github.com/matzehuels/mindgrid/pkg/scene"
)

func TestFlowchartParserBasic(t *testing.T) {
	p := NewFlowchartParser()
	elements, files, err := p.Parse(context.Background(),
		"graph TD; A[Start] --> B[Finish]; B --> C")
	if err != nil {
		t.Fatal(err)
	}
	if files != nil {
		t.Error("flowchart parser should not produce file blobs")
	}

	// 3 nodes as rect+label pairs, 2 arrows
	if want := 3*2 + 2; len(elements) != want {
		t.Fatalf("element count = %d, want %d", len(elements), want)
	}

	var labels []string
	for _, el := range elements {
		if el.Type == scene.TypeText {
			labels = append(labels, el.Text)
		}
	}
	want := []string{"Start", "Finish", "C"}
	for i, topic := range want {
		if labels[i] != topic {
			t.Errorf("label[%d] = %q, want %q", i, labels[i], topic)
		}
	}

	// TD stacks nodes downward in statement order
	first, second := elements[0], elements[2]
	if second.Y <= first.Y {
		t.Errorf("TD layout should stack vertically: y0=%v y1=%v", first.Y, second.Y)
	}
	if cx0, _ := first.Center(); cx0 != 0 {
		t.Errorf("TD layout should keep nodes on one column, center x = %v", cx0)
	}
}

func TestFlowchartParserLeftToRight(t *testing.T) {
	p := NewFlowchartParser()
	elements, _, err := p.Parse(context.Background(), "graph LR\nA --> B")
	if err != nil {
		t.Fatal(err)
	}

	x0, y0 := elements[0].Center()
	x1, y1 := elements[2].Center()
	if x1 <= x0 {
		t.Errorf("LR layout should advance horizontally: x0=%v x1=%v", x0, x1)
	}
	if y0 != y1 {
		t.Errorf("LR layout should keep nodes on one row: y0=%v y1=%v", y0, y1)
	}
}

func TestFlowchartParserEdgeLabelsAndComments(t *testing.T) {
	p := NewFlowchartParser()
	elements, _, err := p.Parse(context.Background(),
		"graph TD\n%% generated\nA -->|yes| B[\"Done\"]")
	if err != nil {
		t.Fatal(err)
	}

	arrows := 0
	for _, el := range elements {
		if el.Type == scene.TypeArrow {
			arrows++
		}
		if el.Type == scene.TypeText && el.Text == `"Done"` {
			t.Error("quotes around labels should be stripped")
		}
	}
	if arrows != 1 {
		t.Errorf("arrows = %d, want 1", arrows)
	}
}

func TestFlowchartParserRejectsGarbage(t *testing.T) {
	p := NewFlowchartParser()
	for _, def := range []string{"", "graph TD", "A --> ", "not a -valid- statement"} {
		if _, _, err := p.Parse(context.Background(), def); errors.GetCode(err) != errors.ErrCodeInvalidInput {
			t.Errorf("Parse(%q) should fail with INVALID_INPUT, got %v", def, err)
		}
	}
}

func TestAdapterSanitizeRecoversFlowchart(t *testing.T) {
	// The raw text packs two statements onto one line with an HTML break;
	// only the sanitized variant parses.
	adapter := NewAdapter(NewFlowchartParser())
	elements, _, err := adapter.Convert(context.Background(), "graph TD<br/>A --> B")
	if err != nil {
		t.Fatal(err)
	}
	if want := 2*2 + 1; len(elements) != want {
		t.Errorf("element count = %d, want %d", len(elements), want)
	}
}

func TestFlowchartNodesSpacedByLayoutGap(t *testing.T) {
	p := NewFlowchartParser()
	elements, _, err := p.Parse(context.Background(), "A --> B")
	if err != nil {
		t.Fatal(err)
	}
	_, y0 := elements[0].Center()
	_, y1 := elements[2].Center()
	if y1-y0 != mindmap.VGap {
		t.Errorf("vertical spacing = %v, want %v", y1-y0, mindmap.VGap)
	}
}
