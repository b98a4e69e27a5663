// Package document holds the host document that generated elements are
// committed into: a JSON file of canvas elements plus embedded file blobs
// and the viewport state needed to show newly inserted content.
package document

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/scene"
)

// Default viewport dimensions used when a document doesn't specify its own.
const (
	DefaultViewWidth  = 1920.0
	DefaultViewHeight = 1080.0
)

// AppState is the viewport portion of a document.
type AppState struct {
	ScrollX    float64 `json:"scrollX"`
	ScrollY    float64 `json:"scrollY"`
	Zoom       float64 `json:"zoom"`
	ViewWidth  float64 `json:"viewWidth,omitempty"`
	ViewHeight float64 `json:"viewHeight,omitempty"`
}

// Document is the persisted canvas document.
type Document struct {
	Type     string            `json:"type"`
	Version  int               `json:"version"`
	Elements []*scene.Element  `json:"elements"`
	Files    map[string][]byte `json:"files,omitempty"`
	AppState AppState          `json:"appState"`
}

// New creates an empty document with the default viewport.
func New() *Document {
	return &Document{
		Type:    "mindgrid",
		Version: 2,
		AppState: AppState{
			Zoom:       1,
			ViewWidth:  DefaultViewWidth,
			ViewHeight: DefaultViewHeight,
		},
	}
}

// InsertElements commits elements and their file blobs into the document,
// centered at the origin and with the viewport fitted so everything is
// visible. A nil document makes this a silent no-op: insertion before the
// target document exists is abandoned, not an error.
func (d *Document) InsertElements(elements []*scene.Element, files map[string][]byte) {
	if d == nil || len(elements) == 0 {
		return
	}

	minX, minY, maxX, maxY := elementBounds(elements)
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	for _, el := range elements {
		el.X -= cx
		el.Y -= cy
	}

	d.Elements = append(d.Elements, elements...)
	if len(files) > 0 && d.Files == nil {
		d.Files = make(map[string][]byte, len(files))
	}
	for id, blob := range files {
		d.Files[id] = blob
	}

	d.fitToView(maxX-minX, maxY-minY)
}

// fitToView centers the viewport on the origin and zooms out just enough to
// show content of the given size. It never zooms in past 1.
func (d *Document) fitToView(width, height float64) {
	vw, vh := d.AppState.ViewWidth, d.AppState.ViewHeight
	if vw <= 0 {
		vw = DefaultViewWidth
	}
	if vh <= 0 {
		vh = DefaultViewHeight
	}

	zoom := 1.0
	if width > 0 && height > 0 {
		zoom = math.Min(1, math.Min(vw/width, vh/height))
	}
	d.AppState.Zoom = zoom
	d.AppState.ScrollX = 0
	d.AppState.ScrollY = 0
}

func elementBounds(elements []*scene.Element) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, el := range elements {
		minX = math.Min(minX, el.X)
		minY = math.Min(minY, el.Y)
		maxX = math.Max(maxX, el.X+el.Width)
		maxY = math.Max(maxY, el.Y+el.Height)
	}
	return minX, minY, maxX, maxY
}

// Load reads a document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "document %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read document %s", path)
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse document %s", path)
	}
	return &d, nil
}

// Save writes the document to disk, creating parent directories as needed.
func (d *Document) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create document directory")
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write document %s", path)
	}
	return nil
}
