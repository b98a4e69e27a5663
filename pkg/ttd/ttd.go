// Package ttd adapts an external text-to-diagram parser into the document
// pipeline. Unlike the mindmap path, geometry comes from the parser; this
// package only owns the retry/sanitize policy and the foreign-element import.
package ttd

import (
	"context"
	"strings"

	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/scene"
)

// Parser converts diagram definition text into canvas elements plus
// auxiliary file blobs (embedded images, fonts) keyed by file ID.
type Parser interface {
	Parse(ctx context.Context, definition string) ([]*scene.Element, map[string][]byte, error)
}

// Adapter converts definition text into host-native elements via a Parser.
type Adapter struct {
	Parser Parser
}

// NewAdapter wraps a parser.
func NewAdapter(p Parser) *Adapter { return &Adapter{Parser: p} }

// Convert parses definition text into elements ready for document insertion.
//
// If the first parse attempt fails, it retries exactly once with a sanitized
// variant of the text before giving up. Parsed elements pass through
// [scene.ImportForeign] so their IDs never collide with the local document.
func (a *Adapter) Convert(ctx context.Context, text string) ([]*scene.Element, map[string][]byte, error) {
	elements, files, err := a.Parser.Parse(ctx, text)
	if err != nil {
		elements, files, err = a.Parser.Parse(ctx, Sanitize(text))
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeParseFailed, err, "invalid diagram definition")
		}
	}
	return scene.ImportForeign(elements), files, nil
}

var sanitizer = strings.NewReplacer(
	"<br/>", "\n",
	"<br />", "\n",
	"<br>", "\n",
	`"`, "'",
)

// Sanitize rewrites common sources of parser rejection: HTML-style line
// breaks become real newlines and double quotes become single quotes.
func Sanitize(text string) string {
	return sanitizer.Replace(text)
}
