package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/matzehuels/mindgrid/pkg/errors"
)

// Rasterization limits. Exports beyond these are refused with a TOO_BIG
// error instead of handing librsvg a pathological job.
const (
	// MaxRasterPixels bounds the output pixel area (width × height × scale²).
	MaxRasterPixels = 32 << 20 // ~33.5 megapixels

	// MaxRasterBytes bounds the produced artifact size.
	MaxRasterBytes = 64 << 20
)

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale
// factor. Scale of 2.0 produces a 2x resolution image.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if err := checkRasterSize(svg, scale); err != nil {
		return nil, err
	}
	return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

var svgSizeRe = regexp.MustCompile(`<svg[^>]*\bwidth="(\d+)"[^>]*\bheight="(\d+)"`)

// checkRasterSize refuses exports whose pixel area would exceed
// MaxRasterPixels. SVGs without parseable dimensions pass through; librsvg
// then applies its own limits.
func checkRasterSize(svg []byte, scale float64) error {
	m := svgSizeRe.FindSubmatch(svg)
	if m == nil {
		return nil
	}
	w, _ := strconv.Atoi(string(m[1]))
	h, _ := strconv.Atoi(string(m[2]))
	if scale <= 0 {
		scale = 1
	}
	if float64(w)*float64(h)*scale*scale > MaxRasterPixels {
		return errors.New(errors.ErrCodeTooBig,
			"image too big to export (%dx%d at %.1fx)", w, h, scale)
	}
	return nil
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg (brew install librsvg / apt install librsvg2-bin)", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert: %s", errBuf.String())
	}
	if out.Len() > MaxRasterBytes {
		return nil, errors.New(errors.ErrCodeTooBig, "image too big to export (%d bytes)", out.Len())
	}
	return out.Bytes(), nil
}
