package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// RSVGConvert is the librsvg converter used for PDF output.
var RSVGConvert = "rsvg-convert"

const rsvgInstallHint = "install librsvg (macOS: brew install librsvg, Linux: apt install librsvg2-bin)"

// HasRSVG reports whether the converter is on PATH.
func HasRSVG() bool {
	_, err := exec.LookPath(RSVGConvert)
	return err == nil
}

// ToPDF converts a poster SVG to a single-page PDF of the same size.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	if !HasRSVG() {
		return nil, fmt.Errorf("pdf output needs %s: %s", RSVGConvert, rsvgInstallHint)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, RSVGConvert, "-f", "pdf")
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %s", RSVGConvert, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
