package barcode

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ebaa-alsaad/archive/internal/config"
)

// decodeZbar hands the grayscale image to zbarimg through a scratch PNG. A missing
// binary, a non-zero exit (including "no barcode found") and a timeout all
// read as no signal.
func (r *Reader) decodeZbar(ctx context.Context, img image.Image) string {
	if r.zbarPath == "" {
		return ""
	}

	scratch, err := os.MkdirTemp("", "barcode-scan-")
	if err != nil {
		return ""
	}
	defer os.RemoveAll(scratch)

	imgPath := filepath.Join(scratch, "page.png")
	out, err := os.Create(imgPath)
	if err != nil {
		return ""
	}
	if err := png.Encode(out, grayscale(img)); err != nil {
		out.Close()
		return ""
	}
	out.Close()

	ctx, cancel := context.WithTimeout(ctx, config.ZbarimgTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, r.zbarPath, "--raw", "-q", imgPath)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return ""
	}

	first, _, _ := strings.Cut(strings.TrimSpace(stdout.String()), "\n")
	code := strings.TrimSpace(first)
	if !accept(code) {
		return ""
	}
	return code
}
