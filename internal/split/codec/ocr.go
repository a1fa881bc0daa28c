package codec

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ebaa-alsaad/archive/internal/config"
)

// OCRText rasterizes a 0-based page and reads it with tesseract. Every
// failure mode (binary absent, render error, OCR error, timeout) degrades
// to an empty string; callers fall through to their own defaults.
func (d *Document) OCRText(ctx context.Context, page int) string {
	if d.tesseractPath == "" {
		return ""
	}

	img, err := d.Render(ctx, page, config.OCRRenderDPI)
	if err != nil {
		logger.Warn("ocr render failed", "page", page, "error", err)
		return ""
	}

	scratch, err := os.MkdirTemp("", "ocr-page-")
	if err != nil {
		return ""
	}
	defer os.RemoveAll(scratch)

	imgPath := filepath.Join(scratch, "page.png")
	out, err := os.Create(imgPath)
	if err != nil {
		return ""
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return ""
	}
	out.Close()

	ctx, cancel := context.WithTimeout(ctx, config.TesseractTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, d.tesseractPath, imgPath, "stdout", "-l", config.TesseractLangs)
	var ocrOut bytes.Buffer
	cmd.Stdout = &ocrOut
	if err := cmd.Run(); err != nil {
		logger.Warn("tesseract failed", "page", page, "error", err)
		return ""
	}
	return strings.TrimSpace(ocrOut.String())
}
