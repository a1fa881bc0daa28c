// Package barcode finds separator codes on document pages. Three layers,
// cheapest first: regex over extracted page text, an in-process zxing
// decode, and a zbarimg subprocess as last resort. Every layer reports
// "nothing found" as an empty string, never as an error.
package barcode

import (
	"context"
	"image"
	"image/draw"
	"os/exec"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/ebaa-alsaad/archive/internal/config"
	"github.com/ebaa-alsaad/archive/internal/metrics"
	"github.com/ebaa-alsaad/archive/pkg/logger_i"
)

var logger = logger_i.NewLogger("barcode")

// Pattern order is significant: a bare digit run beats every labeled
// form. The English labels match case-insensitively since OCR output
// mixes cases freely.
var textPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{8,20}\b`),
	regexp.MustCompile(`باركود[\s:]*(\d+)`),
	regexp.MustCompile(`(?i)Barcode[\s:]*(\d+)`),
	regexp.MustCompile(`(?i)Code[\s:]*(\d+)`),
	regexp.MustCompile(`رقم[\s:]*(\d+)`),
}

type Reader struct {
	zbarPath string
}

func NewReader() *Reader {
	reader := &Reader{}
	if path, err := exec.LookPath(config.ZbarimgBinary); err == nil {
		reader.zbarPath = path
	} else {
		logger.Warn("zbarimg not on PATH, subprocess decode layer disabled")
	}
	return reader
}

// FromText scans extracted page text for a separator code. Text whose
// trimmed length is 6 runes or fewer carries no signal. A match shorter
// than 3 runes is rejected and the next pattern gets its turn.
func (r *Reader) FromText(text string) string {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) <= config.MinPageTextLen {
		return ""
	}

	for _, pattern := range textPatterns {
		match := pattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		candidate := match[0]
		if len(match) > 1 {
			candidate = match[1]
		}
		if accept(candidate) {
			metrics.CaptureBarcodeDecode("text", true)
			return candidate
		}
	}
	metrics.CaptureBarcodeDecode("text", false)
	return ""
}

// Decode reads a barcode off a rendered page image. The zxing pass runs
// over a grayscale copy with TRY_HARDER; when it finds nothing the image
// goes to zbarimg.
func (r *Reader) Decode(ctx context.Context, img image.Image) string {
	if img == nil {
		return ""
	}

	if code := r.decodeZxing(img); code != "" {
		metrics.CaptureBarcodeDecode("zxing", true)
		return code
	}
	metrics.CaptureBarcodeDecode("zxing", false)

	if code := r.decodeZbar(ctx, img); code != "" {
		metrics.CaptureBarcodeDecode("zbar", true)
		return code
	}
	metrics.CaptureBarcodeDecode("zbar", false)
	return ""
}

func (r *Reader) decodeZxing(img image.Image) string {
	bmp, err := gozxing.NewBinaryBitmapFromImage(grayscale(img))
	if err != nil {
		return ""
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	readers := []gozxing.Reader{
		oned.NewCode128Reader(),
		oned.NewCode39Reader(),
		qrcode.NewQRCodeReader(),
	}
	for _, reader := range readers {
		result, err := reader.Decode(bmp, hints)
		if err != nil {
			continue
		}
		code := strings.TrimSpace(result.GetText())
		if accept(code) {
			return code
		}
	}
	return ""
}

func accept(candidate string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(candidate)) >= config.MinBarcodeTokenLen
}

func grayscale(src image.Image) *image.Gray {
	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, src, bounds.Min, draw.Src)
	return gray
}
