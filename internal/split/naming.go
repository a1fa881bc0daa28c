package split

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ebaa-alsaad/archive/internal/adapter/utils"
	"github.com/ebaa-alsaad/archive/internal/config"
)

// OCRFunc supplies recognized text for the page being named, lazily; it
// only runs when the embedded text is too thin to name from.
type OCRFunc func(ctx context.Context) string

// Policy order is binding: voucher label with رقم prefix, bare voucher
// label, entry label, invoice label, then a date.
var namePatterns = []struct {
	re     *regexp.Regexp
	prefix string
}{
	{regexp.MustCompile(`رقم\s*السند\s*[:\-]?\s*(\d{2,})`), "سند_"},
	{regexp.MustCompile(`السند\s*[:\-]?\s*(\d{2,})`), "سند_"},
	{regexp.MustCompile(`قيد\s*[:\-]?\s*(\d+)`), "قيد_"},
	{regexp.MustCompile(`فاتورة\s*[:\-]?\s*(\d+)`), "فاتورة_"},
}

var datePattern = regexp.MustCompile(`(\d{4})[-/](\d{2})[-/](\d{2})`)

var underscoreRuns = regexp.MustCompile(`_{2,}`)

// NameFor names a section from its first page. Embedded text shorter than
// 40 runes is replaced by OCR output when OCR produces anything; the
// labeled patterns run over whichever text won. With no match the name is
// `<separator>_<ordinal>`. The result is always sanitized.
func NameFor(ctx context.Context, pageText string, ocrText OCRFunc, ordinal int, separator string) string {
	text := strings.TrimSpace(pageText)
	if utf8.RuneCountInString(text) < config.MinNamingTextLen && ocrText != nil {
		if recognized := strings.TrimSpace(ocrText(ctx)); recognized != "" {
			text = recognized
		}
	}

	raw := ""
	for _, pattern := range namePatterns {
		if match := pattern.re.FindStringSubmatch(text); match != nil {
			raw = pattern.prefix + match[1]
			break
		}
	}
	if raw == "" {
		if match := datePattern.FindStringSubmatch(text); match != nil {
			raw = match[1] + "-" + match[2] + "-" + match[3]
		}
	}
	if raw == "" {
		raw = fmt.Sprintf("%s_%d", separator, ordinal)
	}

	return Sanitize(raw)
}

// Sanitize maps every rune outside [A-Za-z0-9_.-] to an underscore,
// collapses underscore runs and caps the result at 75 runes. Applying it
// twice changes nothing. Non-Latin names keep only their digits and
// separators; accepted information loss.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '.' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := utils.TruncateRunes(underscoreRuns.ReplaceAllString(b.String(), "_"), config.NameMaxLen)
	if out == "" {
		out = fmt.Sprintf("group_%d", time.Now().UnixNano())
	}
	return out
}
