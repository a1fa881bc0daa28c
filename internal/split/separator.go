package split

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ebaa-alsaad/archive/internal/adapter/utils"
	"github.com/ebaa-alsaad/archive/internal/config"
	"github.com/ebaa-alsaad/archive/internal/metrics"
)

var ErrDetectionInconclusive = errors.New("no separator signal on any candidate page")

// SignalFunc probes one 0-based page for its separator signal. Empty
// string means the page carries none.
type SignalFunc func(ctx context.Context, page int) string

// DetectSeparator samples the candidate pages in order and returns the
// first non-empty signal. When every candidate is silent the fallback is
// the stem of the original filename, capped at 40 runes, or "document".
// The result is never empty.
func DetectSeparator(ctx context.Context, pageCount int, signalAt SignalFunc, originalFilename string) string {
	defer func(start time.Time) {
		metrics.CaptureExecutionMetrics("detect", time.Since(start))
	}(time.Now())

	for _, page := range candidatePages(pageCount) {
		if code := strings.TrimSpace(signalAt(ctx, page)); code != "" {
			logger.Debug("separator found", "page", page, "separator", code)
			return code
		}
	}

	logger.Warn("falling back to filename separator", "filename", originalFilename, "reason", ErrDetectionInconclusive)
	fallback := utils.TruncateRunes(strings.TrimSpace(utils.FileStem(originalFilename)), config.SeparatorFallbackMaxLen)
	if fallback == "" {
		fallback = "document"
	}
	return fallback
}

// candidatePages picks the pages worth probing: the first page, the next
// few leading pages, the middle of long documents, and the last page.
// Order is preserved, duplicates dropped.
func candidatePages(pageCount int) []int {
	var candidates []int
	seen := make(map[int]bool)
	add := func(page int) {
		if page < 0 || page >= pageCount || seen[page] {
			return
		}
		seen[page] = true
		candidates = append(candidates, page)
	}

	add(0)
	lead := config.LeadCandidatePages
	if lead > pageCount-1 {
		lead = pageCount - 1
	}
	for page := 1; page <= lead; page++ {
		add(page)
	}
	if pageCount > config.MidPageThreshold {
		add(pageCount / 2)
	}
	if pageCount > 1 {
		add(pageCount - 1)
	}
	return candidates
}
