package split

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ebaa-alsaad/archive/internal/metrics"
)

var ErrSegmentationEmpty = errors.New("every page matched the separator")

// Section is one run of content pages between separators. Ordinal is
// 1-based, Pages are 0-based and ascending.
type Section struct {
	Ordinal int
	Pages   []int
}

// SegmentPages walks every page in order. A page whose trimmed signal
// equals the separator closes the open section and belongs to none; any
// other page, readable or not, extends the open section. Empty sections
// are never emitted. A document where everything matched comes back as
// zero sections; the caller decides what that means.
func SegmentPages(ctx context.Context, pageCount int, signalAt SignalFunc, separator string) []Section {
	defer func(start time.Time) {
		metrics.CaptureExecutionMetrics("segment", time.Since(start))
	}(time.Now())

	separator = strings.TrimSpace(separator)

	var sections []Section
	var current []int
	flush := func() {
		if len(current) == 0 {
			return
		}
		sections = append(sections, Section{Ordinal: len(sections) + 1, Pages: current})
		current = nil
	}

	for page := 0; page < pageCount; page++ {
		if strings.TrimSpace(signalAt(ctx, page)) == separator {
			flush()
			continue
		}
		current = append(current, page)
	}
	flush()

	return sections
}

// WholeDocumentSection covers every page as one section, the resolution
// for a run where segmentation found nothing to keep.
func WholeDocumentSection(pageCount int) []Section {
	pages := make([]int, pageCount)
	for i := range pages {
		pages[i] = i
	}
	return []Section{{Ordinal: 1, Pages: pages}}
}
