package codec

import (
	"context"
	"fmt"
	"time"

	"github.com/ebaa-alsaad/archive/internal/config"
)

// PageText returns the embedded text of a 0-based page. A page without a
// text layer returns "". Extraction runs in a guarded goroutine since the
// parser can panic or hang on malformed content streams; either outcome is
// reported as ErrPageUnreadable and the caller treats the page as silent.
func (d *Document) PageText(ctx context.Context, page int) (string, error) {
	if page < 0 || page >= d.pageCount {
		return "", fmt.Errorf("page %d out of range 0..%d: %w", page, d.pageCount-1, ErrPageUnreadable)
	}
	if d.reader == nil {
		return "", fmt.Errorf("text layer unavailable for page %d: %w", page, ErrPageUnreadable)
	}
	return d.protectExtract(ctx, page)
}

func (d *Document) protectExtract(ctx context.Context, page int) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("text extraction panicked: %v: %w", r, ErrPageUnreadable)}
			}
		}()
		p := d.reader.Page(page + 1)
		if p.V.IsNull() {
			resChan <- result{"", nil}
			return
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			resChan <- result{"", fmt.Errorf("text extraction: %v: %w", err, ErrPageUnreadable)}
			return
		}
		resChan <- result{content, nil}
	}()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("page %d text: %v: %w", page, ctx.Err(), ErrPageUnreadable)
	case <-time.After(config.PageTextTimeout):
		logger.Error("pageText", "page", page, "timeout", config.PageTextTimeout)
		return "", fmt.Errorf("page %d text timed out: %w", page, ErrPageUnreadable)
	}
}
