package codec

import (
	"context"
	"fmt"
	"image"
)

// Render rasterizes a 0-based page at the given DPI. Access to the MuPDF
// handle is serialized; concurrent callers queue on the mutex.
func (d *Document) Render(ctx context.Context, page int, dpi float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.raster == nil {
		return nil, fmt.Errorf("raster layer unavailable for page %d: %w", page, ErrPageUnreadable)
	}
	if page < 0 || page >= d.pageCount {
		return nil, fmt.Errorf("page %d out of range 0..%d: %w", page, d.pageCount-1, ErrPageUnreadable)
	}

	d.rasterMu.Lock()
	defer d.rasterMu.Unlock()
	img, err := d.raster.ImageDPI(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("render page %d at %.0f dpi: %v: %w", page, dpi, err, ErrPageUnreadable)
	}
	return img, nil
}
