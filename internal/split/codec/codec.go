// Package codec gives the pipeline page-level access to a source PDF:
// embedded text, rasterized images and OCR text, behind one open handle.
package codec

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/dslipak/pdf"
	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/ebaa-alsaad/archive/internal/config"
	"github.com/ebaa-alsaad/archive/pkg/logger_i"
)

var (
	ErrSourceMissing    = errors.New("source file not found")
	ErrSourceUnreadable = errors.New("source file unreadable")
	ErrPageUnreadable   = errors.New("page unreadable")
)

var logger = logger_i.NewLogger("codec")

// Document is a source PDF opened for one pipeline run. Text and raster
// access share the handle; raster calls are serialized because MuPDF
// contexts are not safe for concurrent use.
type Document struct {
	path      string
	pageCount int
	hash      string

	reader *pdf.Reader
	file   *os.File

	raster   *fitz.Document
	rasterMu sync.Mutex

	tesseractPath string
}

// Open validates the source with pdfcpu, hashes it, and prepares the text
// and raster layers. A missing file maps to ErrSourceMissing, anything the
// validator rejects to ErrSourceUnreadable. The text or raster layer
// failing to initialize degrades that layer instead of failing the open.
func Open(ctx context.Context, path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", path, ErrSourceMissing)
	}

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("count pages of %s: %w", path, ErrSourceUnreadable)
	}
	if pageCount < 1 {
		return nil, fmt.Errorf("source %s has no pages: %w", path, ErrSourceUnreadable)
	}

	doc := &Document{
		path:      path,
		pageCount: pageCount,
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", path, ErrSourceUnreadable)
	}
	doc.file = file

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		file.Close()
		return nil, fmt.Errorf("hash source %s: %w", path, ErrSourceUnreadable)
	}
	doc.hash = hex.EncodeToString(hasher.Sum(nil))

	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		logger.Warn("text layer unavailable", "path", path, "error", err)
	} else {
		doc.reader = reader
	}

	raster, err := fitz.New(path)
	if err != nil {
		logger.Warn("raster layer unavailable", "path", path, "error", err)
	} else {
		doc.raster = raster
	}

	if tess, err := exec.LookPath(config.TesseractBinary); err == nil {
		doc.tesseractPath = tess
	} else {
		logger.Warn("tesseract not on PATH, OCR naming fallback disabled")
	}

	return doc, nil
}

func (d *Document) PageCount() int {
	return d.pageCount
}

// Hash is the hex sha256 of the source bytes, stable across runs.
func (d *Document) Hash() string {
	return d.hash
}

func (d *Document) Close() error {
	var firstErr error
	if d.raster != nil {
		if err := d.raster.Close(); err != nil {
			firstErr = err
		}
		d.raster = nil
	}
	if d.file != nil {
		if err := d.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.file = nil
	}
	return firstErr
}
