// Package materialize writes one section of a source PDF out as a
// standalone group file.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ebaa-alsaad/archive/internal/config"
	"github.com/ebaa-alsaad/archive/internal/metrics"
)

var ErrMaterialization = errors.New("group materialization failed")

// Request names one section to write: 0-based source pages in output
// order, the sanitized group name and its 1-based ordinal.
type Request struct {
	SourcePath string
	Pages      []int
	Name       string
	Ordinal    int
	OutputDir  string
}

type GroupFile struct {
	Filename  string
	Path      string
	PageCount int
	Size      int64
}

type Writer struct {
	conf     *model.Configuration
	minBytes int64
}

func NewWriter() *Writer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Writer{conf: conf, minBytes: config.MinGroupFileBytes}
}

// Filename appends the ordinal unless the name already carries it, so two
// sections with the same extracted name cannot collide.
func Filename(name string, ordinal int) string {
	suffix := fmt.Sprintf("_%d", ordinal)
	if strings.HasSuffix(name, suffix) {
		return name + ".pdf"
	}
	return name + suffix + ".pdf"
}

// WriteGroup materializes one section under a per-call deadline. On any
// failure the partial output is removed; the caller decides whether the
// run survives.
func (w *Writer) WriteGroup(ctx context.Context, req Request) (GroupFile, error) {
	ctx, cancel := context.WithTimeout(ctx, config.MaterializeTimeout)
	defer cancel()

	type result struct {
		file GroupFile
		err  error
	}
	resChan := make(chan result, 1)

	go func() {
		file, err := w.writeGroup(req)
		resChan <- result{file, err}
	}()

	select {
	case r := <-resChan:
		metrics.CaptureGroupResult(r.err == nil)
		return r.file, r.err
	case <-ctx.Done():
		metrics.CaptureGroupResult(false)
		return GroupFile{}, fmt.Errorf("group %d timed out: %v: %w", req.Ordinal, ctx.Err(), ErrMaterialization)
	}
}

func (w *Writer) writeGroup(req Request) (GroupFile, error) {
	if len(req.Pages) == 0 {
		return GroupFile{}, fmt.Errorf("group %d has no pages: %w", req.Ordinal, ErrMaterialization)
	}

	readCtx, err := api.ReadContextFile(req.SourcePath)
	if err != nil {
		return GroupFile{}, fmt.Errorf("read source for group %d: %v: %w", req.Ordinal, err, ErrMaterialization)
	}

	// pdfcpu selections are 1-based
	pages := make([]int, len(req.Pages))
	for i, p := range req.Pages {
		pages[i] = p + 1
	}

	extracted, err := pdfcpu.ExtractPages(readCtx, pages, false)
	if err != nil {
		return GroupFile{}, fmt.Errorf("extract pages for group %d: %v: %w", req.Ordinal, err, ErrMaterialization)
	}

	filename := Filename(req.Name, req.Ordinal)
	outPath := filepath.Join(req.OutputDir, filename)
	if err := api.WriteContextFile(extracted, outPath); err != nil {
		return GroupFile{}, fmt.Errorf("write group %d: %v: %w", req.Ordinal, err, ErrMaterialization)
	}

	if err := api.OptimizeFile(outPath, "", w.conf); err != nil {
		os.Remove(outPath)
		return GroupFile{}, fmt.Errorf("optimize group %d: %v: %w", req.Ordinal, err, ErrMaterialization)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return GroupFile{}, fmt.Errorf("stat group %d output: %v: %w", req.Ordinal, err, ErrMaterialization)
	}
	if info.Size() < w.minBytes {
		os.Remove(outPath)
		return GroupFile{}, fmt.Errorf("group %d output is %d bytes, below the %d floor: %w",
			req.Ordinal, info.Size(), w.minBytes, ErrMaterialization)
	}

	return GroupFile{
		Filename:  filename,
		Path:      outPath,
		PageCount: len(req.Pages),
		Size:      info.Size(),
	}, nil
}

func TestWriter(minBytes int64) *Writer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Writer{conf: conf, minBytes: minBytes}
}
