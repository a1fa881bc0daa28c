// Package split turns one uploaded PDF into named standalone group files,
// cut at barcode separator pages.
package split

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ebaa-alsaad/archive/internal/adapter/utils"
	"github.com/ebaa-alsaad/archive/internal/config"
	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
	"github.com/ebaa-alsaad/archive/internal/metrics"
	"github.com/ebaa-alsaad/archive/internal/split/barcode"
	"github.com/ebaa-alsaad/archive/internal/split/codec"
	"github.com/ebaa-alsaad/archive/internal/split/materialize"
	"github.com/ebaa-alsaad/archive/pkg/logger_i"
)

var logger = logger_i.NewLogger("split")

// Service is all the worker and the CLI ever see of the pipeline.
type Service interface {
	RegisterUpload(ctx context.Context, userId, sourcePath string) (uploadModel.Upload, error)
	ProcessUpload(ctx context.Context, upload uploadModel.Upload) ([]uploadModel.Group, error)
	Progress(ctx context.Context, uploadId string) (uploadModel.ProgressSnapshot, bool)
}

type service struct {
	uploads   uploadModel.UploadStore
	groups    uploadModel.GroupStore
	cache     uploadModel.ProgressStore
	barcodes  *barcode.Reader
	writer    *materialize.Writer
	mediaRoot string
	logger    *logger_i.Logger
}

func NewService(uploads uploadModel.UploadStore, groups uploadModel.GroupStore, cache uploadModel.ProgressStore, mediaRoot string) Service {
	return &service{
		uploads:   uploads,
		groups:    groups,
		cache:     cache,
		barcodes:  barcode.NewReader(),
		writer:    materialize.NewWriter(),
		mediaRoot: mediaRoot,
		logger:    logger_i.NewLogger("Split Service"),
	}
}

// RegisterUpload stages the source under the owner's private directory
// with a fresh stored name and records the upload as pending.
func (s *service) RegisterUpload(ctx context.Context, userId, sourcePath string) (uploadModel.Upload, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	original := filepath.Base(sourcePath)
	stored := utils.StoredName(filepath.Ext(original))
	destDir := filepath.Join(s.mediaRoot, userDir(userId), config.UploadsDirName)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return uploadModel.Upload{}, fmt.Errorf("create upload dir: %w", err)
	}
	destPath := filepath.Join(destDir, stored)
	if err := copyFile(sourcePath, destPath); err != nil {
		return uploadModel.Upload{}, fmt.Errorf("stage upload: %w", err)
	}

	now := time.Now()
	upload := uploadModel.Upload{
		Id:               utils.GetNewUUID(),
		UserId:           userId,
		OriginalFilename: original,
		StoredFilename:   stored,
		SourcePath:       destPath,
		Status:           uploadModel.UploadStatusPending,
		CreatedTime:      now,
		UpdatedTime:      now,
	}
	if err := s.uploads.SaveUpload(ctx, upload); err != nil {
		return uploadModel.Upload{}, err
	}

	log.Info("upload registered", "uploadId", upload.Id, "file", original)
	return upload, nil
}

// ProcessUpload runs the whole pipeline for one upload: open and hash the
// source, settle the separator, cut sections, materialize them in
// parallel. Only a source-level failure fails the run; per-group failures
// are absorbed and the run still completes.
func (s *service) ProcessUpload(ctx context.Context, upload uploadModel.Upload) ([]uploadModel.Group, error) {
	start := time.Now()
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "uploadId", upload.Id)
	tracker := newProgressTracker(upload, s.uploads, s.cache)

	tracker.begin(ctx)
	s.clearPreviousRun(ctx, log, upload.Id)

	doc, err := codec.Open(ctx, upload.SourcePath)
	if err != nil {
		log.Error("source open failed", "path", upload.SourcePath, "error", err)
		tracker.fail(ctx, failureMessage(err))
		metrics.CaptureUploadMetrics("failed", time.Since(start))
		return nil, err
	}
	defer doc.Close()

	totalPages := doc.PageCount()
	log.Info("source opened", "pages", totalPages, "hash", doc.Hash())
	tracker.sourceLoaded(ctx, totalPages)

	signalAt := s.memoSignal(doc)

	separator := DetectSeparator(ctx, totalPages, signalAt, upload.OriginalFilename)
	log.Info("separator settled", "separator", separator)
	tracker.checkpoint(ctx, uploadModel.StageDetect, 25)

	sections := SegmentPages(ctx, totalPages, signalAt, separator)
	if len(sections) == 0 {
		log.Warn("treating whole document as one section", "reason", ErrSegmentationEmpty)
		sections = WholeDocumentSection(totalPages)
	}
	log.Info("segmentation complete", "sections", len(sections))
	tracker.checkpoint(ctx, uploadModel.StageSegment, 50)

	groups := s.materializeSections(ctx, log, tracker, doc, upload, separator, sections)

	elapsed := time.Since(start)
	message := fmt.Sprintf("completed in %.1fs. groups: %d", elapsed.Seconds(), len(groups))
	tracker.complete(ctx, message, len(groups))
	metrics.CaptureUploadMetrics("completed", elapsed)
	log.Info("upload processed", "elapsed", elapsed, "groups", len(groups))
	return groups, nil
}

// Progress reads the cached snapshot first and falls back to the durable
// row when the cache key expired.
func (s *service) Progress(ctx context.Context, uploadId string) (uploadModel.ProgressSnapshot, bool) {
	if snapshot, found := s.cache.GetProgress(ctx, uploadId); found {
		return snapshot, true
	}

	upload, found := s.uploads.GetUpload(ctx, uploadId)
	if !found {
		return uploadModel.ProgressSnapshot{}, false
	}
	groups, err := s.groups.ListGroups(ctx, uploadId)
	if err != nil {
		logger.Warn("group listing failed during progress read", "uploadId", uploadId, "error", err)
	}
	return uploadModel.ProgressSnapshot{
		Status:   upload.Status,
		Progress: upload.Progress,
		Message:  upload.Message,
		Groups:   len(groups),
	}, true
}

// clearPreviousRun removes the group records and files of any earlier run
// of this upload. Reprocessing is destructive, never incremental.
func (s *service) clearPreviousRun(ctx context.Context, log *logger_i.Logger, uploadId string) {
	groups, err := s.groups.ListGroups(ctx, uploadId)
	if err != nil {
		log.Warn("could not list previous groups", "error", err)
	}
	for _, group := range groups {
		if group.PdfPath == "" {
			continue
		}
		if err := os.Remove(group.PdfPath); err != nil && !os.IsNotExist(err) {
			log.Warn("stale group file not removed", "path", group.PdfPath, "error", err)
		}
	}

	deleted, err := s.groups.DeleteGroups(ctx, uploadId)
	if err != nil {
		log.Warn("previous group records not deleted", "error", err)
		return
	}
	if deleted > 0 {
		log.Info("previous run cleared", "groups", deleted)
	}
}

func (s *service) materializeSections(ctx context.Context, log *logger_i.Logger, tracker *progressTracker, doc *codec.Document, upload uploadModel.Upload, separator string, sections []Section) []uploadModel.Group {
	defer func(start time.Time) {
		metrics.CaptureExecutionMetrics("materialize", time.Since(start))
	}(time.Now())

	outDir := filepath.Join(s.mediaRoot, userDir(upload.UserId), config.GroupsDirName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Error("cannot create group dir", "dir", outDir, "error", err)
		return nil
	}

	limit := config.MaxMaterializeWorkers
	if n := runtime.GOMAXPROCS(0); n < limit {
		limit = n
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	var mu sync.Mutex
	var groups []uploadModel.Group
	done := 0
	total := len(sections)

	report := func(group uploadModel.Group, success bool) {
		mu.Lock()
		done++
		if success {
			groups = append(groups, group)
		}
		progress := 50 + (50*done)/total
		count := len(groups)
		mu.Unlock()
		tracker.groupProgress(ctx, progress, count)
	}

	for _, section := range sections {
		eg.Go(func() error {
			name := s.sectionName(gctx, doc, section, separator)
			file, err := s.writer.WriteGroup(gctx, materialize.Request{
				SourcePath: upload.SourcePath,
				Pages:      section.Pages,
				Name:       name,
				Ordinal:    section.Ordinal,
				OutputDir:  outDir,
			})
			if err != nil {
				log.Error("group skipped", "ordinal", section.Ordinal, "error", err)
				report(uploadModel.Group{}, false)
				return nil
			}

			group := uploadModel.Group{
				Id:          utils.GetNewUUID(),
				UploadId:    upload.Id,
				UserId:      upload.UserId,
				Code:        separator,
				Name:        name,
				Filename:    file.Filename,
				PdfPath:     file.Path,
				PagesCount:  file.PageCount,
				CreatedTime: time.Now(),
			}
			if err := s.groups.SaveGroup(gctx, group); err != nil {
				log.Error("group record rejected, removing file", "ordinal", section.Ordinal, "error", err)
				os.Remove(file.Path)
				report(uploadModel.Group{}, false)
				return nil
			}

			report(group, true)
			return nil
		})
	}
	_ = eg.Wait() // tasks absorb their own failures

	sort.Slice(groups, func(i, j int) bool { return groups[i].Filename < groups[j].Filename })
	return groups
}

// sectionName names one section off its first page.
func (s *service) sectionName(ctx context.Context, doc *codec.Document, section Section, separator string) string {
	firstPage := section.Pages[0]
	text, err := doc.PageText(ctx, firstPage)
	if err != nil {
		text = ""
	}
	ocr := func(ctx context.Context) string { return doc.OCRText(ctx, firstPage) }
	return NameFor(ctx, text, ocr, section.Ordinal, separator)
}

// memoSignal caches page probes for the run so detection and segmentation
// never scan the same page twice. Probing is sequential, no lock needed.
func (s *service) memoSignal(doc *codec.Document) SignalFunc {
	memo := make(map[int]string)
	return func(ctx context.Context, page int) string {
		if code, ok := memo[page]; ok {
			return code
		}
		code := s.pageSignal(ctx, doc, page)
		memo[page] = code
		return code
	}
}

// pageSignal layers the probes: embedded text first, then a low DPI
// render through the barcode decoders. An unreadable page is a silent
// page.
func (s *service) pageSignal(ctx context.Context, doc *codec.Document, page int) string {
	metrics.IncrementPagesScanned()

	text, err := doc.PageText(ctx, page)
	if err != nil {
		logger.Debug("page text unreadable", "page", page, "error", err)
	}
	if code := s.barcodes.FromText(text); code != "" {
		return code
	}

	img, err := doc.Render(ctx, page, config.BarcodeScanDPI)
	if err != nil {
		logger.Debug("page render unreadable", "page", page, "error", err)
		return ""
	}
	return s.barcodes.Decode(ctx, img)
}

func TestService(uploads uploadModel.UploadStore, groups uploadModel.GroupStore, cache uploadModel.ProgressStore, mediaRoot string, writer *materialize.Writer) Service {
	return &service{
		uploads:   uploads,
		groups:    groups,
		cache:     cache,
		barcodes:  barcode.NewReader(),
		writer:    writer,
		mediaRoot: mediaRoot,
		logger:    logger_i.NewLogger("Split Service"),
	}
}
