package split

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ebaa-alsaad/archive/internal/config"
	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
)

// progressTracker owns every status write for one run: the durable row,
// the cache snapshot, and the monotonic clamp. Proportional group updates
// are rate limited so large batches do not hammer the stores; stage
// checkpoints and terminal writes always land.
type progressTracker struct {
	mu      sync.Mutex
	upload  uploadModel.Upload
	uploads uploadModel.UploadStore
	cache   uploadModel.ProgressStore
	limiter *rate.Limiter
	groups  int
}

func newProgressTracker(upload uploadModel.Upload, uploads uploadModel.UploadStore, cache uploadModel.ProgressStore) *progressTracker {
	return &progressTracker{
		upload:  upload,
		uploads: uploads,
		cache:   cache,
		limiter: rate.NewLimiter(rate.Every(config.ProgressWriteInterval), config.ProgressWriteBurst),
	}
}

func (t *progressTracker) begin(ctx context.Context) {
	t.write(ctx, uploadModel.UploadStatusProcessing, uploadModel.StageInit, 5, "", true)
}

func (t *progressTracker) sourceLoaded(ctx context.Context, totalPages int) {
	t.mu.Lock()
	t.upload.TotalPages = totalPages
	t.mu.Unlock()
	t.write(ctx, uploadModel.UploadStatusProcessing, uploadModel.StageSourceLoad, 10, "", true)
}

func (t *progressTracker) checkpoint(ctx context.Context, stage uploadModel.InternalStatus, progress int) {
	t.write(ctx, uploadModel.UploadStatusProcessing, stage, progress, "", true)
}

func (t *progressTracker) groupProgress(ctx context.Context, progress, groups int) {
	t.mu.Lock()
	t.groups = groups
	t.mu.Unlock()
	t.write(ctx, uploadModel.UploadStatusProcessing, uploadModel.StageMaterialize, progress, "", false)
}

func (t *progressTracker) complete(ctx context.Context, message string, groups int) {
	t.mu.Lock()
	t.groups = groups
	t.mu.Unlock()
	t.write(ctx, uploadModel.UploadStatusCompleted, uploadModel.StageComplete, 100, message, true)
}

// fail keeps the progress where the run last checkpointed it.
func (t *progressTracker) fail(ctx context.Context, message string) {
	t.mu.Lock()
	progress := t.upload.Progress
	t.mu.Unlock()
	t.write(ctx, uploadModel.UploadStatusFailed, uploadModel.StageError, progress, message, true)
}

func (t *progressTracker) write(ctx context.Context, status uploadModel.UploadStatus, stage uploadModel.InternalStatus, progress int, message string, force bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if progress < t.upload.Progress {
		progress = t.upload.Progress
	}
	if progress > 100 {
		progress = 100
	}
	t.upload.Progress = progress
	t.upload.Status = status
	if message != "" {
		t.upload.Message = message
	}
	t.upload.UpdatedTime = time.Now()

	if !force && !t.limiter.Allow() {
		return
	}

	logger.Debug("ProcessUpload", "uploadId", t.upload.Id, "Current Status", stage, "progress", progress)
	if err := t.uploads.SaveUpload(ctx, t.upload); err != nil {
		logger.Error("progress write failed", "uploadId", t.upload.Id, "error", err)
	}
	snapshot := uploadModel.ProgressSnapshot{
		Status:   status,
		Stage:    stage,
		Progress: progress,
		Message:  t.upload.Message,
		Groups:   t.groups,
	}
	if err := t.cache.SetProgress(ctx, t.upload.Id, snapshot); err != nil {
		logger.Debug("progress cache write failed", "uploadId", t.upload.Id, "error", err)
	}
}
