package worker

import (
	"context"
	"sync/atomic"

	"github.com/ebaa-alsaad/archive/internal/config"
	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
	"github.com/ebaa-alsaad/archive/internal/metrics"
)

func executeUpload(queued QueuedUpload) {
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, queued.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.UploadProcessTimeout)
	defer cancel()
	logger.Debug("Processing upload", "uploadId", queued.Upload.Id)

	groups, err := _splitService.ProcessUpload(ctx, queued.Upload)
	if err != nil {
		logger.Error("Upload processing failed", "traceId", queued.TraceId, "uploadId", queued.Upload.Id, "error", err)
		return
	}
	logger.Info("Upload processed", "traceId", queued.TraceId, "uploadId", queued.Upload.Id, "groups", len(groups))
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

// EnqueueUpload hands a registered upload to the pool. The send blocks
// once the buffer is full so intake cannot outrun processing. A backed up
// queue asks the dispatcher for another worker, capped at MaxWorkerCount.
func EnqueueUpload(upload uploadModel.Upload, traceId string) {
	metrics.IncrementUploadsInQueue()
	_intake.pending.Add(1)

	_intake.UploadChannel <- QueuedUpload{Upload: upload, TraceId: traceId}
	logger.Debug("Upload queued", "uploadId", upload.Id)

	accurateCount := atomic.AddInt64(&_intake.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || len(_intake.UploadChannel) > 0 {
		metrics.StartDispatcherSignalCount()
		dispatcherChannel <- true
	}
}

// Drain blocks until every enqueued upload has been processed.
func Drain() {
	_intake.pending.Wait()
}
