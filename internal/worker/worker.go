package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebaa-alsaad/archive/internal/config"
	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
	"github.com/ebaa-alsaad/archive/internal/metrics"
	"github.com/ebaa-alsaad/archive/internal/split"
	"github.com/ebaa-alsaad/archive/pkg/logger_i"
)

var (
	_intake            *Intake
	_splitService      split.Service
	stopWorkerChannel  chan bool
	workerWaitGroup    *sync.WaitGroup
	dispatcherChannel  chan bool
	currentWorkerCount int64
	logger             *logger_i.Logger
	minWorkerCount     = config.MinWorkerCount
)

// QueuedUpload pairs a registered upload with the trace of the request
// that enqueued it.
type QueuedUpload struct {
	Upload  uploadModel.Upload
	TraceId string
}

// Intake carries registered uploads from the caller to the pool.
type Intake struct {
	UploadChannel     chan QueuedUpload
	RequestCount      int64
	DispatcherChannel chan bool
	pending           sync.WaitGroup
}

func NewIntake() *Intake {
	return &Intake{
		UploadChannel:     make(chan QueuedUpload, config.BufferLimit),
		DispatcherChannel: make(chan bool, config.BufferLimit),
	}
}

func InitServices(intake *Intake, splitService split.Service) {
	_intake = intake
	_splitService = splitService
	dispatcherChannel = intake.DispatcherChannel
}

func InitWorkerPool(stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup
	logger = logger_i.NewLogger("WorkerPool")
	logger.Info("Initializing worker pool")
	go dispatcher()
}

func dispatcher() {
	createWorker()
	logger.Info("Dispatcher started")
	for range dispatcherChannel {
		if atomic.LoadInt64(&currentWorkerCount) < config.MaxWorkerCount {
			logger.Info("Creating new worker", "workerCount", currentWorkerCount)
			createWorker()
		}
	}
}

func createWorker() {
	workerWaitGroup.Add(1)
	go worker()
	atomic.AddInt64(&currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	logger.Info("Created new worker")
}

func worker() {
	for {
		select {
		case queued := <-_intake.UploadChannel:
			executeUpload(queued)
			metrics.DecrementUploadsInQueue()
			_intake.pending.Done()

		case <-stopWorkerChannel:
			removeWorker("Stop worker signal received")

			return

		case <-time.After(config.IdleWorkerTimeout):
			// Worker was idle for too long, decrement counter and retire
			// unless doing so would drop the pool below its floor
			if atomic.LoadInt64(&currentWorkerCount) > atomic.LoadInt64(&minWorkerCount) {
				removeWorker("Idle worker timeout - Removed worker")
				return
			}
		}
	}
}
