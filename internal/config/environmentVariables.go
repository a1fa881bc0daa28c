package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, progress caching falls back to an in-memory store
	TRACE_ID_KEY                    = "traceId"
	UPLOAD_ID_KEY                   = "uploadId"

	//page rendering
	BarcodeScanDPI float64 = 100 //low, enough for symbology decode
	OCRRenderDPI   float64 = 200

	//barcode text heuristics
	MinPageTextLen     = 6 //below this the page has no usable text layer
	MinBarcodeTokenLen = 3

	//group naming
	MinNamingTextLen        = 40 //shorter embedded text triggers the OCR fallback
	NameMaxLen              = 75
	SeparatorFallbackMaxLen = 40
	MessageMaxLen           = 200

	//separator sampling
	LeadCandidatePages = 5
	MidPageThreshold   = 10

	//subprocess + per-task timeouts
	PageTextTimeout    = 10 * time.Second
	ZbarimgTimeout     = 6 * time.Second
	TesseractTimeout   = 20 * time.Second
	MaterializeTimeout = 30 * time.Second

	//bounded pool for group materialization
	MaxMaterializeWorkers = 4

	//group output validation
	MinGroupFileBytes int64 = 5 * 1024

	//upload intake worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 4
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	//IdleWorkerTimeout = 1 * time.Second //for tests
	BufferLimit          = 100
	UploadProcessTimeout = 10 * time.Minute

	//serverTimeouts, for the optional metrics listener
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//progress reporting
	ProgressCacheTTL      = 30 * time.Second
	ProgressWriteInterval = 250 * time.Millisecond
	ProgressWriteBurst    = 1

	//storage defaults, overridable by flags on the splitter binary
	DefaultPrivateMediaRoot = "private_media"
	DefaultSqlitePath       = "archive.db"
	UploadsDirName          = "uploads"
	GroupsDirName           = "groups"

	//external tool binaries
	ZbarimgBinary   = "zbarimg"
	TesseractBinary = "tesseract"
	TesseractLangs  = "ara+eng"

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"

	//redis has 16 DBs we can use; the progress cache gets its own
	RedisProgressStore = 1
)

// Deployment endpoints resolve from the environment, everything else is a
// build-time constant.
var (
	RedisAddr     = getEnv("REDIS_ADDR", redisHost+":"+redisPort)
	RedisPassword = getEnv("REDIS_PASSWORD", "")
)

func getEnv(key string, fallback string) string {
	if value, isFound := os.LookupEnv(key); isFound {
		return value
	}
	return fallback
}
