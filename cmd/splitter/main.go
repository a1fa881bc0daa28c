package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ebaa-alsaad/archive/internal/adapter"
	"github.com/ebaa-alsaad/archive/internal/adapter/utils"
	"github.com/ebaa-alsaad/archive/internal/api"
	"github.com/ebaa-alsaad/archive/internal/config"
	"github.com/ebaa-alsaad/archive/internal/data/store"
	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
	"github.com/ebaa-alsaad/archive/internal/server"
	"github.com/ebaa-alsaad/archive/internal/split"
	"github.com/ebaa-alsaad/archive/internal/worker"
	"github.com/ebaa-alsaad/archive/pkg/logger_i"
)

var (
	sqlitePath        string
	mediaRoot         string
	userId            string
	statusUploadId    string
	jsonOutput        bool
	metricsAddr       string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&sqlitePath, "db", config.DefaultSqlitePath, "sqlite database path")
	flag.StringVar(&mediaRoot, "media-root", config.DefaultPrivateMediaRoot, "private media root directory")
	flag.StringVar(&userId, "user", "local", "owner id for registered uploads")
	flag.StringVar(&statusUploadId, "status", "", "print live progress for one upload id and exit")
	flag.BoolVar(&jsonOutput, "json", false, "emit reports as JSON")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while processing")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	db, err := store.OpenSqliteDB(sqlitePath)
	if err != nil {
		logger.Error("Sqlite is unavailable", "path", sqlitePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	uploadStore := store.NewSqliteUploadStore(db)
	groupStore := store.NewSqliteGroupStore(db)

	var progressStore uploadModel.ProgressStore
	if redisProgress := store.GetRedisProgressStore(serviceContext); redisProgress != nil {
		progressStore = redisProgress
	} else {
		logger.Error("Redis progress cache is offline")
		if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
			os.Exit(1)
		}
		progressStore = store.InitInMemoryProgressStore()
	}

	splitService := split.NewService(uploadStore, groupStore, progressStore, mediaRoot)

	if statusUploadId != "" {
		printStatus(splitService, statusUploadId, logger)
		return
	}

	files := flag.Args()
	if len(files) == 0 {
		logger.Error("No input files given", "usage", "splitter [flags] file.pdf ...")
		os.Exit(2)
	}

	if metricsAddr != "" {
		go server.CreateServer(metricsAddr)
	}

	//init worker pool over the intake queue
	intake := worker.NewIntake()
	stopWorkerChannel = make(chan bool, 1)
	worker.InitServices(intake, splitService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	var reports []api.UploadReport
	var uploads []uploadModel.Upload
	for _, path := range files {
		traceId := utils.GetNewUUID()
		ctx := context.WithValue(serviceContext, config.TRACE_ID_KEY, traceId)

		upload, err := splitService.RegisterUpload(ctx, userId, path)
		if err != nil {
			logger.Error("Upload registration failed", "file", path, "error", err)
			reports = append(reports, adapter.FailureReport(path, err))
			continue
		}
		uploads = append(uploads, upload)
		worker.EnqueueUpload(upload, traceId)
	}

	drained := make(chan struct{})
	go func() {
		worker.Drain()
		close(drained)
	}()

	interrupted := server.ShutDownHandler(server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		Drained:          drained,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	})
	if interrupted {
		logger.Warn("Interrupted, reporting whatever finished")
	}

	//the service context is already cancelled here, reports read on a fresh one
	reportContext := context.Background()
	for _, upload := range uploads {
		row, found := uploadStore.GetUpload(reportContext, upload.Id)
		if !found {
			row = upload
		}
		groups, err := groupStore.ListGroups(reportContext, upload.Id)
		if err != nil {
			logger.Warn("Group listing failed for report", "uploadId", upload.Id, "error", err)
		}
		reports = append(reports, adapter.ToUploadReport(row, groups))
	}

	emitReports(reports, logger)

	for _, report := range reports {
		if report.Status != string(uploadModel.UploadStatusCompleted) {
			os.Exit(1)
		}
	}
	if interrupted {
		os.Exit(1)
	}
}

func printStatus(splitService split.Service, uploadId string, logger *logger_i.Logger) {
	snapshot, found := splitService.Progress(context.Background(), uploadId)
	if !found {
		logger.Error("No such upload", "uploadId", uploadId)
		os.Exit(1)
	}

	report := adapter.ToProgressReport(uploadId, snapshot)
	if jsonOutput {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Error("Report marshalling failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}
	fmt.Printf("%s  %s  %d%%  groups: %d  %s\n", report.Id, report.Status, report.Progress, report.Groups, report.Message)
}

func emitReports(reports []api.UploadReport, logger *logger_i.Logger) {
	if jsonOutput {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			logger.Error("Report marshalling failed", "error", err)
			return
		}
		fmt.Println(string(data))
		return
	}

	for _, report := range reports {
		fmt.Printf("%s  %s  %s\n", report.Status, report.OriginalFilename, report.Message)
		for _, group := range report.Groups {
			fmt.Printf("    %s  %d pages  %s\n", group.Filename, group.PagesCount, group.PdfPath)
		}
	}
}
