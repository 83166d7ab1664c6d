package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-courier/internal/delivery"
	"video-courier/internal/fetcher"
	"video-courier/internal/handlers"
	"video-courier/internal/logging"
	"video-courier/internal/metrics"
	"video-courier/internal/middleware"
	"video-courier/internal/pipeline"
	"video-courier/internal/startup"
	"video-courier/internal/transcoder"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Verify external tools (yt-dlp, ffmpeg, ffprobe)
	startup.LogToolChecks()

	// Initialize delivery agent
	startup.LogDeliveryInit()
	agent, err := delivery.NewTelegram(config.TelegramToken, config.HardLimitBytes)
	if err != nil {
		startup.LogFatal("Failed to initialize delivery agent: %v", err)
	}

	// Initialize pipeline
	startup.LogPipelineInit(config.MaxConcurrentJobs)
	fetch := fetcher.New(fetcher.Config{
		WorkDir:       config.WorkDir,
		MaxInputBytes: config.MaxInputBytes,
		ResolutionCap: config.ResolutionCap,
		SocketTimeout: config.SocketTimeout,
		Retries:       config.FetchRetries,
		CookiesFile:   config.CookiesFile,
		Timeout:       config.FetchTimeout,
	})
	shrink := transcoder.New(transcoder.Config{
		WorkDir:      config.WorkDir,
		Timeout:      config.TranscodeTimeout,
		ProbeTimeout: config.ProbeTimeout,
	})
	runner := pipeline.New(fetch, shrink, agent, pipeline.Config{
		SoftLimitBytes: config.SoftLimitBytes,
		HardLimitBytes: config.HardLimitBytes,
		TargetSizeMB:   config.TargetSizeMB,
		MaxConcurrent:  config.MaxConcurrentJobs,
		Caption:        "Your video is ready!",
	})

	// Initialize handlers and router
	h := handlers.New(runner, config)
	router := setupRouter(h)

	// Apply logging and metrics middleware
	loggedHandler := middleware.Logger(middleware.DefaultLoggingConfig())(router)
	handler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics server on its own port
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:        ":" + config.MetricsPort,
			Handler:     metricsMux,
			ReadTimeout: 15 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	shutdownDone := make(chan struct{})
	go handleShutdown(srv, metricsSrv, runner, shutdownDone)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}

	// Give the shutdown handler time to drain in-flight jobs before the
	// process exits.
	<-shutdownDone
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes (no auth required)
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Job submission (bearer-token authenticated inside the handler)
	r.HandleFunc("/wake", h.Wake).Methods("POST")

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, runner *pipeline.Runner, shutdownDone chan<- struct{}) {
	defer close(shutdownDone)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	// In-flight jobs are best-effort: wait briefly, then let the process
	// exit and lose whatever is still running.
	startup.LogShutdownStep("Waiting for in-flight jobs")
	done := make(chan struct{})
	go func() {
		runner.Wait()
		close(done)
	}()
	select {
	case <-done:
		startup.LogShutdownStepComplete("All jobs finished")
	case <-ctx.Done():
		logging.Warn("  Shutdown timeout reached with jobs still running; abandoning them")
	}

	startup.LogShutdownComplete()
}
