package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"video-courier/internal/logging"
	"video-courier/internal/workers"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration. It is loaded once at
// process start and passed into constructors; nothing reads the
// environment after startup.
type Config struct {
	AuthSecret    string
	TelegramToken string
	CookiesFile   string

	WorkDir        string
	Port           string
	MetricsPort    string
	MetricsEnabled bool

	SoftLimitBytes int64
	HardLimitBytes int64
	TargetSizeMB   int
	MaxInputBytes  int64
	ResolutionCap  int

	FetchTimeout     time.Duration
	TranscodeTimeout time.Duration
	ProbeTimeout     time.Duration
	SocketTimeout    time.Duration
	FetchRetries     int

	MaxConcurrentJobs int
}

// LoadConfig loads and validates configuration from environment
// variables. Secrets are required; limits and timeouts have defaults
// matching the delivery transport's ceiling.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	authSecret := os.Getenv("AUTH_SECRET")
	telegramToken := os.Getenv("TELEGRAM_TOKEN")
	cookiesFile := os.Getenv("COOKIES_FILE")

	workDir := getEnv("WORK_DIR", "/tmp/video-courier")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)

	softLimitMB := getEnvInt("SOFT_LIMIT_MB", 48)
	hardLimitMB := getEnvInt("HARD_LIMIT_MB", 50)
	targetSizeMB := getEnvInt("TARGET_SIZE_MB", 48)
	maxInputMB := getEnvInt("MAX_INPUT_MB", 750)
	resolutionCap := getEnvInt("RESOLUTION_CAP", 720)

	fetchTimeout := getEnvDuration("FETCH_TIMEOUT", 5*time.Minute)
	transcodeTimeout := getEnvDuration("TRANSCODE_TIMEOUT", 10*time.Minute)
	probeTimeout := getEnvDuration("PROBE_TIMEOUT", 15*time.Second)
	socketTimeout := getEnvDuration("SOCKET_TIMEOUT", 30*time.Second)
	fetchRetries := getEnvInt("FETCH_RETRIES", 3)

	maxJobs := getEnvInt("MAX_CONCURRENT_JOBS", workers.ForMixed(4))

	logging.Info("  WORK_DIR:            %s", workDir)
	logging.Info("  PORT:                %s", port)
	logging.Info("  METRICS_PORT:        %s", metricsPort)
	logging.Info("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Info("  SOFT_LIMIT_MB:       %d", softLimitMB)
	logging.Info("  HARD_LIMIT_MB:       %d", hardLimitMB)
	logging.Info("  TARGET_SIZE_MB:      %d", targetSizeMB)
	logging.Info("  MAX_INPUT_MB:        %d", maxInputMB)
	logging.Info("  RESOLUTION_CAP:      %d", resolutionCap)
	logging.Info("  FETCH_TIMEOUT:       %v", fetchTimeout)
	logging.Info("  TRANSCODE_TIMEOUT:   %v", transcodeTimeout)
	logging.Info("  SOCKET_TIMEOUT:      %v", socketTimeout)
	logging.Info("  FETCH_RETRIES:       %d", fetchRetries)
	logging.Info("  MAX_CONCURRENT_JOBS: %d", maxJobs)
	logging.Info("  COOKIES_FILE:        %s", orNone(cookiesFile))
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	if authSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}
	if telegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if softLimitMB > hardLimitMB {
		return nil, fmt.Errorf("SOFT_LIMIT_MB (%d) must not exceed HARD_LIMIT_MB (%d)",
			softLimitMB, hardLimitMB)
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve work directory path: %w", err)
	}
	logging.Info("  Work directory (absolute): %s", workDir)

	if err := ensureDirectory(workDir); err != nil {
		return nil, fmt.Errorf("work directory error: %w", err)
	}

	logging.Debug("  Testing work directory write access...")
	if err := testWriteAccess(workDir); err != nil {
		return nil, fmt.Errorf("work directory is not writable (required for artifacts): %w", err)
	}
	logging.Info("  [OK] Work directory is writable")

	if cookiesFile != "" {
		if info, err := os.Stat(cookiesFile); err != nil || info.Size() == 0 {
			logging.Warn("  Cookies file %s is missing or empty; downloads will run without it", cookiesFile)
		} else {
			logging.Info("  [OK] Cookies file present (%d bytes)", info.Size())
		}
	}

	return &Config{
		AuthSecret:        authSecret,
		TelegramToken:     telegramToken,
		CookiesFile:       cookiesFile,
		WorkDir:           workDir,
		Port:              port,
		MetricsPort:       metricsPort,
		MetricsEnabled:    metricsEnabled,
		SoftLimitBytes:    int64(softLimitMB) * 1024 * 1024,
		HardLimitBytes:    int64(hardLimitMB) * 1024 * 1024,
		TargetSizeMB:      targetSizeMB,
		MaxInputBytes:     int64(maxInputMB) * 1024 * 1024,
		ResolutionCap:     resolutionCap,
		FetchTimeout:      fetchTimeout,
		TranscodeTimeout:  transcodeTimeout,
		ProbeTimeout:      probeTimeout,
		SocketTimeout:     socketTimeout,
		FetchRetries:      fetchRetries,
		MaxConcurrentJobs: maxJobs,
	}, nil
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
 _    ___     __            ______                 _
| |  / (_)___/ /__  ____   / ____/___  __  _______(_)__  _____
| | / / / __  / _ \/ __ \ / /   / __ \/ / / / ___/ / _ \/ ___/
| |/ / / /_/ /  __/ /_/ // /___/ /_/ / /_/ / /  / /  __/ /
|___/_/\__,_/\___/\____/ \____/\____/\__,_/_/  /_/\___/_/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	logging.Info("")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func ensureDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Write access was confirmed either way
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
