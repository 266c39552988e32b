package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"image-viewer/internal/logging"
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

// Config holds all application configuration
type Config struct {
	ImageDir        string
	DatabaseDir     string
	ThumbMaxSide    int
	MetricsPort     int
	MetricsEnabled  bool
	WatchDebounce   time.Duration
	IgnoreKeywords  []string
	IncludeKeywords []string

	// Derived paths
	DatabasePath string
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	imageDir := getEnv("IMAGE_DIR", "/images")
	databaseDir := getEnv("DATABASE_DIR", "/database")
	thumbMaxSide := getEnvInt("THUMB_MAX_SIDE", 160)
	metricsPort := getEnvInt("METRICS_PORT", 9090)
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	watchDebounce := getEnvDuration("WATCH_DEBOUNCE", 250*time.Millisecond)
	ignoreKeywords := getEnvList("IGNORE_KEYWORDS")
	includeKeywords := getEnvList("INCLUDE_KEYWORDS")

	logging.Info("  IMAGE_DIR:         %s", imageDir)
	logging.Info("  DATABASE_DIR:      %s", databaseDir)
	logging.Info("  THUMB_MAX_SIDE:    %d", thumbMaxSide)
	logging.Info("  METRICS_PORT:      %d", metricsPort)
	logging.Info("  METRICS_ENABLED:   %v", metricsEnabled)
	logging.Info("  WATCH_DEBOUNCE:    %s", watchDebounce)
	logging.Info("  IGNORE_KEYWORDS:   %s", strings.Join(ignoreKeywords, ", "))
	logging.Info("  INCLUDE_KEYWORDS:  %s", strings.Join(includeKeywords, ", "))
	logging.Info("  LOG_LEVEL:         %s", logging.GetLevel())

	if thumbMaxSide < 16 {
		logging.Warn("  THUMB_MAX_SIDE %d too small, using 160", thumbMaxSide)
		thumbMaxSide = 160
	}

	// Resolve paths
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	imageDir, err := filepath.Abs(imageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image directory path: %w", err)
	}
	logging.Info("  Image directory (absolute): %s", imageDir)

	databaseDir, err = filepath.Abs(databaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}
	logging.Info("  Database directory (absolute): %s", databaseDir)

	// Check image directory (warning only; it may be mounted later)
	if err := ensureDirectory(imageDir, "image"); err != nil {
		logging.Warn("  Image directory issue: %v", err)
	}

	config := &Config{
		ImageDir:        imageDir,
		DatabaseDir:     databaseDir,
		ThumbMaxSide:    thumbMaxSide,
		MetricsPort:     metricsPort,
		MetricsEnabled:  metricsEnabled,
		WatchDebounce:   watchDebounce,
		IgnoreKeywords:  ignoreKeywords,
		IncludeKeywords: includeKeywords,
		DatabasePath:    filepath.Join(databaseDir, "viewer.db"),
	}

	// Ensure base database directory exists (required for database)
	if err := ensureDirectory(databaseDir, "database"); err != nil {
		return nil, fmt.Errorf("database directory error: %w", err)
	}

	// Test write access for database (required)
	logging.Debug("  Testing database directory write access...")
	if err := testWriteAccess(databaseDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable (required for database): %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Database:  ENABLED (required)")
	logging.Info("    Metrics:   %s", enabledString(config.MetricsEnabled))

	return config, nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogDatabaseInit logs database initialization
func LogDatabaseInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DATABASE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Database ready (%v)", duration.Round(time.Millisecond))
}

// LogSessionStarted logs the session entering its event loop
func LogSessionStarted(dir string, files int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SESSION STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Directory: %s", dir)
	logging.Info("  Files:     %d", files)
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
    ____                           _    ___
   /  _/___ ___  ____ _____ ____  | |  / (_)__ _      _____  _____
   / // __ '__ \/ __ '/ __ '/ _ \ | | / / / _ \ | /| / / _ \/ ___/
 _/ // / / / / / /_/ / /_/ /  __/ | |/ / /  __/ |/ |/ /  __/ /
/___/_/ /_/ /_/\__,_/\__, /\___/  |___/_/\___/|__/|__/\___/_/
                    /____/
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

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
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

	logging.Debug("    [OK] Directory exists")

	if name == "image" && logging.IsDebugEnabled() {
		entries, err := os.ReadDir(path)
		if err == nil {
			fileCount := 0
			dirCount := 0
			for _, e := range entries {
				if e.IsDir() {
					dirCount++
				} else {
					fileCount++
				}
			}
			logging.Debug("    Contents: %d files, %d directories (top level)", fileCount, dirCount)
		}
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
		// Don't return error since write access was confirmed
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
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
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
	if err != nil {
		logging.Warn("Invalid duration value for %s: %q, using default: %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvList parses a comma-separated keyword list, trimming blanks.
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
