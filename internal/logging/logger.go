// Package logging provides config-driven categorized file-based logging for atelier.
// Logs are written to the configured logs directory with separate files per category.
// Logging is controlled by debug_mode in the logging config - when false, no logs are written.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Boot/initialization
	CategoryConfig    Category = "config"    // Config loading and hot reload
	CategorySearch    Category = "search"    // Tier cascade, history, sessions
	CategoryCatalog   Category = "catalog"   // Curated lookup, procedural generation
	CategoryImages    Category = "images"    // Image resolution
	CategoryLLM       Category = "llm"       // Generative remote service calls
	CategoryOrders    Category = "orders"    // Order creation, pricing, status updates
	CategoryMessaging Category = "messaging" // Compose and dispatch
	CategoryStore     Category = "store"     // Durable order mirror
	CategoryServer    Category = "server"    // HTTP API
)

// Settings mirrors config.LoggingConfig to avoid an import cycle.
type Settings struct {
	DebugMode  bool
	Categories map[string]bool
	Level      string
	JSONFormat bool
}

// StructuredLogEntry represents a JSON log entry.
type StructuredLogEntry struct {
	Timestamp int64                  `json:"ts"`  // Unix milliseconds
	Category  string                 `json:"cat"` // Log category
	Level     string                 `json:"lvl"` // debug/info/warn/error
	Message   string                 `json:"msg"` // Log message
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger wraps a standard logger with category and file output
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	settings  Settings
	configMu  sync.RWMutex
	logLevel  int // 0=debug, 1=info, 2=warn, 3=error
)

// Log levels
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logs directory and applies settings.
// Should be called once at startup.
func Initialize(dir string, s Settings) error {
	if dir == "" {
		return fmt.Errorf("logs directory required")
	}

	configMu.Lock()
	logsDir = dir
	configMu.Unlock()

	Configure(s)

	// Only create logs directory if debug mode is enabled
	if !s.DebugMode {
		return nil // Silent no-op in production mode
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	bootLogger := Get(CategoryBoot)
	bootLogger.Info("=== atelier logging initialized ===")
	bootLogger.Info("Logs directory: %s", dir)
	bootLogger.Info("Log level: %s", s.Level)

	if len(s.Categories) > 0 {
		enabledCount := 0
		for cat, enabled := range s.Categories {
			if enabled {
				enabledCount++
			}
			bootLogger.Debug("Category '%s': %v", cat, enabled)
		}
		bootLogger.Info("Enabled categories: %d/%d", enabledCount, len(s.Categories))
	} else {
		bootLogger.Info("All categories enabled (no category filter)")
	}

	return nil
}

// Configure applies new settings. Safe to call at runtime (config hot reload).
// Already-open category files stay open; disabled categories become no-ops.
func Configure(s Settings) {
	configMu.Lock()
	defer configMu.Unlock()

	settings = s

	switch strings.ToLower(s.Level) {
	case "debug":
		logLevel = LevelDebug
	case "info":
		logLevel = LevelInfo
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}

	if s.DebugMode && logsDir != "" {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[logging] Warning: could not create %s: %v\n", logsDir, err)
		}
	}
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return settings.DebugMode
}

// IsJSONFormat returns whether JSON logging is enabled
func IsJSONFormat() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return settings.JSONFormat
}

func currentLevel() int {
	configMu.RLock()
	defer configMu.RUnlock()
	return logLevel
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if !settings.DebugMode {
		return false
	}
	if settings.Categories == nil {
		return true // All enabled by default in debug mode
	}
	enabled, exists := settings.Categories[string(category)]
	if !exists {
		return true // Enable by default if not specified
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	configMu.RLock()
	dir := logsDir
	configMu.RUnlock()
	if dir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}

	// Create log file with date prefix for easy rotation
	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(dir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l

	return l
}

// logJSON writes a structured JSON log entry
func (l *Logger) logJSON(level, msg string, fields map[string]interface{}) {
	entry := StructuredLogEntry{
		Timestamp: time.Now().UnixMilli(),
		Category:  string(l.category),
		Level:     level,
		Message:   msg,
		Fields:    fields,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Printf("[%s] %s", strings.ToUpper(level), msg)
		return
	}
	l.logger.Printf("%s", data)
}

func (l *Logger) write(minLevel int, level, format string, args ...interface{}) {
	if l.logger == nil || currentLevel() > minLevel {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if IsJSONFormat() {
		l.logJSON(level, msg, nil)
		return
	}
	l.logger.Printf("[%s] %s", strings.ToUpper(level), msg)
}

// Debug logs a debug message (only if level <= debug)
func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(LevelDebug, "debug", format, args...)
}

// Info logs an informational message (only if level <= info)
func (l *Logger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, "info", format, args...)
}

// Warn logs a warning message (only if level <= warn)
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(LevelWarn, "warn", format, args...)
}

// Error logs an error message (always logged if logger exists)
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(LevelError, "error", format, args...)
}

// StructuredLog writes a fully structured log entry with custom fields
func (l *Logger) StructuredLog(level string, msg string, fields map[string]interface{}) {
	if l.logger == nil {
		return
	}
	if IsJSONFormat() {
		l.logJSON(level, msg, fields)
		return
	}
	l.logger.Printf("[%s] %s | fields=%v", strings.ToUpper(level), msg, fields)
}

// CloseAll closes all open log files (call at shutdown)
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) { Get(CategoryBoot).Info(format, args...) }

// Config logs to the config category
func Config(format string, args ...interface{}) { Get(CategoryConfig).Info(format, args...) }

// ConfigDebug logs debug to the config category
func ConfigDebug(format string, args ...interface{}) { Get(CategoryConfig).Debug(format, args...) }

// Search logs to the search category
func Search(format string, args ...interface{}) { Get(CategorySearch).Info(format, args...) }

// SearchDebug logs debug to the search category
func SearchDebug(format string, args ...interface{}) { Get(CategorySearch).Debug(format, args...) }

// SearchWarn logs warning to the search category
func SearchWarn(format string, args ...interface{}) { Get(CategorySearch).Warn(format, args...) }

// Catalog logs to the catalog category
func Catalog(format string, args ...interface{}) { Get(CategoryCatalog).Info(format, args...) }

// CatalogDebug logs debug to the catalog category
func CatalogDebug(format string, args ...interface{}) { Get(CategoryCatalog).Debug(format, args...) }

// ImagesDebug logs debug to the images category
func ImagesDebug(format string, args ...interface{}) { Get(CategoryImages).Debug(format, args...) }

// ImagesWarn logs warning to the images category
func ImagesWarn(format string, args ...interface{}) { Get(CategoryImages).Warn(format, args...) }

// LLM logs to the llm category
func LLM(format string, args ...interface{}) { Get(CategoryLLM).Info(format, args...) }

// LLMDebug logs debug to the llm category
func LLMDebug(format string, args ...interface{}) { Get(CategoryLLM).Debug(format, args...) }

// Orders logs to the orders category
func Orders(format string, args ...interface{}) { Get(CategoryOrders).Info(format, args...) }

// OrdersWarn logs warning to the orders category
func OrdersWarn(format string, args ...interface{}) { Get(CategoryOrders).Warn(format, args...) }

// Messaging logs to the messaging category
func Messaging(format string, args ...interface{}) { Get(CategoryMessaging).Info(format, args...) }

// MessagingWarn logs warning to the messaging category
func MessagingWarn(format string, args ...interface{}) { Get(CategoryMessaging).Warn(format, args...) }

// Store logs to the store category
func Store(format string, args ...interface{}) { Get(CategoryStore).Info(format, args...) }

// StoreError logs error to the store category
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }

// Server logs to the server category
func Server(format string, args ...interface{}) { Get(CategoryServer).Info(format, args...) }

// ServerDebug logs debug to the server category
func ServerDebug(format string, args ...interface{}) { Get(CategoryServer).Debug(format, args...) }

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer measures an operation and logs its duration on Stop.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs a warning if the duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}

// StoreDebug logs debug to the store category
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debug(format, args...) }
