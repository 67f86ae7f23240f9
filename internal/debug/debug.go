// Package debug provides a lazily-initialized, mutex-guarded debug logging
// facility shared by every compiler stage. It is deliberately not a
// structured logging library: the toolkit's pipeline stages emit short,
// component-tagged lines and pay nothing when debug output isn't wired up.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnableDebug is a build-time flag, overridable via:
// go build -ldflags "-X github.com/ramtk/ram/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// QuietMode suppresses all debug output regardless of EnableDebug or $DEBUG,
// for callers (e.g. an LSP-style stdio transport) that cannot tolerate stray
// writes sharing a stream with a wire protocol.
var QuietMode = false

var (
	debugOutput io.Writer
	debugFile   *os.File
	debugMutex  sync.Mutex
)

// SetQuietMode enables or disables QuietMode.
func SetQuietMode(enabled bool) {
	QuietMode = enabled
}

// SetDebugOutput sets a custom writer for debug output. Pass nil to disable.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// InitDebugLogFile initializes debug logging to a timestamped file under
// os.TempDir()/ram-debug-logs and returns its path.
func InitDebugLogFile() (string, error) {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	logDir := filepath.Join(os.TempDir(), "ram-debug-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02T150405")
	logPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.log", timestamp))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugFile = file
	debugOutput = file
	return logPath, nil
}

// CloseDebugLog closes the debug log file if one is open.
func CloseDebugLog() error {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if debugFile != nil {
		err := debugFile.Close()
		debugFile = nil
		debugOutput = nil
		return err
	}
	return nil
}

// IsDebugEnabled returns true if debug output should be produced.
func IsDebugEnabled() bool {
	if QuietMode {
		return false
	}
	if EnableDebug == "true" {
		return true
	}
	if v := os.Getenv("DEBUG"); v == "1" || v == "true" {
		return true
	}
	return false
}

func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Log writes a component-tagged debug line.
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format+"\n", append([]interface{}{component}, args...)...)
}

// LogLexer logs lexer-stage activity (token production, error tokens).
func LogLexer(format string, args ...interface{}) { Log("LEXER", format, args...) }

// LogParser logs parser-stage activity (grammar productions, recovery).
func LogParser(format string, args ...interface{}) { Log("PARSER", format, args...) }

// LogQuery logs query-engine activity (cache hits/misses, invalidation).
func LogQuery(format string, args ...interface{}) { Log("QUERY", format, args...) }

// LogAnalysis logs HIR analysis pipeline activity (pass scheduling, results).
func LogAnalysis(format string, args ...interface{}) { Log("ANALYSIS", format, args...) }

// LogVM logs virtual machine execution (instruction fetch/execute).
func LogVM(format string, args ...interface{}) { Log("VM", format, args...) }

// Fatal formats a catastrophic-error message, logs it, and returns it as an
// error for the caller to propagate. It never calls os.Exit.
func Fatal(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if !QuietMode {
		if w := getDebugWriter(); w != nil {
			fmt.Fprintf(w, "[FATAL] %s\n", msg)
		}
	}
	return fmt.Errorf("fatal error: %s", msg)
}
