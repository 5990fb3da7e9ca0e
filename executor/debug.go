package executor

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

var execLog *log.Logger

func init() {
	// Check if debug logging is enabled via environment variable
	if os.Getenv("RIZZV_DEBUG") != "" {
		// Create debug log file.
		// Note: File handle intentionally not closed - kept open for process lifetime.
		// This is acceptable for debug logging; the OS cleans up on process exit.
		logPath := filepath.Join(os.TempDir(), "rizzv-executor-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			execLog = log.New(os.Stderr, "EXECUTOR: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			execLog = log.New(f, "EXECUTOR: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		// Disable logging by default
		execLog = log.New(io.Discard, "", 0)
	}
}
