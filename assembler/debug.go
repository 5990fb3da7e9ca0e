package assembler

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

var asmLog *log.Logger

func init() {
	// Check if debug logging is enabled via environment variable
	if os.Getenv("RIZZV_DEBUG") != "" {
		logPath := filepath.Join(os.TempDir(), "rizzv-assembler-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			asmLog = log.New(os.Stderr, "ASSEMBLER: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			asmLog = log.New(f, "ASSEMBLER: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		// Disable logging by default
		asmLog = log.New(io.Discard, "", 0)
	}
}
