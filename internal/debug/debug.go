package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Build flag for debug mode - can be overridden at build time with
// go build -ldflags "-X github.com/scrylabs/scry/internal/debug.EnableDebug=true"
var EnableDebug = "false"

var (
	debugMutex  sync.Mutex
	debugOutput io.Writer = os.Stderr
	forced      bool
)

// SetEnabled forces debug output on or off at runtime (CLI --debug flag).
func SetEnabled(enabled bool) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	forced = enabled
}

// SetOutput sets a custom writer for debug output. Pass nil to discard.
func SetOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// IsEnabled reports whether debug logging is active.
func IsEnabled() bool {
	debugMutex.Lock()
	f := forced
	debugMutex.Unlock()
	if f {
		return true
	}
	if EnableDebug == "true" {
		return true
	}
	if v := os.Getenv("SCRY_DEBUG"); v == "1" || v == "true" {
		return true
	}
	return false
}

// Log provides structured debug logging with component names.
func Log(component, format string, args ...interface{}) {
	if !IsEnabled() {
		return
	}
	debugMutex.Lock()
	w := debugOutput
	debugMutex.Unlock()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format+"\n", append([]interface{}{component}, args...)...)
}

// LogCache logs source cache population events.
func LogCache(format string, args ...interface{}) {
	Log("CACHE", format, args...)
}

// LogParse logs per-file parse outcomes, including skipped files.
func LogParse(format string, args ...interface{}) {
	Log("PARSE", format, args...)
}

// LogGraph logs dependency graph construction events.
func LogGraph(format string, args ...interface{}) {
	Log("GRAPH", format, args...)
}
