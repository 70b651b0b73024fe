// Package chainlog is a small leveled logger for the consensus core,
// following the same in-repo-logger convention the teacher project uses
// for its own "log" package rather than reaching for a third-party
// logging framework: every call site logs through here instead of
// printing directly, and the embedder may swap the handler.
package chainlog

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Level orders log severities; only messages >= the handler's threshold
// are emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Handler receives formatted log records; embedders may install their own
// to redirect output (e.g. to a test buffer or structured sink).
type Handler interface {
	Log(level Level, msg string, ctx []interface{})
}

// StdHandler writes records to a standard log.Logger, formatting context
// pairs as "key=value".
type StdHandler struct {
	logger    *log.Logger
	threshold Level
}

// NewStdHandler builds a handler writing to os.Stderr at the given minimum
// level.
func NewStdHandler(threshold Level) *StdHandler {
	return &StdHandler{logger: log.New(os.Stderr, "", log.LstdFlags), threshold: threshold}
}

func (h *StdHandler) Log(level Level, msg string, ctx []interface{}) {
	if level < h.threshold {
		return
	}
	h.logger.Printf("[%s] %s%s", level, msg, formatCtx(ctx))
}

func formatCtx(ctx []interface{}) string {
	if len(ctx) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i+1 < len(ctx); i += 2 {
		fmt.Fprintf(&b, " %v=%v", ctx[i], ctx[i+1])
	}
	return b.String()
}

var root Handler = NewStdHandler(LevelInfo)

// SetRoot installs a new root handler, letting the embedder (or a test)
// capture or silence log output.
func SetRoot(h Handler) { root = h }

func Debug(msg string, ctx ...interface{}) { root.Log(LevelDebug, msg, ctx) }
func Info(msg string, ctx ...interface{})  { root.Log(LevelInfo, msg, ctx) }
func Warn(msg string, ctx ...interface{})  { root.Log(LevelWarn, msg, ctx) }
func Error(msg string, ctx ...interface{}) { root.Log(LevelError, msg, ctx) }

// DiscardHandler drops every record; useful in tests that want quiet
// output without asserting on log content.
type DiscardHandler struct{}

func (DiscardHandler) Log(Level, string, []interface{}) {}
