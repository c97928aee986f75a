/*package logging holds the global logging mode of healcone and the zap
logger which goes with it.

In Nil mode nothing is logged. Performance mode logs timing and memory
statistics at the info level, and Debug mode also logs per-query details at
the debug level.
*/
package logging

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Flag int

const (
	Nil Flag = iota
	Performance
	Debug
)

func (f Flag) String() string {
	switch f {
	case Nil:
		return "nil"
	case Performance:
		return "performance"
	case Debug:
		return "debug"
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// ParseFlag converts the name of a logging mode into a Flag.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nil", "none":
		return Nil, nil
	case "performance":
		return Performance, nil
	case "debug":
		return Debug, nil
	}
	return Nil, fmt.Errorf("The logging mode '%s' is not one of 'nil', "+
		"'performance', or 'debug'.", s)
}

// This is handled this way so that the logging mode doesn't need to be
// passed to literally every function in the project. Use SetMode to change
// it.
var (
	Mode   Flag = Nil
	logger atomic.Pointer[zap.Logger]
)

func init() {
	logger.Store(zap.NewNop())
}

// SetMode changes the logging mode and replaces the global logger with one
// which writes to stderr at the matching level.
func SetMode(f Flag) {
	Mode = f
	logger.Store(newLogger(f))
}

// L returns the global logger. It never returns nil.
func L() *zap.Logger { return logger.Load() }

func newLogger(f Flag) *zap.Logger {
	var level zapcore.Level
	var enc zapcore.Encoder
	switch f {
	case Performance:
		level = zapcore.InfoLevel
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case Debug:
		level = zapcore.DebugLevel
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		return zap.NewNop()
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	return zap.New(core).Named("healcone")
}

// MemString returns a string containing various statistics on the current
// memory usage of healcone.
func MemString() string {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf(
		"Alloc - %d MB; Sys - %d MB; Integrated - %d MB",
		ms.Alloc>>20, ms.Sys>>20, ms.TotalAlloc>>20,
	)
}

// MemFields returns the statistics of MemString as zap fields.
func MemFields() []zap.Field {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)
	return []zap.Field{
		zap.Uint64("alloc_mb", ms.Alloc>>20),
		zap.Uint64("sys_mb", ms.Sys>>20),
		zap.Uint64("total_alloc_mb", ms.TotalAlloc>>20),
	}
}
