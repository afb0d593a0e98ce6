// Package logger is the client's leveled log. Session restore, logout and
// storage failures are absorbed by the packages that hit them and reported
// here instead of being returned, so this is where they surface.
//
// By default lines go to the standard log. The CLI runs in quiet mode:
// lines are published on the event bus as events.EventLog and stderr stays
// clean, and the command decides at exit which absorbed failures to show.
package logger

import (
	"fmt"
	"io"
	"log"
	"sync"

	"fashionhub/internal/client/events"
)

// Levels carried in events.LogData.Level.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

type sink struct {
	mu    sync.RWMutex
	bus   *events.Bus
	quiet bool
	saved io.Writer // standard log output while quiet
}

var std = &sink{}

// SetEventBus sets the bus that receives lines in quiet mode. nil detaches it.
func SetEventBus(bus *events.Bus) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.bus = bus
}

// SetQuiet switches quiet mode. While quiet the standard log is silenced
// too, so library output does not interleave with command output.
func SetQuiet(enabled bool) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if std.quiet == enabled {
		return
	}
	std.quiet = enabled

	if enabled {
		std.saved = log.Writer()
		log.SetOutput(io.Discard)
		return
	}
	if std.saved != nil {
		log.SetOutput(std.saved)
		std.saved = nil
	}
}

// Info records routine activity such as which namespace was loaded.
func Info(format string, args ...interface{}) {
	std.emit(LevelInfo, format, args...)
}

// Warn records a failure that was absorbed, like an unreadable collection.
func Warn(format string, args ...interface{}) {
	std.emit(LevelWarn, format, args...)
}

// Error records a failure that lost data, like a dropped save.
func Error(format string, args ...interface{}) {
	std.emit(LevelError, format, args...)
}

func (s *sink) emit(level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	s.mu.RLock()
	quiet, bus := s.quiet, s.bus
	s.mu.RUnlock()

	// Quiet without a bus still falls through so nothing is lost silently.
	if quiet && bus != nil {
		bus.PublishLog(level, message)
		return
	}
	log.Printf("[%s] %s", level, message)
}
