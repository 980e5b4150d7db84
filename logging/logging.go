package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/hypebeast/go-osc/osc"
)

type LogCategory string

const (
	META   LogCategory = "meta" // For logs about logging
	ROUTER LogCategory = "router"
	DEVICE LogCategory = "device"
	FILTER LogCategory = "filter"
	SYSEX  LogCategory = "sysex"
	RING   LogCategory = "ring"
	APP    LogCategory = "app" // For application-specific logs (i.e. business logic)
)

func strToLogCategory(s string) (LogCategory, bool) {
	switch s {
	case "meta":
		return META, true
	case "router":
		return ROUTER, true
	case "device":
		return DEVICE, true
	case "filter":
		return FILTER, true
	case "sysex":
		return SYSEX, true
	case "ring":
		return RING, true
	case "app":
		return APP, true
	default:
		return "", false
	}
}

const (
	LOGGER_OSC_LISTEN_IP   = "0.0.0.0"
	LOGGER_OSC_LISTEN_PORT = 9085
)

// Dispatcher is a custom osc.Dispatcher, implementing the osc.Dispatcher interface
type Dispatcher struct{}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Dispatch dispatches OSC packets. Implements the Dispatcher interface.
func (s *Dispatcher) Dispatch(packet osc.Packet) {
	switch p := packet.(type) {
	default:
		return

	case *osc.Message:
		HandleOSCSetCategoryLevel(p)
	}
}

// Internal state for loggers per category
var (
	mu               *sync.RWMutex
	loggers          = map[LogCategory]*slog.Logger{}
	categoryLvls     map[LogCategory]*slog.LevelVar
	defaultLogLevels map[LogCategory]slog.Level
)

func init() {
	mu = new(sync.RWMutex)
	defaultLogLevels = map[LogCategory]slog.Level{
		META:   slog.LevelInfo,
		ROUTER: slog.LevelWarn,
		DEVICE: slog.LevelWarn,
		FILTER: slog.LevelWarn,
		SYSEX:  slog.LevelWarn,
		RING:   slog.LevelWarn,
		APP:    slog.LevelInfo,
	}
	categoryLvls = make(map[LogCategory]*slog.LevelVar)
}

// StartControlServer starts the OSC server which allows adjusting category
// log levels at runtime. Call it once from the application entry point.
func StartControlServer() {
	server := &osc.Server{
		Addr:       fmt.Sprintf("%s:%d", LOGGER_OSC_LISTEN_IP, LOGGER_OSC_LISTEN_PORT),
		Dispatcher: NewDispatcher(),
	}
	go func() {
		Get(META).Info("Starting logging control OSC server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil {
			Get(META).Error("Logging control OSC server stopped", "error", err)
		}
	}()
}

// Get returns a slog.Logger that always has the "category" attribute set.
// Each category gets its own logger instance.
func Get(category LogCategory) *slog.Logger {
	mu.RLock()
	l, ok := loggers[category]
	mu.RUnlock()
	if ok {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	// Double-check after locking
	if l, ok := loggers[category]; ok {
		return l
	}
	// Create a new LevelVar for this category if it doesn't exist
	lvlVar, ok := categoryLvls[category]
	if !ok {
		lvlVar = new(slog.LevelVar)
		lvlVar.Set(defaultLogLevels[category])
		categoryLvls[category] = lvlVar
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvlVar,
	})
	catLogger := slog.New(handler).With("category", category)
	loggers[category] = catLogger
	return catLogger
}

func SetCategoryLevel(category LogCategory, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	lvlVar, ok := categoryLvls[category]
	if !ok {
		lvlVar = new(slog.LevelVar)
		categoryLvls[category] = lvlVar
	}
	lvlVar.Set(level)
}

func splitOscPath(path string) []string {
	return strings.Split(path, "/")[1:]
}

// OSC handler for runtime config
//
// Routes:
// /meta/logging/{category}/level as int where -4 is Debug, 0 is Info, 4 is Warn, 8 is Error
func HandleOSCSetCategoryLevel(msg *osc.Message) {
	pathSegs := splitOscPath(msg.Address)

	if len(pathSegs) < 2 || (pathSegs[0] != "meta") || (pathSegs[1] != "logging") {
		return
	}
	if len(pathSegs) == 4 && pathSegs[3] == "level" {
		cat, ok := strToLogCategory(pathSegs[2])
		if !ok {
			slog.Info("Unrecognized log category in OSC message", "category", pathSegs[2])
			return
		}
		if len(msg.Arguments) == 0 {
			return
		}
		level, ok := msg.Arguments[0].(int32)
		if !ok {
			slog.Error("Invalid level type in OSC message", "expected", "int32", "got", fmt.Sprintf("%T", msg.Arguments[0]))
			return
		}
		Get(META).Info("Setting category level via OSC",
			"category", cat,
			"level", level)
		SetCategoryLevel(cat, slog.Level(level))
	}
}
