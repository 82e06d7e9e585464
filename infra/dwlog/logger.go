package dwlog

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"deskwise.io/infra/dwerr"
	"deskwise.io/infra/request"
)

// loggerStatus represents current state of the logger
type loggerStatus int

// Possible states of the logger interface
const (
	loggerNotInitialized   loggerStatus = iota // no initialization has been performed
	loggerToolMode                             // initialized for short lifetime tool
	loggerServiceMode                          // initialized for long time running service
	loggerShuttingDownMode                     // transports are in the process of being closed
)

// Data for the logging layer
type loggerData struct {
	loggerConfigMutex sync.RWMutex
	transports        []Transport
	transportConfigs  []TransportConfig
	loggerState       loggerStatus
	noRequestIDs      bool
	serviceName       string
}

// Global instance of the logger shared for the process
var loggerInst = loggerData{loggerState: loggerNotInitialized}

// InitForService sets up logging transports for a long running service
func InitForService(name string, transports []Transport) {
	initialize(name, loggerServiceMode, false, transports)
}

// InitForTools configures logging to the screen and file if desired for a tool
func InitForTools(ctx context.Context, toolName string, transports []Transport) {
	initialize(toolName, loggerToolMode, true, transports)
}

// called with logging config to "really" init the logger
func initialize(name string, l loggerStatus, noRequestIDs bool, transports []Transport) {
	loggerInst.loggerConfigMutex.Lock()
	defer loggerInst.loggerConfigMutex.Unlock()

	// Check for unexpected state transitions - we may allow this in the future but for now fatal
	if (loggerInst.loggerState == loggerServiceMode || loggerInst.loggerState == loggerToolMode) && l != loggerInst.loggerState {
		log.Fatalf("Failed to initialize logger - unexpected state change from %v to %v", loggerInst.loggerState, l)
	}
	loggerInst.loggerState = l
	loggerInst.serviceName = name
	loggerInst.transports = []Transport{}
	loggerInst.transportConfigs = []TransportConfig{}

	// Initialize the transports and store their post initialization state
	for _, t := range transports {
		c, err := t.Init()
		if err != nil && c.Required {
			log.Fatal("Failed to initialize required logger", err, t)
		}
		// Only keep transports that were able to properly initialize
		if err == nil {
			loggerInst.transports = append(loggerInst.transports, t)
			loggerInst.transportConfigs = append(loggerInst.transportConfigs, *c)
		}
	}
	loggerInst.noRequestIDs = noRequestIDs
}

// GetStats returns the stats for each of the transports
func GetStats() []LogTransportStats {
	// Take a reader lock to prevent potential execution against bad configuration if GetStats is
	// called during initialize(...)
	loggerInst.loggerConfigMutex.RLock()
	defer loggerInst.loggerConfigMutex.RUnlock()

	logStats := []LogTransportStats{}

	// Only read stats if the logger is fully initialized and is not in process of shutting down
	if loggerInst.loggerState == loggerServiceMode || loggerInst.loggerState == loggerToolMode {
		for i := range loggerInst.transports {
			logStats = append(logStats, loggerInst.transports[i].GetStats())
		}
	}
	return logStats
}

// AddTransport adds another transport to the logger
func AddTransport(t Transport) error {
	loggerInst.loggerConfigMutex.Lock()
	defer loggerInst.loggerConfigMutex.Unlock()

	// Check if we are in a state that allows for addition of a logger
	if loggerInst.loggerState == loggerNotInitialized || loggerInst.loggerState == loggerShuttingDownMode {
		return dwerr.New("Logger is not in a valid state for addition of a transport")
	}

	c, err := t.Init()
	if err != nil {
		return dwerr.New("Transport failed to initialize")
	}
	loggerInst.transports = append(loggerInst.transports, t)
	loggerInst.transportConfigs = append(loggerInst.transportConfigs, *c)

	return nil
}

// RemoveTransport removes named transport if it is active
func RemoveTransport(name string) error {
	loggerInst.loggerConfigMutex.Lock()
	defer loggerInst.loggerConfigMutex.Unlock()

	if loggerInst.loggerState == loggerNotInitialized || loggerInst.loggerState == loggerShuttingDownMode {
		return dwerr.New("Logger is not in a valid state for removal of a transport")
	}

	// Try to find transport by name
	var t Transport
	for i := range loggerInst.transports {
		if loggerInst.transports[i].GetName() == name {
			t = loggerInst.transports[i]
			loggerInst.transports = append(loggerInst.transports[:i], loggerInst.transports[i+1:]...)
			loggerInst.transportConfigs = append(loggerInst.transportConfigs[:i], loggerInst.transportConfigs[i+1:]...)
			break
		}
	}

	if t == nil {
		return dwerr.New("Transport not found")
	}

	t.Close()

	return nil
}

// Close shuts down logging transports
func Close() {
	// Take a writer lock to block Log(..) calls while we are shutting down transports
	loggerInst.loggerConfigMutex.Lock()
	loggerInst.loggerState = loggerShuttingDownMode
	loggerInst.loggerConfigMutex.Unlock()

	for i := range loggerInst.transports {
		loggerInst.transports[i].Close()
	}
}

// Log logs a specific event
func Log(ctx context.Context, event LogEvent) {
	// Take a reader lock to prevent potential execution against bad configuration if Log is
	// called during initialize(...)
	loggerInst.loggerConfigMutex.RLock()
	defer loggerInst.loggerConfigMutex.RUnlock()

	// Check if the logger is in a valid state to process events, otherwise return
	if loggerInst.loggerState != loggerToolMode && loggerInst.loggerState != loggerServiceMode {
		return
	}

	// Check if passed in event is valid, otherwise drop it
	if err := event.Validate(); err != nil {
		return
	}

	if event.Message != "" && !loggerInst.noRequestIDs {
		id := request.GetRequestID(ctx)
		event.Message = fmt.Sprintf("%v: %s", id, event.Message)
	}

	// if this is a multiline message, tab-indent the following lines to make them slightly easier to read
	event.Message = strings.ReplaceAll(event.Message, "\n", "\n\t")

	// Send messages to transports that log at that log level
	for i := range loggerInst.transports {
		if event.LogLevel <= loggerInst.transportConfigs[i].MaxLogLevel {
			loggerInst.transports[i].WriteMessage(ctx, event.Message, event.LogLevel)
		}
	}
}
