package dwlog

import (
	"context"

	"deskwise.io/infra/dwerr"
)

// LogLevel specifies the severity of a message, lower values being more severe
type LogLevel int

// Log levels in order of decreasing severity
const (
	LogLevelError   LogLevel = 1
	LogLevelWarning LogLevel = 2
	LogLevelInfo    LogLevel = 3
	LogLevelDebug   LogLevel = 4
	LogLevelVerbose LogLevel = 5
)

// LogEvent is a single message flowing through the logger
type LogEvent struct {
	LogLevel LogLevel // severity of the message
	Message  string   // the formatted message
	Count    int      // always 1 for messages, kept for transport stats
}

// Validate checks that the event is well formed before it is fanned out
func (e LogEvent) Validate() error {
	if e.Message == "" {
		return dwerr.New("LogEvent with empty message")
	}
	if e.LogLevel < LogLevelError || e.LogLevel > LogLevelVerbose {
		return dwerr.Errorf("LogEvent with invalid level %d", e.LogLevel)
	}
	return nil
}

// TransportConfig is the post-initialization state a transport reports back
type TransportConfig struct {
	Required    bool     `yaml:"required" json:"required"`
	MaxLogLevel LogLevel `yaml:"max_log_level" json:"max_log_level"`
}

// LogTransportStats describes the current state of a log transport
type LogTransportStats struct {
	Name              string
	QueueSize         int64
	DroppedEventCount int64
	SentEventCount    int64
	FailedAPICalls    int64
}

// Transport defines the interface that a pluggable log sink implements
type Transport interface {
	Init() (*TransportConfig, error)
	WriteMessage(ctx context.Context, message string, level LogLevel)
	GetStats() LogTransportStats
	GetName() string
	Close()
}
