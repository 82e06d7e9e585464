package logtransports

import (
	"context"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"deskwise.io/infra/dwerr"
	"deskwise.io/infra/dwlog"
)

// Basic transport redirecting event stream to the Go logger

func init() {
	registerDecoder(TransportTypeGo, func(value *yaml.Node) (TransportConfig, error) {
		var g GoTransportConfig
		// NB: we need to check the type here because the yaml decoder will happily decode an
		// empty struct, since dec.KnownFields(true) gets lost via the yaml.Unmarshaler
		// interface implementation
		if err := value.Decode(&g); err == nil && g.Type == TransportTypeGo {
			return &g, nil
		}
		return nil, dwerr.New("Unknown transport type")
	})
}

// TransportTypeGo defines the Go transport
const TransportTypeGo TransportType = "go"

// GoTransportConfig defines go logger client config
type GoTransportConfig struct {
	Type                  TransportType `yaml:"type" json:"type"`
	dwlog.TransportConfig `yaml:"transportconfig" json:"transportconfig"`
	PrefixFlag            int `yaml:"prefix_flag" json:"prefix_flag"`
}

// GetType implements TransportConfig
func (c GoTransportConfig) GetType() TransportType {
	return TransportTypeGo
}

// GetTransport implements TransportConfig
func (c GoTransportConfig) GetTransport() dwlog.Transport {
	return newGoTransport(&c)
}

// Validate implements Validateable
func (c *GoTransportConfig) Validate() error {
	return nil
}

// DefaultPrefixVal is a constant indicating that default Go prefix should be used
const DefaultPrefixVal = 0

// NoPrefixVal is a constant indicating that no prefix should be used
const NoPrefixVal = -1

const goTransportName = "GoTransport"

type logTransport struct {
	config GoTransportConfig
}

func newGoTransport(c *GoTransportConfig) *logTransport {
	var t = logTransport{}
	t.config = *c
	return &t
}

func (t *logTransport) Init() (*dwlog.TransportConfig, error) {
	// Configure the logger
	log.SetOutput(os.Stdout)

	// confusingly, golang log package uses a prefix of 0 to mean no prefix,
	// but we want our default to be the default prefix, so we need to switch
	// these constants here to make our default actually be the default (0)
	if t.config.PrefixFlag == NoPrefixVal {
		log.SetFlags(0)
	}

	return &dwlog.TransportConfig{Required: t.config.Required, MaxLogLevel: t.config.MaxLogLevel}, nil
}

func (t *logTransport) WriteMessage(ctx context.Context, message string, level dwlog.LogLevel) {
	log.Println(message)
}

func (t *logTransport) GetStats() dwlog.LogTransportStats {
	return dwlog.LogTransportStats{Name: t.GetName()}
}

func (t *logTransport) GetName() string {
	return goTransportName
}

func (t *logTransport) Close() {
}
