package logtransports

import (
	"gopkg.in/yaml.v3"

	"deskwise.io/infra/dwerr"
	"deskwise.io/infra/dwlog"
)

// Config defines overall logging configuration
type Config struct {
	Transports   TransportConfigs `yaml:"transports" json:"transports"`
	NoRequestIDs bool             `yaml:"no_request_ids" json:"no_request_ids"`
}

// Validate implements Validateable
func (c *Config) Validate() error {
	for _, t := range c.Transports {
		if err := t.Validate(); err != nil {
			return dwerr.Wrap(err)
		}
	}
	return nil
}

// TransportConfigs is an alias for an array of TransportConfig so we can handle polymorphic config unmarshalling
type TransportConfigs []TransportConfig

// TransportType identifies the type of a transport in config
type TransportType string

// TransportConfig is the interface that per-transport config sections implement
type TransportConfig interface {
	GetType() TransportType
	GetTransport() dwlog.Transport
	Validate() error
}

// UnmarshalYAML implements yaml.Unmarshaler
func (t *TransportConfigs) UnmarshalYAML(value *yaml.Node) error {
	var c []intermediateConfig
	if err := value.Decode(&c); err != nil {
		return dwerr.Wrap(err)
	}
	*t = make([]TransportConfig, len(c))
	for i, v := range c {
		(*t)[i] = v.c
	}
	return nil
}

// intermediateConfig is a place to unmarshal to before we know the type of transport
type intermediateConfig struct {
	c TransportConfig
}

// UnmarshalYAML implements yaml.Unmarshaler
func (i *intermediateConfig) UnmarshalYAML(value *yaml.Node) error {
	for _, d := range decoders {
		if c, err := d(value); err == nil {
			i.c = c
			return nil
		}
	}
	return dwerr.New("unknown TransportConfig implementation")
}

// decoders allows different files to register themselves as available decoders/types
// so that we can ship some transports externally and leave others internal without causing
// build issues
var decoders = make(map[TransportType]func(*yaml.Node) (TransportConfig, error))

// registerDecoder centralizes manipulation of `decoders`
func registerDecoder(name TransportType, f func(*yaml.Node) (TransportConfig, error)) {
	decoders[name] = f
}

// InitLoggerAndTransportsForSDK sets up logging transports from config for a long lived client
func InitLoggerAndTransportsForSDK(config *Config, name string) {
	transports := make([]dwlog.Transport, 0, len(config.Transports))
	for _, c := range config.Transports {
		transports = append(transports, c.GetTransport())
	}
	dwlog.InitForService(name, transports)
}

// InitLoggerAndTransportsForTools sets up default logging to the screen for a tool
func InitLoggerAndTransportsForTools(maxLogLevel dwlog.LogLevel, toolName string) {
	c := GoTransportConfig{
		Type:            TransportTypeGo,
		TransportConfig: dwlog.TransportConfig{Required: true, MaxLogLevel: maxLogLevel},
	}
	dwlog.InitForService(toolName, []dwlog.Transport{c.GetTransport()})
}
