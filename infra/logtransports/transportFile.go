package logtransports

// Basic transport logging the raw events to a file in /tmp directory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"deskwise.io/infra/dwerr"
	"deskwise.io/infra/dwlog"
)

func init() {
	registerDecoder(TransportTypeFile, func(value *yaml.Node) (TransportConfig, error) {
		var f FileTransportConfig
		// NB: we need to check the type here because the yaml decoder will happily decode an
		// empty struct, since dec.KnownFields(true) gets lost via the yaml.Unmarshaler
		// interface implementation
		if err := value.Decode(&f); err == nil && f.Type == TransportTypeFile {
			return &f, nil
		}
		return nil, dwerr.New("Unknown transport type")
	})
}

// TransportTypeFile defines the file transport
const TransportTypeFile TransportType = "file"

// FileTransportConfig defines log-to-file client config
type FileTransportConfig struct {
	Type                  TransportType `yaml:"type" json:"type"`
	dwlog.TransportConfig `yaml:"transportconfig" json:"transportconfig"`
	Filename              string `yaml:"filename" json:"filename"`
	Append                bool   `yaml:"append" json:"append"`
}

// GetType implements TransportConfig
func (c FileTransportConfig) GetType() TransportType {
	return TransportTypeFile
}

// GetTransport implements TransportConfig
func (c FileTransportConfig) GetTransport() dwlog.Transport {
	return newFileTransport(&c)
}

// Validate implements Validateable
func (c *FileTransportConfig) Validate() error {
	if !c.Required {
		return nil
	}

	if c.Filename == "" {
		return dwerr.New("logging config invalid - missing filename")
	}

	return nil
}

type fileTransport struct {
	filename       string
	fileHandle     *os.File
	fileWriter     *bufio.Writer
	fileWriteMutex sync.Mutex
	config         FileTransportConfig

	sentEventCount int64
}

const (
	fileTransportName = "FileTransport"
	defaultFilename   = "/tmp/deskwise_log" // Default filename if the configuration file doesn't specify one
)

func newFileTransport(c *FileTransportConfig) *fileTransport {
	var t = fileTransport{}
	t.config = *c
	return &t
}

func (t *fileTransport) Init() (*dwlog.TransportConfig, error) {
	c := &dwlog.TransportConfig{Required: t.config.Required, MaxLogLevel: t.config.MaxLogLevel}

	t.filename = t.config.Filename
	if t.filename == "" {
		t.filename = defaultFilename
	}

	// Check if we should append to the existing file or replace it
	var err error
	if t.config.Append {
		t.fileHandle, err = os.OpenFile(t.filename, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644)
	} else {
		t.fileHandle, err = os.Create(t.filename)
	}
	if err != nil {
		return c, dwerr.Wrap(err)
	}
	t.fileWriter = bufio.NewWriter(t.fileHandle)

	return c, nil
}

func (t *fileTransport) WriteMessage(ctx context.Context, message string, level dwlog.LogLevel) {
	t.fileWriteMutex.Lock()
	defer t.fileWriteMutex.Unlock()

	if t.fileWriter == nil {
		return
	}
	fmt.Fprintf(t.fileWriter, "%s %d %s\n", time.Now().UTC().Format(time.RFC3339Nano), level, message)
	// Flush every write so the file log doesn't fall behind a crash
	if err := t.fileWriter.Flush(); err == nil {
		t.sentEventCount++
	}
}

func (t *fileTransport) GetStats() dwlog.LogTransportStats {
	return dwlog.LogTransportStats{Name: t.GetName(), SentEventCount: t.sentEventCount}
}

func (t *fileTransport) GetName() string {
	return fileTransportName
}

func (t *fileTransport) Close() {
	t.fileWriteMutex.Lock()
	defer t.fileWriteMutex.Unlock()

	if t.fileWriter != nil {
		t.fileWriter.Flush()
	}
	if t.fileHandle != nil {
		t.fileHandle.Close()
	}
}
