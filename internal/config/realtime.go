package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed realtime.yaml
var defaultRealtimeYAML []byte

// Realtime holds tunables for the document sync hub and clients.
type Realtime struct {
	// SaveDebounce is the quiet window after the last local edit before a document counts as saved.
	SaveDebounce time.Duration `yaml:"save_debounce"`
	// KeepAliveInterval is how often the hub pings each connection.
	KeepAliveInterval time.Duration `yaml:"keep_alive_interval"`
	// PongWait is how long a connection may stay silent before it is dropped.
	// Must be greater than KeepAliveInterval.
	PongWait time.Duration `yaml:"pong_wait"`
	// WriteTimeout bounds a single frame write.
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// MaxMessageBytes is the largest inbound frame accepted.
	MaxMessageBytes int64 `yaml:"max_message_bytes"`
	// SendBuffer is the per-connection outbound queue size. A full queue drops the connection.
	SendBuffer int `yaml:"send_buffer"`
}

// DefaultRealtime returns the embedded realtime settings.
func DefaultRealtime() *Realtime {
	var rt Realtime
	if err := yaml.Unmarshal(defaultRealtimeYAML, &rt); err != nil {
		// Embedded file is part of the build; a decode failure is a programming error.
		panic(fmt.Sprintf("decode embedded realtime.yaml: %v", err))
	}
	return &rt
}

// LoadRealtime returns the embedded defaults overlaid with the YAML file at path.
// An empty path returns the defaults unchanged.
func LoadRealtime(path string) (*Realtime, error) {
	rt := DefaultRealtime()
	if path == "" {
		return rt, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read realtime config: %w", err)
	}
	if err := yaml.Unmarshal(data, rt); err != nil {
		return nil, fmt.Errorf("decode realtime config %s: %w", path, err)
	}
	if err := rt.Validate(); err != nil {
		return nil, fmt.Errorf("realtime config %s: %w", path, err)
	}
	return rt, nil
}

// Validate checks the settings are usable together.
func (r *Realtime) Validate() error {
	switch {
	case r.SaveDebounce <= 0:
		return fmt.Errorf("save_debounce must be positive")
	case r.KeepAliveInterval <= 0:
		return fmt.Errorf("keep_alive_interval must be positive")
	case r.PongWait <= r.KeepAliveInterval:
		return fmt.Errorf("pong_wait (%s) must exceed keep_alive_interval (%s)", r.PongWait, r.KeepAliveInterval)
	case r.WriteTimeout <= 0:
		return fmt.Errorf("write_timeout must be positive")
	case r.MaxMessageBytes <= 0:
		return fmt.Errorf("max_message_bytes must be positive")
	case r.SendBuffer <= 0:
		return fmt.Errorf("send_buffer must be positive")
	}
	return nil
}
