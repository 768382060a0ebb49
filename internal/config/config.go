// Package config loads the netpong client configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Player  PlayerConfig  `yaml:"player"`
	Sound   SoundConfig   `yaml:"sound"`
	Network NetworkConfig `yaml:"network"`
	UI      UIConfig      `yaml:"ui"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Transport string `yaml:"transport"` // "tcp" or "ws"
	WSPath    string `yaml:"ws_path"`
}

type PlayerConfig struct {
	Name string `yaml:"name"`
}

type SoundConfig struct {
	Enabled bool `yaml:"enabled"`
}

type NetworkConfig struct {
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	ReadTimeout      time.Duration `yaml:"read_timeout"` // 0 disables
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	RetryEveryTicks  int           `yaml:"retry_every_ticks"`
	MaxAttempts      int           `yaml:"max_attempts"` // 0 retries until cancelled
	MaxFrameBytes    int           `yaml:"max_frame_bytes"`
}

type UIConfig struct {
	TickRate int           `yaml:"tick_rate"`
	KeyHold  time.Duration `yaml:"key_hold"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

const (
	TransportTCP = "tcp"
	TransportWS  = "ws"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "localhost",
			Port:      8080,
			Transport: TransportTCP,
			WSPath:    "/ws",
		},
		Player: PlayerConfig{Name: "Player"},
		Sound:  SoundConfig{Enabled: true},
		Network: NetworkConfig{
			DialTimeout:      900 * time.Millisecond,
			HandshakeTimeout: 2 * time.Second,
			ReadTimeout:      10 * time.Second,
			WriteTimeout:     50 * time.Millisecond,
			RetryEveryTicks:  60,
			MaxFrameBytes:    1 << 20,
		},
		UI: UIConfig{
			TickRate: 60,
			KeyHold:  150 * time.Millisecond,
		},
		Log: LogConfig{
			File:  "netpong.log",
			Level: "info",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Host == "" {
		errs = append(errs, errors.New("server.host is empty"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch c.Server.Transport {
	case TransportTCP, TransportWS:
	default:
		errs = append(errs, fmt.Errorf("server.transport %q: want %q or %q", c.Server.Transport, TransportTCP, TransportWS))
	}
	if c.Network.DialTimeout <= 0 {
		errs = append(errs, errors.New("network.dial_timeout must be positive"))
	}
	if c.Network.HandshakeTimeout <= 0 {
		errs = append(errs, errors.New("network.handshake_timeout must be positive"))
	}
	if c.Network.ReadTimeout < 0 {
		errs = append(errs, errors.New("network.read_timeout must not be negative"))
	}
	if c.Network.RetryEveryTicks < 1 {
		errs = append(errs, errors.New("network.retry_every_ticks must be at least 1"))
	}
	if c.Network.MaxAttempts < 0 {
		errs = append(errs, errors.New("network.max_attempts must not be negative"))
	}
	if c.UI.TickRate < 1 || c.UI.TickRate > 240 {
		errs = append(errs, fmt.Errorf("ui.tick_rate %d out of range", c.UI.TickRate))
	}
	return errors.Join(errs...)
}

// Addr returns host:port for dialing.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// TickInterval is the duration of one render tick.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.UI.TickRate)
}
