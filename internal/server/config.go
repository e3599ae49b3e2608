package server

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/acquisition-forecast/internal/config"
	"github.com/iwvelando/acquisition-forecast/pkg/constants"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultRequestTimeout bounds how long one analysis request may run.
const DefaultRequestTimeout = 30 * time.Second

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string               `yaml:"address"`
	MaxUploadSize   string               `yaml:"maxUploadSize"`
	RequestTimeout  string               `yaml:"requestTimeout"`
	Logging         config.LoggingConfig `yaml:"logging"`
	uploadSizeBytes int64
	requestTimeout  time.Duration
}

// LoadConfig loads the server configuration from YAML. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, eris.Wrapf(err, "server: failed to read server config %s", path)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, eris.Wrap(err, "server: failed to parse server config")
			}
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = strconv.FormatInt(size, 10)
	}
}

// Timeout returns the per-request analysis timeout.
func (c *Config) Timeout() time.Duration {
	return c.requestTimeout
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = size
	c.MaxUploadSize = strconv.FormatInt(size, 10)

	c.requestTimeout = DefaultRequestTimeout
	if trimmed := strings.TrimSpace(c.RequestTimeout); trimmed != "" {
		timeout, err := time.ParseDuration(trimmed)
		if err != nil {
			return eris.Wrapf(err, "server: invalid request timeout %q", c.RequestTimeout)
		}
		if timeout > 0 {
			c.requestTimeout = timeout
		}
	}
	return nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into
// bytes. An empty string selects the default upload size.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	idx := strings.LastIndexFunc(trimmed, unicode.IsDigit) + 1
	if idx == 0 {
		return 0, eris.Errorf("server: invalid size %q", value)
	}
	unit := strings.TrimSpace(trimmed[idx:])
	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, eris.Errorf("server: unsupported size unit %q", unit)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(trimmed[:idx]), 10, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "server: invalid size value %q", value)
	}
	result := n * multiplier
	if n > 0 && result/multiplier != n {
		return 0, eris.Errorf("server: size overflow for value %q", value)
	}
	return result, nil
}
