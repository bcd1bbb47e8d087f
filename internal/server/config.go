package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/mortgage-amortization/internal/cache"
	"github.com/iwvelando/mortgage-amortization/internal/config"
	"github.com/iwvelando/mortgage-amortization/pkg/constants"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string               `yaml:"address"`
	MaxUploadSize   string               `yaml:"maxUploadSize"`
	AllowedOrigins  []string             `yaml:"allowedOrigins"`
	Cache           CacheConfig          `yaml:"cache"`
	Logging         config.LoggingConfig `yaml:"logging"`
	uploadSizeBytes int64
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Type       string `yaml:"type"`       // memory, redis, none
	Address    string `yaml:"address"`    // redis only
	TTL        string `yaml:"ttl"`        // e.g. 10m
	MaxEntries int    `yaml:"maxEntries"` // memory only
	ttl        time.Duration
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Address:         constants.DefaultServerAddress,
		MaxUploadSize:   fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes),
		Cache: CacheConfig{
			Type:       constants.CacheTypeMemory,
			MaxEntries: constants.DefaultCacheMaxEntries,
			ttl:        constants.DefaultCacheTTLSeconds * time.Second,
		},
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
	}
}

// UploadSizeBytes returns the configured request body limit in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured request body limit.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = fmt.Sprintf("%d", size)
	}
}

// CacheTTL returns the parsed cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return c.Cache.ttl
}

// NewCache builds the cache selected by the configuration.
func (c *Config) NewCache(logger *zap.Logger) cache.Cache {
	switch c.Cache.Type {
	case constants.CacheTypeRedis:
		return cache.NewRedis(logger, c.Cache.Address, c.CacheTTL())
	case constants.CacheTypeNone:
		return cache.Nop{}
	default:
		return cache.NewMemory(c.CacheTTL(), c.Cache.MaxEntries)
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	if err := c.Cache.normalize(); err != nil {
		return err
	}

	sizeStr := strings.TrimSpace(c.MaxUploadSize)
	if sizeStr == "" {
		c.uploadSizeBytes = constants.DefaultMaxUploadSizeBytes
		c.MaxUploadSize = fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	return nil
}

func (cc *CacheConfig) normalize() error {
	cc.Type = strings.ToLower(strings.TrimSpace(cc.Type))
	switch cc.Type {
	case "":
		cc.Type = constants.CacheTypeMemory
	case constants.CacheTypeMemory, constants.CacheTypeNone:
	case constants.CacheTypeRedis:
		if cc.Address == "" {
			return fmt.Errorf("cache type %s requires an address", constants.CacheTypeRedis)
		}
	default:
		return fmt.Errorf("unsupported cache type %q", cc.Type)
	}

	switch {
	case cc.MaxEntries < 0:
		return fmt.Errorf("cache maxEntries must not be negative, got %d", cc.MaxEntries)
	case cc.MaxEntries == 0:
		cc.MaxEntries = constants.DefaultCacheMaxEntries
	}

	cc.ttl = constants.DefaultCacheTTLSeconds * time.Second
	if ttl := strings.TrimSpace(cc.TTL); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid cache ttl %q: %w", cc.TTL, err)
		}
		if d < 0 {
			return fmt.Errorf("cache ttl must not be negative, got %s", cc.TTL)
		}
		cc.ttl = d
	}
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
