package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string        `yaml:"port"`
	ModelsDir      string        `yaml:"models_dir"`
	OnnxRuntimeLib string        `yaml:"onnxruntime_lib"`
	LogLevel       string        `yaml:"log_level"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	Weather        WeatherConfig `yaml:"weather"`
	Cache          CacheConfig   `yaml:"cache"`
}

type WeatherConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Entries int           `yaml:"entries"`
}

// CacheConfig enables the forecast cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

func Default() *Config {
	return &Config{
		Port:           "8080",
		ModelsDir:      "models",
		LogLevel:       "info",
		MaxUploadBytes: 10 << 20,
		Weather: WeatherConfig{
			BaseURL: "https://api.openweathermap.org",
			Timeout: 10 * time.Second,
			Entries: 5,
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"PORT":            &c.Port,
		"AGRO_MODELS_DIR": &c.ModelsDir,
		"ONNXRUNTIME_LIB": &c.OnnxRuntimeLib,
		"AGRO_LOG_LEVEL":  &c.LogLevel,
		"OWM_API_KEY":     &c.Weather.APIKey,
		"OWM_BASE_URL":    &c.Weather.BaseURL,
		"AGRO_REDIS_ADDR": &c.Cache.RedisAddr,
		"AGRO_REDIS_PASS": &c.Cache.RedisPassword,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("AGRO_CACHE_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AGRO_CACHE_TTL: %w", err)
		}
		c.Cache.TTL = ttl
	}
	if v, ok := lookup("AGRO_MAX_UPLOAD_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("AGRO_MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.Weather.Entries <= 0 {
		return fmt.Errorf("weather.entries must be positive, got %d", c.Weather.Entries)
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
