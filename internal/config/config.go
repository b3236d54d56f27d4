package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/scene"
)

const (
	DefaultMood    = "Calm"
	DefaultFPS     = 60
	DefaultDataDir = "gallery"
	DefaultStorage = StorageFile
	DefaultPort    = "8080"
	DefaultEnv     = "development"

	StorageFile   = "file"
	StorageSQLite = "sqlite"

	// MaxDimension bounds viewport sides accepted from config and requests.
	MaxDimension = 4096
)

type Config struct {
	Mood     string                     `yaml:"mood"`
	Seed     uint32                     `yaml:"seed"`
	Viewport scene.Viewport             `yaml:"viewport"`
	FPS      int                        `yaml:"fps"`
	DataDir  string                     `yaml:"data_dir"`
	Storage  string                     `yaml:"storage"`
	Server   ServerConfig               `yaml:"server"`
	Moods    map[string]mood.VisualSpec `yaml:"moods,omitempty"`
}

type ServerConfig struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	SentryDSN   string `yaml:"sentry_dsn,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Mood:     DefaultMood,
		Viewport: Viewports[DefaultViewport],
		FPS:      DefaultFPS,
		DataDir:  DefaultDataDir,
		Storage:  DefaultStorage,
		Server: ServerConfig{
			Port:        DefaultPort,
			Environment: DefaultEnv,
		},
	}
}

// Load reads a YAML config on top of the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fill()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads path when it is non-empty, otherwise starts from defaults,
// then applies .env and the process environment.
func Resolve(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays MOODCANVAS_* variables, PORT, SENTRY_DSN and ENVIRONMENT.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	if v := get("MOODCANVAS_MOOD"); v != "" {
		c.Mood = v
	}
	if v := get("MOODCANVAS_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("MOODCANVAS_SEED: %w", err)
		}
		c.Seed = uint32(n)
	}
	if v := get("MOODCANVAS_VIEWPORT"); v != "" {
		vp, err := ParseViewport(v)
		if err != nil {
			return fmt.Errorf("MOODCANVAS_VIEWPORT: %w", err)
		}
		c.Viewport = vp
	}
	if v := get("MOODCANVAS_FPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MOODCANVAS_FPS: %w", err)
		}
		c.FPS = n
	}
	if v := get("MOODCANVAS_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := get("MOODCANVAS_STORAGE"); v != "" {
		c.Storage = v
	}
	c.Server.Port = getEnv(getenv, "PORT", c.Server.Port)
	c.Server.SentryDSN = getEnv(getenv, "SENTRY_DSN", c.Server.SentryDSN)
	c.Server.Environment = getEnv(getenv, "ENVIRONMENT", c.Server.Environment)

	c.fill()
	return c.Validate()
}

func getEnv(getenv func(string) string, key, defaultValue string) string {
	value := getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// fill replaces zero values left by a partial file.
func (c *Config) fill() {
	if c.Mood == "" {
		c.Mood = DefaultMood
	}
	if c.Viewport.Empty() {
		c.Viewport = Viewports[DefaultViewport]
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.Storage == "" {
		c.Storage = DefaultStorage
	}
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Server.Environment == "" {
		c.Server.Environment = DefaultEnv
	}
	for name, spec := range c.Moods {
		if spec.Speed == 0 {
			spec.Speed = mood.DefaultSpeed
			c.Moods[name] = spec
		}
	}
}

func (c *Config) Validate() error {
	if c.Viewport.Width > MaxDimension || c.Viewport.Height > MaxDimension {
		return fmt.Errorf("viewport %dx%d exceeds %d", c.Viewport.Width, c.Viewport.Height, MaxDimension)
	}
	switch c.Storage {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	if _, err := c.Resolver(); err != nil {
		return err
	}
	return nil
}

// Resolver returns a mood resolver extended with the configured moods.
func (c *Config) Resolver() (*mood.Resolver, error) {
	if len(c.Moods) == 0 {
		return mood.Default, nil
	}
	r, err := mood.NewResolver(c.Moods)
	if err != nil {
		return nil, fmt.Errorf("moods: %w", err)
	}
	return r, nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
