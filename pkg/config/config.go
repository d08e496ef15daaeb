package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/avatarshuffle/pkg/avatar"
	"github.com/matzehuels/avatarshuffle/pkg/eligibility"
	"github.com/matzehuels/avatarshuffle/pkg/storage"
	"github.com/matzehuels/avatarshuffle/pkg/style"
)

const appName = "avatarshuffle"

// Environment variables read by [Config.ApplyEnv].
const (
	EnvOpenAIKey         = "OPENAI_API_KEY"
	EnvMaxRequests       = "OPENAI_MAX_REQUESTS"
	EnvMaxImagesPerBatch = "OPENAI_MAX_IMAGES_PER_BATCH"
	EnvFigmaKey          = "FIGMA_API_KEY"
	EnvLibraryFileKey    = "FIGMA_LIBRARY_FILE_KEY"
	EnvRedisAddr         = "AVATARSHUFFLE_REDIS_ADDR"
	EnvMongoURI          = "AVATARSHUFFLE_MONGO_URI"
)

// Duration is a time.Duration written as a string ("60s", "5m") in TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full configuration.
type Config struct {
	Avatar   Avatar   `toml:"avatar"`
	Library  Library  `toml:"library"`
	Category Category `toml:"category"`
	Storage  Storage  `toml:"storage"`
	Run      Run      `toml:"run"`
	Server   Server   `toml:"server"`
}

// Avatar configures the image generation API.
type Avatar struct {
	APIKey            string `toml:"api_key"`
	MaxRequests       int    `toml:"max_requests"`
	MaxImagesPerBatch int    `toml:"max_images_per_batch"`
	Endpoint          string `toml:"endpoint,omitempty"`
	Size              string `toml:"size,omitempty"`
}

// Library configures the style library file.
type Library struct {
	Token   string   `toml:"token"`
	FileKey string   `toml:"file_key"`
	BaseURL string   `toml:"base_url,omitempty"`
	TTL     Duration `toml:"ttl"`
}

// Category configures how categories are extracted from style names.
type Category struct {
	Pattern string `toml:"pattern"`
	Group   int    `toml:"group"`
}

// Storage selects the key/value backend.
type Storage struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir,omitempty"`
	RedisAddr       string `toml:"redis_addr,omitempty"`
	RedisPassword   string `toml:"redis_password,omitempty"`
	RedisDB         int    `toml:"redis_db,omitempty"`
	MongoURI        string `toml:"mongo_uri,omitempty"`
	MongoDatabase   string `toml:"mongo_database,omitempty"`
	MongoCollection string `toml:"mongo_collection,omitempty"`
	Prefix          string `toml:"prefix,omitempty"`
}

// Run configures plugin runs.
type Run struct {
	Timeout       Duration `toml:"timeout"`
	NotifyTimeout Duration `toml:"notify_timeout"`
	Rule          string   `toml:"rule"`
}

// Server configures the HTTP service.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Library:  Library{TTL: Duration(5 * time.Minute)},
		Category: Category{Pattern: style.DefaultCategoryPattern, Group: 1},
		Storage:  Storage{Backend: storage.BackendFile},
		Run: Run{
			Timeout:       Duration(60 * time.Second),
			NotifyTimeout: Duration(5 * time.Second),
			Rule:          eligibility.RuleImageOnly.String(),
		},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns the config file location (~/.config/avatarshuffle/config.toml).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load reads path over the defaults and applies the environment. A missing
// file is not an error. An empty path uses [DefaultPath].
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes TOML data over the defaults without reading the environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings with the non-empty variables returned by
// getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString(&c.Avatar.APIKey, EnvOpenAIKey)
	setString(&c.Library.Token, EnvFigmaKey)
	setString(&c.Library.FileKey, EnvLibraryFileKey)
	if v := getenv(EnvRedisAddr); v != "" {
		c.Storage.RedisAddr = v
		c.Storage.Backend = storage.BackendRedis
	}
	if v := getenv(EnvMongoURI); v != "" {
		c.Storage.MongoURI = v
		c.Storage.Backend = storage.BackendMongo
	}
	if err := setInt(&c.Avatar.MaxRequests, EnvMaxRequests); err != nil {
		return err
	}
	return setInt(&c.Avatar.MaxImagesPerBatch, EnvMaxImagesPerBatch)
}

// Validate checks the settings that are wrong regardless of which commands
// run. Missing API keys are reported later by the components that need
// them.
func (c Config) Validate() error {
	if _, err := style.NewCategorizer(c.Category.Pattern, c.Category.Group); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	if _, ok := eligibility.ParseRule(c.Run.Rule); !ok {
		return fmt.Errorf("run.rule: unknown rule %q", c.Run.Rule)
	}
	if c.Run.Timeout <= 0 {
		return fmt.Errorf("run.timeout must be positive")
	}
	switch c.Storage.Backend {
	case "", storage.BackendFile, storage.BackendMemory, storage.BackendRedis, storage.BackendMongo:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	return nil
}

// AvatarConfig converts the [avatar] section.
func (c Config) AvatarConfig() avatar.Config {
	return avatar.Config{
		APIKey:            c.Avatar.APIKey,
		MaxRequests:       c.Avatar.MaxRequests,
		MaxImagesPerBatch: c.Avatar.MaxImagesPerBatch,
		Endpoint:          c.Avatar.Endpoint,
		Size:              c.Avatar.Size,
	}
}

// StorageOptions converts the [storage] section.
func (c Config) StorageOptions() storage.Options {
	s := c.Storage
	return storage.Options{
		Backend:         s.Backend,
		Dir:             s.Dir,
		RedisAddr:       s.RedisAddr,
		RedisPassword:   s.RedisPassword,
		RedisDB:         s.RedisDB,
		MongoURI:        s.MongoURI,
		MongoDatabase:   s.MongoDatabase,
		MongoCollection: s.MongoCollection,
		Prefix:          s.Prefix,
	}
}

// Categorizer builds the configured categorizer.
func (c Config) Categorizer() (*style.Categorizer, error) {
	return style.NewCategorizer(c.Category.Pattern, c.Category.Group)
}

// Rule returns the configured eligibility rule, defaulting to image-only.
func (c Config) Rule() eligibility.Rule {
	r, _ := eligibility.ParseRule(c.Run.Rule)
	return r
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
