// Package config resolves settings from defaults, the config file, .env, the environment
// and flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/remote"
)

type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	Debug   bool          `mapstructure:"debug"`
	Storage StorageConfig `mapstructure:"storage"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Blob    BlobConfig    `mapstructure:"blob"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Server  ServerConfig  `mapstructure:"server"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, file, memory
}

type RemoteConfig struct {
	// Driver is none, http, postgres or redis, or a comma-separated list tried in order
	Driver  string        `mapstructure:"driver"`
	URL     string        `mapstructure:"url"`
	Key     string        `mapstructure:"key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type BlobConfig struct {
	Driver  string `mapstructure:"driver"` // fs, s3, memory
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region"`
}

type ArchiveConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type SyncConfig struct {
	ProbeInterval time.Duration `mapstructure:"probe_interval"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Backend is the store behind the sync server: memory, postgres or redis
	Backend string `mapstructure:"backend"`
}

// Options carries the values given on the command line
type Options struct {
	DataDir string
	// ConfigFile overrides <dataDir>/glowup.yaml
	ConfigFile string
	// EnvFile is loaded into the environment before it is read; missing files are ignored
	EnvFile string
	Debug   bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", constants.DefaultDataDir)
	v.SetDefault("debug", false)
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("remote.driver", "none")
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.key", constants.DocumentKey)
	v.SetDefault("remote.timeout", constants.DefaultRemoteTimeout)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", constants.AppName+":")
	v.SetDefault("blob.driver", "fs")
	v.SetDefault("blob.bucket", "")
	v.SetDefault("blob.prefix", "previews")
	v.SetDefault("blob.profile", "")
	v.SetDefault("blob.region", "")
	v.SetDefault("archive.interval", constants.DefaultArchiveInterval)
	v.SetDefault("sync.probe_interval", constants.DefaultProbeInterval)
	v.SetDefault("server.addr", constants.DefaultServerAddr)
	v.SetDefault("server.backend", "memory")
}

// Load resolves the configuration
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.DataDir != "" {
		v.Set("data_dir", opts.DataDir)
	}
	dataDir, err := ExpandPath(v.GetString("data_dir"))
	if err != nil {
		return nil, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(constants.DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dataDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	if opts.Debug {
		v.Set("debug", true)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if cfg.DataDir, err = ExpandPath(cfg.DataDir); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ExpandPath resolves a leading ~ to the home directory
func ExpandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Clean(p), nil
}

// RemoteDrivers splits the remote driver list, dropping "none"
func (c *Config) RemoteDrivers() []string {
	var drivers []string
	for _, d := range strings.Split(c.Remote.Driver, ",") {
		d = strings.TrimSpace(strings.ToLower(d))
		if d != "" && d != "none" {
			drivers = append(drivers, d)
		}
	}
	return drivers
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("unknown storage.driver %q: must be sqlite, file or memory", c.Storage.Driver)
	}
	for _, d := range c.RemoteDrivers() {
		switch d {
		case "http":
			if c.Remote.URL == "" {
				return errors.New("remote.url is required for the http remote")
			}
		case "postgres":
			// the connection string may also come from the keyring
			if c.Remote.URL != "" {
				if err := remote.ValidateConnString(c.Remote.URL); err != nil {
					return fmt.Errorf("remote.url: %w", err)
				}
			}
		case "redis":
		default:
			return fmt.Errorf("unknown remote driver %q: must be none, http, postgres or redis", d)
		}
	}
	if c.Remote.Key == "" {
		return errors.New("remote.key cannot be empty")
	}
	switch c.Blob.Driver {
	case "fs", "memory":
	case "s3":
		if c.Blob.Bucket == "" {
			return errors.New("blob.bucket is required for the s3 blob store")
		}
	default:
		return fmt.Errorf("unknown blob.driver %q: must be fs, s3 or memory", c.Blob.Driver)
	}
	switch c.Server.Backend {
	case "memory", "postgres", "redis":
	default:
		return fmt.Errorf("unknown server.backend %q: must be memory, postgres or redis", c.Server.Backend)
	}
	if c.Archive.Interval <= 0 || c.Sync.ProbeInterval <= 0 {
		return errors.New("archive.interval and sync.probe_interval must be positive")
	}
	return nil
}

// DatabasePath is the sqlite file, or the directory for the file driver
func (c *Config) DatabasePath() string {
	if c.Storage.Driver == "file" {
		return filepath.Join(c.DataDir, "data")
	}
	return filepath.Join(c.DataDir, constants.DatabaseFileName)
}

func (c *Config) BlobDir() string   { return filepath.Join(c.DataDir, constants.BlobDirName) }
func (c *Config) ExportDir() string { return filepath.Join(c.DataDir, constants.ExportDirName) }
func (c *Config) InboxDir() string  { return filepath.Join(c.DataDir, constants.InboxDirName) }
