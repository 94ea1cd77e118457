// Package config loads settings from ~/.coachboard.yaml, COACHBOARD_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"coachboard/internal/board"
	"coachboard/internal/edit"
	"coachboard/internal/geom"
	"coachboard/internal/history"
)

const (
	FileName  = ".coachboard.yaml"
	EnvPrefix = "COACHBOARD"
)

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	DB   int    `mapstructure:"db"`
}

type BlobConfig struct {
	Driver string `mapstructure:"driver"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"accessKey"`
	SecretKey string `mapstructure:"secretKey"`
}

type Config struct {
	LogLevel      string `mapstructure:"logLevel"`
	LogFile       string `mapstructure:"logFile"`
	DataDir       string `mapstructure:"dataDir"`
	ExportDir     string `mapstructure:"exportDir"`
	Confirmations bool   `mapstructure:"confirmations"`

	Store StoreConfig `mapstructure:"store"`
	Redis RedisConfig `mapstructure:"redis"`
	Blob  BlobConfig  `mapstructure:"blob"`
	S3    S3Config    `mapstructure:"s3"`

	History struct {
		Capacity int `mapstructure:"capacity"`
	} `mapstructure:"history"`
	View struct {
		MinScale float64 `mapstructure:"minScale"`
		MaxScale float64 `mapstructure:"maxScale"`
	} `mapstructure:"view"`
	Hit struct {
		Tolerance float64 `mapstructure:"tolerance"`
	} `mapstructure:"hit"`
	Entity struct {
		Radius float64 `mapstructure:"radius"`
	} `mapstructure:"entity"`
	Stroke struct {
		MinDistance float64 `mapstructure:"minDistance"`
	} `mapstructure:"stroke"`
	Label struct {
		MaxLen int `mapstructure:"maxLen"`
	} `mapstructure:"label"`
	Text struct {
		MaxLen int `mapstructure:"maxLen"`
	} `mapstructure:"text"`

	// Path is the file the settings were read from, empty when none was found.
	Path string `mapstructure:"-"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")
	viper.SetDefault("dataDir", defaultDataDir())
	viper.SetDefault("exportDir", "")
	viper.SetDefault("confirmations", true)

	viper.SetDefault("store.driver", "sqlite")
	viper.SetDefault("store.dsn", "")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("blob.driver", "store")
	viper.SetDefault("s3.bucket", "")
	viper.SetDefault("s3.region", "us-east-1")
	viper.SetDefault("s3.endpoint", "")
	viper.SetDefault("s3.accessKey", "")
	viper.SetDefault("s3.secretKey", "")

	viper.SetDefault("history.capacity", history.DefaultCapacity)
	viper.SetDefault("view.minScale", geom.DefaultMinScale)
	viper.SetDefault("view.maxScale", geom.DefaultMaxScale)
	viper.SetDefault("hit.tolerance", edit.DefaultHitTolerance)
	viper.SetDefault("entity.radius", board.DefaultRadius)
	viper.SetDefault("stroke.minDistance", board.MinStrokeDistance)
	viper.SetDefault("label.maxLen", board.MaxLabelLen)
	viper.SetDefault("text.maxLen", board.MaxTextLen)
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "coachboard")
	}
	return ".coachboard"
}

// Load reads path, or ~/.coachboard.yaml when path is empty. A missing
// default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	setDefaults()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, FileName)
		}
	}

	var used string
	if path != "" {
		viper.SetConfigFile(path)
		viper.SetConfigType("yaml")
		err := viper.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case err == nil:
			used = path
		case !explicit && (errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)):
		default:
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.Path = used
	return cfg, nil
}

// Limits maps the editing settings onto board limits. Out-of-range values
// keep the defaults.
func (c *Config) Limits() board.Limits {
	l := board.DefaultLimits()
	if c.Entity.Radius > 0 {
		l.Radius = c.Entity.Radius
	}
	if c.Label.MaxLen > 0 {
		l.MaxLabelLen = c.Label.MaxLen
	}
	if c.Text.MaxLen > 0 {
		l.MaxTextLen = c.Text.MaxLen
	}
	if c.Stroke.MinDistance >= 0 {
		l.MinStrokeDist = c.Stroke.MinDistance
	}
	if c.History.Capacity > 0 {
		l.HistoryCapacity = c.History.Capacity
	}
	return l
}

// ExportPath joins filename onto the export directory, creating it as
// needed. Without an export directory the name is used as given.
func (c *Config) ExportPath(filename string) (string, error) {
	if c.ExportDir == "" {
		return filename, nil
	}
	dir := expandHome(c.ExportDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	return filepath.Join(dir, filename), nil
}

// DataPath joins name onto the data directory, creating it as needed.
func (c *Config) DataPath(name string) (string, error) {
	dir := expandHome(c.DataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return filepath.Join(dir, name), nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
