package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	PlayerURL string        `yaml:"player_url"`
	Channel   string        `yaml:"channel"`
	SID       string        `yaml:"sid"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

type CatalogConfig struct {
	PageLimit     int           `yaml:"page_limit"`
	SeasonLimit   int           `yaml:"season_limit"`
	VideoQuality  int           `yaml:"video_quality"` // 0=low .. 4=fhd
	OriginalNames bool          `yaml:"original_names"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         6541,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 0,
		},
		API: APIConfig{
			BaseURL:   "https://api.vgtrk.com/api/v1",
			PlayerURL: "https://player.vgtrk.com",
			Channel:   "1",
			SID:       "russiatv",
			UserAgent: "mobile-russitv1-android",
			Timeout:   30 * time.Second,
		},
		Catalog: CatalogConfig{
			PageLimit:     20,
			SeasonLimit:   20,
			VideoQuality:  0,
			OriginalNames: false,
			CacheTTL:      180 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "data/history.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
