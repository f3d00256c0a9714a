package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
		// File enables a rotating log file next to stderr output.
		File      string `yaml:"file"`
		MaxSizeMB int    `yaml:"max_size_mb"`
	} `yaml:"log"`
	Data struct {
		SchedulePath  string `yaml:"schedule_path"`
		QuestionsPath string `yaml:"questions_path"`
	} `yaml:"data"`
	Schedule struct {
		// Source is file or postgres.
		Source   string `yaml:"source"`
		TTL      string `yaml:"ttl"`
		CacheKey string `yaml:"cache_key"`
	} `yaml:"schedule"`
	Progress struct {
		// Backend is one of memory, redis, postgres or sqlite.
		Backend    string `yaml:"backend"`
		Key        string `yaml:"key"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"progress"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Data.SchedulePath == "" {
		c.Data.SchedulePath = "data/schedule.json"
	}
	if c.Schedule.Source == "" {
		c.Schedule.Source = "file"
	}
	if c.Progress.Backend == "" {
		c.Progress.Backend = "memory"
	}
	if c.Progress.Key == "" {
		c.Progress.Key = "assessment:progress"
	}
	if c.Progress.SQLitePath == "" {
		c.Progress.SQLitePath = "var/progress.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 10
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
