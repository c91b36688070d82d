package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"timed-quiz-service/internal/app"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		QuestionCount     int    `yaml:"questionCount"`
		TotalTime         string `yaml:"totalTime"`
		TickInterval      string `yaml:"tickInterval"`
		TransitionDelay   string `yaml:"transitionDelay"`
		CacheTTL          string `yaml:"cacheTTL"`
		DefaultDifficulty string `yaml:"defaultDifficulty"`
	} `yaml:"quiz"`
	OpenTDB struct {
		BaseURL string `yaml:"baseURL"`
		Timeout string `yaml:"timeout"`
		// Offline serves the built-in sample bank instead of calling the API.
		Offline bool `yaml:"offline"`
	} `yaml:"opentdb"`
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
	return cfg, nil
}

// LoadOptional is Load, except a missing file yields the zero Config.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
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

// SessionSettings converts the quiz section into session timing, defaulting anything unset.
func (c Config) SessionSettings() app.Settings {
	def := app.DefaultSettings()
	count := c.Quiz.QuestionCount
	if count <= 0 {
		count = def.QuestionCount
	}
	return app.Settings{
		QuestionCount:   count,
		TotalTime:       TTLDuration(c.Quiz.TotalTime, def.TotalTime),
		TickInterval:    TTLDuration(c.Quiz.TickInterval, def.TickInterval),
		TransitionDelay: TTLDuration(c.Quiz.TransitionDelay, def.TransitionDelay),
	}
}
