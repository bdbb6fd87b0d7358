// Package config resolves the immutable runtime configuration. Values come
// from config.yaml (looked up per CONFIG_ENV), TEACHGRADE_* environment
// overrides and defaults, in that order of precedence.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Service struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type Services struct {
	Transcription Service `mapstructure:"transcription"`
	Reasoning     Service `mapstructure:"reasoning"`
	TTS           Service `mapstructure:"tts"`
}

type Media struct {
	FFmpeg string `mapstructure:"ffmpeg"`
}

type Paths struct {
	Sessions string `mapstructure:"sessions"`
	Audio    string `mapstructure:"audio"`
	Evidence string `mapstructure:"evidence"`
	Feedback string `mapstructure:"feedback"`
	Rubrics  string `mapstructure:"rubrics"`
}

type Root struct {
	Pipeline struct {
		Name       string `mapstructure:"name"`
		Version    string `mapstructure:"version"`
		LogLvl     string `mapstructure:"log_level"`
		TimeoutSec int    `mapstructure:"http_timeout_sec"`
	} `mapstructure:"pipeline"`
	Services Services `mapstructure:"services"`
	Media    Media    `mapstructure:"media"`
	Paths    Paths    `mapstructure:"paths"`
}

func Load() (*Root, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join("config", env))
	v.AddConfigPath(".")

	v.SetEnvPrefix("TEACHGRADE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("pipeline.name", "teachgrade")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("pipeline.http_timeout_sec", 60)
	// Every service key gets a default so environment overrides bind.
	for _, svc := range []string{"transcription", "reasoning", "tts"} {
		v.SetDefault("services."+svc+".url", "")
		v.SetDefault("services."+svc+".api_key", "")
	}
	v.SetDefault("services.transcription.model", "whisper-large-v3")
	v.SetDefault("services.reasoning.model", "compound-mini")
	v.SetDefault("services.tts.model", "aura-stella-en")
	v.SetDefault("media.ffmpeg", "ffmpeg")
	v.SetDefault("paths.sessions", filepath.Join("data", "sessions"))
	v.SetDefault("paths.audio", filepath.Join("uploads", "audio"))
	v.SetDefault("paths.evidence", filepath.Join("uploads", "evidence"))
	v.SetDefault("paths.feedback", filepath.Join("uploads", "tts"))
	v.SetDefault("paths.rubrics", "rubrics")

	if err := v.ReadInConfig(); err != nil {
		// Environment and defaults are a complete configuration on
		// their own; only a malformed file is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// HTTPTimeout is the transport-level timeout for every collaborator call.
func (r *Root) HTTPTimeout() time.Duration {
	return time.Duration(r.Pipeline.TimeoutSec) * time.Second
}
