package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"hark/summarizer"
)

const (
	ProviderDeepgram = "deepgram"
	ProviderNone     = "none"
)

type RecognizerConfig struct {
	Provider         string `yaml:"provider"` // deepgram, none
	Endpoint         string `yaml:"endpoint"`
	Model            string `yaml:"model"`
	Language         string `yaml:"language"`
	SampleRate       int    `yaml:"sample_rate"`
	Channels         int    `yaml:"channels"`
	SilenceTimeoutMS int    `yaml:"silence_timeout_ms"`
	Device           string `yaml:"device"`
}

type SummarizerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type UIConfig struct {
	Hotkey bool `yaml:"hotkey"`
	Chimes bool `yaml:"chimes"`
}

type LogConfig struct {
	Dir string `yaml:"dir"`
}

// Credentials are only ever read from the process environment.
type Credentials struct {
	OpenAIKey   string `yaml:"-"`
	DeepgramKey string `yaml:"-"`
}

type Config struct {
	Recognizer  RecognizerConfig `yaml:"recognizer"`
	Summarizer  SummarizerConfig `yaml:"summarizer"`
	UI          UIConfig         `yaml:"ui"`
	Log         LogConfig        `yaml:"log"`
	Credentials Credentials      `yaml:"-"`
}

func Default() Config {
	return Config{
		Recognizer: RecognizerConfig{
			Provider:         ProviderDeepgram,
			Endpoint:         "wss://api.deepgram.com/v1/listen",
			Model:            "nova-3",
			Language:         "en-US",
			SampleRate:       16000,
			Channels:         1,
			SilenceTimeoutMS: 10000,
		},
		Summarizer: SummarizerConfig{
			Endpoint: summarizer.DefaultEndpoint,
		},
		UI: UIConfig{Chimes: true},
	}
}

// DefaultPath is used when -config is not given; a missing file there is not an error.
func DefaultPath() string {
	if p := os.Getenv("HARK_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hark", "config.yaml")
}

// Load reads path from fs on top of Default, then applies HARK_* overrides
// and credentials from the environment. An empty path skips the file.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOptional is Load, but a missing file falls back to defaults.
func LoadOptional(fs afero.Fs, path string) (Config, error) {
	if path != "" {
		if ok, _ := afero.Exists(fs, path); !ok {
			path = ""
		}
	}
	return Load(fs, path)
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Recognizer.Provider, "HARK_RECOGNIZER_PROVIDER")
	overrideString(&cfg.Recognizer.Endpoint, "HARK_RECOGNIZER_ENDPOINT")
	overrideString(&cfg.Recognizer.Model, "HARK_RECOGNIZER_MODEL")
	overrideString(&cfg.Recognizer.Language, "HARK_RECOGNIZER_LANGUAGE")
	overrideInt(&cfg.Recognizer.SampleRate, "HARK_RECOGNIZER_SAMPLE_RATE")
	overrideInt(&cfg.Recognizer.Channels, "HARK_RECOGNIZER_CHANNELS")
	overrideInt(&cfg.Recognizer.SilenceTimeoutMS, "HARK_RECOGNIZER_SILENCE_TIMEOUT_MS")
	overrideString(&cfg.Recognizer.Device, "HARK_RECOGNIZER_DEVICE")
	overrideString(&cfg.Summarizer.Endpoint, "HARK_SUMMARIZER_ENDPOINT")
	overrideBool(&cfg.UI.Hotkey, "HARK_UI_HOTKEY")
	overrideBool(&cfg.UI.Chimes, "HARK_UI_CHIMES")
	overrideString(&cfg.Log.Dir, "HARK_LOG_PATH")

	cfg.Credentials.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Credentials.DeepgramKey = os.Getenv("DEEPGRAM_API_KEY")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	switch cfg.Recognizer.Provider {
	case ProviderDeepgram:
		if cfg.Recognizer.Endpoint == "" {
			return errors.New("recognizer.endpoint must be set when provider=deepgram")
		}
	case ProviderNone:
	default:
		return errors.New("recognizer.provider must be one of deepgram|none")
	}
	if cfg.Recognizer.SampleRate <= 0 {
		return errors.New("recognizer.sample_rate must be positive")
	}
	if cfg.Recognizer.Channels <= 0 {
		return errors.New("recognizer.channels must be positive")
	}
	if cfg.Recognizer.SilenceTimeoutMS < 0 {
		return errors.New("recognizer.silence_timeout_ms must be >= 0")
	}
	if cfg.Summarizer.Endpoint == "" {
		return errors.New("summarizer.endpoint must not be empty")
	}
	return nil
}
