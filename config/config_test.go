package config

import (
	"testing"

	"github.com/spf13/afero"

	"hark/summarizer"
)

func writeFile(t *testing.T, fs afero.Fs, path, body string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Recognizer.Provider != ProviderDeepgram {
		t.Errorf("provider = %q, want %q", cfg.Recognizer.Provider, ProviderDeepgram)
	}
	if cfg.Recognizer.Language != "en-US" {
		t.Errorf("language = %q, want en-US", cfg.Recognizer.Language)
	}
	if cfg.Summarizer.Endpoint != summarizer.DefaultEndpoint {
		t.Errorf("summarizer endpoint = %q, want %q", cfg.Summarizer.Endpoint, summarizer.DefaultEndpoint)
	}
	if !cfg.UI.Chimes {
		t.Error("chimes should default on")
	}
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/etc/hark.yaml", `
recognizer:
  provider: none
  silence_timeout_ms: 2500
summarizer:
  endpoint: http://localhost:9999/v1/completions
ui:
  hotkey: true
`)

	cfg, err := Load(fs, "/etc/hark.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Recognizer.Provider != ProviderNone {
		t.Errorf("provider = %q, want none", cfg.Recognizer.Provider)
	}
	if cfg.Recognizer.SilenceTimeoutMS != 2500 {
		t.Errorf("silence timeout = %d, want 2500", cfg.Recognizer.SilenceTimeoutMS)
	}
	if cfg.Recognizer.SampleRate != 16000 {
		t.Errorf("unset fields should keep defaults, sample rate = %d", cfg.Recognizer.SampleRate)
	}
	if cfg.Summarizer.Endpoint != "http://localhost:9999/v1/completions" {
		t.Errorf("endpoint = %q", cfg.Summarizer.Endpoint)
	}
	if !cfg.UI.Hotkey {
		t.Error("expected hotkey enabled")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(afero.NewMemMapFs(), "/nope.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(afero.NewMemMapFs(), "/nope.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Recognizer.Model != "nova-3" {
		t.Errorf("model = %q, want default", cfg.Recognizer.Model)
	}
}

func TestLoadBadYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/bad.yaml", "recognizer: [")
	if _, err := Load(fs, "/bad.yaml"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HARK_RECOGNIZER_PROVIDER", "none")
	t.Setenv("HARK_RECOGNIZER_LANGUAGE", "de-DE")
	t.Setenv("HARK_RECOGNIZER_SILENCE_TIMEOUT_MS", "1500")
	t.Setenv("HARK_SUMMARIZER_ENDPOINT", "http://127.0.0.1:1/complete")
	t.Setenv("HARK_UI_HOTKEY", "true")
	t.Setenv("HARK_UI_CHIMES", "false")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DEEPGRAM_API_KEY", "dg-test")

	cfg, err := Load(afero.NewMemMapFs(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Recognizer.Provider != ProviderNone {
		t.Errorf("provider = %q", cfg.Recognizer.Provider)
	}
	if cfg.Recognizer.Language != "de-DE" {
		t.Errorf("language = %q", cfg.Recognizer.Language)
	}
	if cfg.Recognizer.SilenceTimeoutMS != 1500 {
		t.Errorf("silence timeout = %d", cfg.Recognizer.SilenceTimeoutMS)
	}
	if cfg.Summarizer.Endpoint != "http://127.0.0.1:1/complete" {
		t.Errorf("endpoint = %q", cfg.Summarizer.Endpoint)
	}
	if !cfg.UI.Hotkey {
		t.Error("expected hotkey override")
	}
	if cfg.UI.Chimes {
		t.Error("expected chimes disabled")
	}
	if cfg.Credentials.OpenAIKey != "sk-test" || cfg.Credentials.DeepgramKey != "dg-test" {
		t.Errorf("credentials = %+v", cfg.Credentials)
	}
}

func TestCredentialsIgnoredInFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/c.yaml", "credentials:\n  openaikey: leaked\n")

	cfg, err := Load(fs, "/c.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Credentials.OpenAIKey != "" {
		t.Errorf("credential read from file: %q", cfg.Credentials.OpenAIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad provider", func(c *Config) { c.Recognizer.Provider = "whisper" }},
		{"no endpoint", func(c *Config) { c.Recognizer.Endpoint = "" }},
		{"zero rate", func(c *Config) { c.Recognizer.SampleRate = 0 }},
		{"zero channels", func(c *Config) { c.Recognizer.Channels = 0 }},
		{"negative silence", func(c *Config) { c.Recognizer.SilenceTimeoutMS = -1 }},
		{"no summarizer", func(c *Config) { c.Summarizer.Endpoint = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := validate(Default()); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}
