package doctor

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"nhooyr.io/websocket"

	"hark/config"
	"hark/hotkey"
)

func TestRunReportsResults(t *testing.T) {
	checks := []Check{
		{Name: "ok", Run: func(context.Context) (string, error) { return "fine", nil }},
		{Name: "skipped", Run: func(context.Context) (string, error) { return "", Skip("not configured") }},
		{Name: "broken", Run: func(context.Context) (string, error) { return "", errors.New("boom") }},
	}
	var out bytes.Buffer
	if code := Run(context.Background(), &out, checks); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	for _, want := range []string{"[1/3] ok", "PASS: fine", "SKIP: not configured", "FAIL: boom", "1 check(s) failed"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunSkipIsNotFailure(t *testing.T) {
	checks := []Check{
		{Name: "skipped", Run: func(context.Context) (string, error) { return "", Skip("n/a") }},
	}
	var out bytes.Buffer
	if code := Run(context.Background(), &out, checks); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestCheckCredentials(t *testing.T) {
	if _, err := checkCredentials(config.Credentials{OpenAIKey: "sk", DeepgramKey: "dg"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	_, err := checkCredentials(config.Credentials{OpenAIKey: "sk"})
	if err == nil || !strings.Contains(err.Error(), "DEEPGRAM_API_KEY") {
		t.Errorf("err = %v", err)
	}
}

func TestCheckRecognizer(t *testing.T) {
	var gotAuth string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.CloseNow()
		c.Read(r.Context())
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Recognizer.Endpoint = "ws" + strings.TrimPrefix(srv.URL, "http")
	cfg.Credentials.DeepgramKey = "dg-test"

	if _, err := checkRecognizer(context.Background(), cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Token dg-test" {
		t.Errorf("auth = %q", gotAuth)
	}
	want := map[string]string{
		"model":           cfg.Recognizer.Model,
		"language":        cfg.Recognizer.Language,
		"interim_results": "true",
		"encoding":        "linear16",
	}
	for k, v := range want {
		if got := gotQuery.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestCheckRecognizerSkips(t *testing.T) {
	cfg := config.Default()
	cfg.Recognizer.Provider = config.ProviderNone
	var skip *skipError
	if _, err := checkRecognizer(context.Background(), cfg); !errors.As(err, &skip) {
		t.Errorf("err = %v, want skip", err)
	}
	cfg = config.Default()
	if _, err := checkRecognizer(context.Background(), cfg); !errors.As(err, &skip) {
		t.Errorf("missing key: err = %v, want skip", err)
	}
}

func TestCheckSummarizer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"choices":[{"text":" ok "}]}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Summarizer.Endpoint = srv.URL
	cfg.Credentials.OpenAIKey = "sk-test"
	detail, err := checkSummarizer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(detail, "2 chars") {
		t.Errorf("detail = %q", detail)
	}

	cfg.Credentials.OpenAIKey = "wrong"
	if _, err := checkSummarizer(context.Background(), cfg); err == nil {
		t.Error("expected error on 401")
	}
}

func TestCheckHotkey(t *testing.T) {
	if _, err := checkHotkey(hotkey.NewFake()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
