package doctor

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"nhooyr.io/websocket"

	"hark/audio"
	"hark/clipboard"
	"hark/config"
	"hark/hotkey"
	"hark/recognizer"
	"hark/summarizer"
)

// Checks returns the standard check list for cfg.
func Checks(cfg config.Config) []Check {
	return []Check{
		{Name: "Credentials", Run: func(context.Context) (string, error) { return checkCredentials(cfg.Credentials) }},
		{Name: "Audio capture", Run: func(context.Context) (string, error) { return checkAudio(cfg.Recognizer.Device) }},
		{Name: "Recognizer connection", Run: func(ctx context.Context) (string, error) { return checkRecognizer(ctx, cfg) }},
		{Name: "Summarizer", Run: func(ctx context.Context) (string, error) { return checkSummarizer(ctx, cfg) }},
		{Name: "Clipboard", Run: func(context.Context) (string, error) { return checkClipboard() }},
		{Name: "Hotkey", Run: func(context.Context) (string, error) { return checkHotkey(hotkey.New()) }},
	}
}

func checkCredentials(c config.Credentials) (string, error) {
	var missing []string
	if c.DeepgramKey == "" {
		missing = append(missing, "DEEPGRAM_API_KEY")
	}
	if c.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("not set: %v", missing)
	}
	return "DEEPGRAM_API_KEY and OPENAI_API_KEY are set", nil
}

func checkAudio(name string) (string, error) {
	ctx, err := audio.NewContext()
	if err != nil {
		return "", fmt.Errorf("cannot connect to audio: %w", err)
	}
	defer ctx.Close()

	dev, err := audio.FindDevice(ctx, name)
	if err != nil {
		return "", err
	}
	if dev == nil {
		devices, err := ctx.Devices()
		if err != nil {
			return "", fmt.Errorf("cannot list devices: %w", err)
		}
		if len(devices) == 0 {
			return "", errors.New("no capture devices found")
		}
		return fmt.Sprintf("%d device(s), using system default", len(devices)), nil
	}
	return "using " + dev.Name, nil
}

// checkRecognizer opens and immediately closes a streaming session.
func checkRecognizer(ctx context.Context, cfg config.Config) (string, error) {
	rc := cfg.Recognizer
	if rc.Provider == config.ProviderNone {
		return "", Skip("recognition disabled by configuration")
	}
	if cfg.Credentials.DeepgramKey == "" {
		return "", Skip("DEEPGRAM_API_KEY is not set")
	}

	dc := recognizer.DeepgramConfigFrom(cfg)
	raw, err := recognizer.StreamURL(dc)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("bad endpoint: %w", err)
	}

	conn, _, err := websocket.Dial(ctx, raw, &websocket.DialOptions{
		HTTPHeader: recognizer.AuthHeader(dc.APIKey),
	})
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", u.Host, err)
	}
	defer conn.CloseNow()
	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"type":"CloseStream"}`)); err != nil {
		return "", fmt.Errorf("close stream on %s: %w", u.Host, err)
	}
	conn.Close(websocket.StatusNormalClosure, "")
	return "connected to " + u.Host, nil
}

func checkSummarizer(ctx context.Context, cfg config.Config) (string, error) {
	if cfg.Credentials.OpenAIKey == "" {
		return "", Skip("OPENAI_API_KEY is not set")
	}
	sum := summarizer.NewOpenAI(cfg.Summarizer.Endpoint, cfg.Credentials.OpenAIKey)
	out, err := sum.Summarize(ctx, "This is a connectivity check from hark doctor.")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("completion returned %d chars", len(out)), nil
}

// checkClipboard round-trips a marker and restores what was there.
func checkClipboard() (string, error) {
	prev, _ := clipboard.Read()
	const marker = "hark doctor clipboard check"
	if err := (clipboard.System{}).Copy(marker); err != nil {
		return "", err
	}
	got, err := clipboard.Read()
	if prev != "" {
		clipboard.System{}.Copy(prev)
	}
	if err != nil {
		return "", fmt.Errorf("read back: %w", err)
	}
	if got != marker {
		return "", fmt.Errorf("read back %q", got)
	}
	return "copy and read back ok", nil
}

func checkHotkey(hk hotkey.Hotkey) (string, error) {
	if err := hk.Register(); err != nil {
		return "", fmt.Errorf("could not register %s: %w", hotkey.Label, err)
	}
	hk.Unregister()
	return hotkey.Label + " can be registered", nil
}
