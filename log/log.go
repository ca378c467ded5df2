package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const diagFileName = "diagnostics_log.txt"

var (
	diagLog   zerolog.Logger
	diagFile  *os.File
	logMu     sync.Mutex
	logReady  bool
	pid       int
	dir       string
	sessionID string
)

// SummaryMetrics describes one completion request.
type SummaryMetrics struct {
	Status      int
	PromptChars int
	SummaryLen  int
	DNSMs       float64
	TLSMs       float64
	TTFBMs      float64
	TotalMs     float64
	ConnReused  bool
}

func ResolveDir(flagPath string) (string, error) {
	if flagPath != "" {
		return absFromWd(flagPath)
	}
	if envPath := os.Getenv("HARK_LOG_PATH"); envPath != "" {
		return absFromWd(envPath)
	}
	return getDefaultDir()
}

func absFromWd(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// SetSession tags every following line with the session id. Call before Init.
func SetSession(id string) {
	sessionID = id
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	f, err := os.OpenFile(filepath.Join(dir, diagFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	diagFile = f

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	ctx := zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid)
	if sessionID != "" {
		ctx = ctx.Str("session", sessionID)
	}
	diagLog = ctx.Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Summary(m SummaryMetrics) {
	if !logReady {
		return
	}

	connStatus := "new"
	if m.ConnReused {
		connStatus = "reused"
	}

	diagLog.Info().
		Int("status", m.Status).
		Str("conn", connStatus).
		Int("prompt_chars", m.PromptChars).
		Int("summary_chars", m.SummaryLen).
		Float64("dns_ms", m.DNSMs).
		Float64("tls_ms", m.TLSMs).
		Float64("ttfb_ms", m.TTFBMs).
		Float64("total_ms", m.TotalMs).
		Msg("summary_request")
}

func ListeningRun(provider string, d time.Duration, finals int, reason string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("provider", provider).
		Float64("duration_s", d.Seconds()).
		Int("final_segments", finals).
		Str("reason", reason).
		Msg("listening_run")
}

func SessionStart(provider, version string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("provider", provider).
		Str("version", version).
		Msg("session_start")
}

func SessionEnd(summaries int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("summaries", summaries).
		Msg("session_end")
}
