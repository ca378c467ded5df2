package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir(""); SetSession("") })
	return tmp
}

func readDiag(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, diagFileName))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/harklog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/harklog" {
		t.Errorf("got %q, want /tmp/harklog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(wd, "logs"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("HARK_LOG_PATH", "/tmp/hark-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/hark-env-log" {
		t.Errorf("got %q, want /tmp/hark-env-log", got)
	}
}

func TestResolveDirFlagBeatsEnv(t *testing.T) {
	t.Setenv("HARK_LOG_PATH", "/tmp/hark-env-log")
	got, err := ResolveDir("/tmp/hark-flag-log")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/hark-flag-log" {
		t.Errorf("got %q, want /tmp/hark-flag-log", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("HARK_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "hark") {
		t.Errorf("default dir %q should mention hark", got)
	}
}

func TestInitCreatesDiagnosticsFile(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(tmp, diagFileName)); err != nil {
		t.Errorf("%s not created: %v", diagFileName, err)
	}
}

func TestLinesCarrySessionID(t *testing.T) {
	tmp := setupLogDir(t)
	SetSession("sess-42")

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Info("hello")
	Close()

	out := readDiag(t, tmp)
	if !strings.Contains(out, "hello") {
		t.Errorf("missing message, got: %q", out)
	}
	if !strings.Contains(out, "session=sess-42") {
		t.Errorf("missing session field, got: %q", out)
	}
}

func TestSummaryFields(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Summary(SummaryMetrics{Status: 200, PromptChars: 120, SummaryLen: 16, TotalMs: 321, ConnReused: true})
	ListeningRun("deepgram", 2*time.Second, 3, "stop")
	Close()

	out := readDiag(t, tmp)
	for _, want := range []string{"summary_request", "status=200", "conn=reused", "listening_run", "final_segments=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestNoopBeforeInit(t *testing.T) {
	setupLogDir(t)
	Info("dropped")
	Errorf("dropped %d", 1)
	Summary(SummaryMetrics{})
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close()
}
