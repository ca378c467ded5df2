package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"hark/audio"
	"hark/beep"
	"hark/clipboard"
	"hark/config"
	"hark/doctor"
	"hark/hotkey"
	"hark/log"
	"hark/recognizer"
	"hark/session"
	"hark/shutdown"
	"hark/summarizer"
)

var version = "dev"

type options struct {
	config  string
	logPath string
	device  string
	lang    string
	setup   bool
	test    bool
	gui     bool
	hotkey  bool
	doctor  bool
	version bool
	crash   bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.config, "config", "", "Path to YAML config (default: "+config.DefaultPath()+")")
	flag.StringVar(&o.logPath, "logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	flag.StringVar(&o.device, "device", "", "Use named microphone device")
	flag.StringVar(&o.lang, "lang", "", "Recognition language (e.g., en-US, de-DE)")
	flag.BoolVar(&o.setup, "setup", false, "Select microphone device (otherwise uses system default)")
	flag.BoolVar(&o.test, "test", false, "Test mode (headless, stdin-driven)")
	flag.BoolVar(&o.gui, "gui", false, "Open the desktop window instead of the terminal UI")
	flag.BoolVar(&o.hotkey, "hotkey", false, "Toggle listening with "+hotkey.Label)
	flag.BoolVar(&o.doctor, "doctor", false, "Run system diagnostics and exit")
	flag.BoolVar(&o.version, "version", false, "Print version and exit")
	flag.BoolVar(&o.crash, "crash", false, "Trigger synthetic panic for testing crash logging")
	flag.Parse()
	return o
}

func loadConfig(o options) (config.Config, error) {
	fs := afero.NewOsFs()
	var (
		cfg config.Config
		err error
	)
	if o.config != "" {
		cfg, err = config.Load(fs, o.config)
	} else {
		cfg, err = config.LoadOptional(fs, config.DefaultPath())
	}
	if err != nil {
		return cfg, err
	}
	if o.device != "" {
		cfg.Recognizer.Device = o.device
	}
	if o.lang != "" {
		cfg.Recognizer.Language = o.lang
	}
	if o.hotkey {
		cfg.UI.Hotkey = true
	}
	return cfg, nil
}

func initLogging(o options, cfg config.Config) {
	p := o.logPath
	if p == "" {
		p = cfg.Log.Dir
	}
	dir, err := log.ResolveDir(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to resolve log directory: %v\n", err)
		return
	}
	log.SetDir(dir)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
		return
	}

	crashFile, err := os.OpenFile(filepath.Join(dir, "crash_log.txt"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	log.SetSession(uuid.NewString())
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
}

func run() int {
	o := parseFlags()

	if o.version {
		fmt.Printf("hark %s\n", version)
		return 0
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	initLogging(o, cfg)
	defer log.Close()

	if o.crash {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if o.doctor {
		return doctor.Run(context.Background(), os.Stdout, doctor.Checks(cfg))
	}

	if o.setup {
		return runSetup()
	}

	ctx, cancel := shutdown.Context(context.Background())
	defer cancel()

	sum := summarizer.NewOpenAI(cfg.Summarizer.Endpoint, cfg.Credentials.OpenAIKey)

	if o.test {
		return runTestMode(ctx, os.Stdin, os.Stdout, sum)
	}

	if !cfg.UI.Chimes {
		beep.Disable()
	}

	audioCtx, audioErr := audio.NewContext()
	if audioErr != nil {
		log.Warnf("audio context init error: %v", audioErr)
		audioCtx = nil
	} else {
		defer audioCtx.Close()
	}

	adapter := recognizer.New(cfg, audioCtx, audioErr)
	defer adapter.Close()
	log.SessionStart(adapter.Name(), version)

	sess := session.New(adapter, sum, clipboard.System{})
	go sess.Run(ctx)

	chimeStates, stopChimes := sess.Subscribe()
	defer stopChimes()
	go watchChimes(chimeStates)

	if cfg.UI.Hotkey {
		startHotkey(ctx, sess)
	}

	states, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	var code int
	if o.gui {
		code = runGUI(ctx, sess, states)
	} else {
		code = runTUI(ctx, sess, states, cfg.UI.Hotkey)
	}

	// Stop an active run before the adapter and audio host go away.
	cancel()
	<-sess.Done()
	log.SessionEnd(sess.Summaries())
	return code
}

func runSetup() int {
	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("Error initializing audio: %v\n", err)
		return 1
	}
	defer ctx.Close()

	dev, err := audio.SelectDevice(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	if dev == nil {
		fmt.Println("No device selected.")
		return 0
	}
	fmt.Printf("Selected %q. Set recognizer.device in %s or pass -device to use it.\n", dev.Name, config.DefaultPath())
	return 0
}

func startHotkey(ctx context.Context, sess *session.Session) {
	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		log.Warnf("hotkey unavailable: %v", err)
		fmt.Fprintf(os.Stderr, "Warning: %s unavailable: %v\n", hotkey.Label, err)
		return
	}
	go func() {
		hotkey.Forward(ctx, hk, sess.ToggleListening)
		hk.Unregister()
	}()
}

func runTUI(ctx context.Context, sess *session.Session, states <-chan session.State, hotkeyOn bool) int {
	p := tea.NewProgram(newTUIModel(sess, states, hotkeyOn), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Errorf("TUI error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
