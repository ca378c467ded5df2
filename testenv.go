package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"hark/beep"
	"hark/clipboard"
	"hark/log"
	"hark/recognizer"
	"hark/session"
	"hark/summarizer"
)

const waitIdleTimeout = 10 * time.Second

// runTestMode drives a session from line commands on in, with a scripted
// recognizer and an in-memory clipboard. The summarizer is real so its
// endpoint can be pointed at a local server. A state line is written to
// out whenever a command changes the published state.
func runTestMode(ctx context.Context, in io.Reader, out io.Writer, sum summarizer.Summarizer) int {
	beep.Disable()

	fake := recognizer.NewFake()
	clip := &clipboard.Fake{}
	sess := session.New(fake, sum, clip)
	log.SessionStart(fake.Name(), version)

	ctx, cancel := context.WithCancel(ctx)
	go sess.Run(ctx)

	d := newTestDriver(sess, fake, clip, out)
	code := d.run(ctx, in)

	cancel()
	<-sess.Done()
	log.SessionEnd(sess.Summaries())
	return code
}

type testDriver struct {
	sess *session.Session
	rec  *recognizer.Fake
	clip *clipboard.Fake
	out  io.Writer
	last string
}

func newTestDriver(sess *session.Session, rec *recognizer.Fake, clip *clipboard.Fake, out io.Writer) *testDriver {
	return &testDriver{sess: sess, rec: rec, clip: clip, out: out}
}

func (d *testDriver) run(ctx context.Context, in io.Reader) int {
	d.report(true)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return 0
		}
		quit, err := d.exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(d.out, "error %v\n", err)
		}
		if quit {
			return 0
		}
	}
	return 0
}

// exec applies one command and reports the resulting state.
func (d *testDriver) exec(ctx context.Context, line string) (quit bool, err error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	force := false
	switch cmd {
	case "":
		return false, nil
	case "TOGGLE":
		d.sess.ToggleListening()
	case "FINAL":
		d.rec.Final(arg)
	case "INTERIM":
		d.rec.Interim(arg)
	case "ERROR":
		d.rec.Fail(errors.New(arg))
	case "END":
		d.rec.End()
	case "FAIL_START":
		if arg == "" {
			d.rec.FailStart(nil)
		} else {
			d.rec.FailStart(errors.New(arg))
		}
	case "SUMMARIZE":
		d.sess.Summarize()
	case "CLEAR":
		d.sess.Clear()
	case "COPY":
		d.sess.Copy()
		d.settle()
		if text, ok := d.clip.Last(); ok {
			fmt.Fprintf(d.out, "copied %q\n", text)
		}
		return false, nil
	case "WAIT_IDLE":
		if err := d.waitIdle(ctx); err != nil {
			return false, err
		}
	case "SLEEP":
		ms, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("bad SLEEP argument %q", arg)
		}
		time.Sleep(time.Duration(ms) * time.Millisecond)
	case "STATE":
		force = true
	case "QUIT":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	d.settle()
	d.report(force)
	return false, nil
}

// settle waits until queued recognizer events and posted actions have been
// applied.
func (d *testDriver) settle() {
	for d.rec.Pending() > 0 {
		time.Sleep(time.Millisecond)
	}
	d.sess.Sync()
}

func (d *testDriver) waitIdle(ctx context.Context) error {
	deadline := time.Now().Add(waitIdleTimeout)
	for d.sess.Snapshot().Summarizing {
		if time.Now().After(deadline) || ctx.Err() != nil {
			return errors.New("timed out waiting for summary")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

func (d *testDriver) report(force bool) {
	line := formatState(d.sess.Snapshot())
	if line == d.last && !force {
		return
	}
	d.last = line
	fmt.Fprintln(d.out, line)
}

func formatState(st session.State) string {
	return fmt.Sprintf("state listening=%t summarizing=%t transcript=%q summary=%q error=%q",
		st.Listening, st.Summarizing, st.Transcript, st.Summary, st.ErrorMessage())
}
