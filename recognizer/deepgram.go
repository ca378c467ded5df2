package recognizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hark/audio"
	"hark/log"

	"nhooyr.io/websocket"
)

const (
	deepgramDialTimeout = 10 * time.Second
	deepgramCloseGrace  = 3 * time.Second
	streamChunkMs       = 100
)

type DeepgramConfig struct {
	APIKey         string
	Endpoint       string
	Model          string
	Language       string
	SampleRate     int
	Channels       int
	SilenceTimeout time.Duration
}

type deepgramStreamResponse struct {
	Type        string `json:"type"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`
	Channel     struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

// Deepgram streams microphone PCM to Deepgram's live endpoint and turns its
// Results messages into events, one segment per message.
type Deepgram struct {
	cfg      DeepgramConfig
	audioCtx audio.Context
	device   *audio.DeviceInfo
	events   chan Event

	closed    chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	run      *deepgramRun
	starting bool
}

type deepgramRun struct {
	conn    *websocket.Conn
	capture audio.CaptureDevice
	ctx     context.Context
	cancel  context.CancelFunc

	audioCh  chan []byte
	closeReq chan struct{}
	done     chan struct{}

	stopping  atomic.Bool
	speech    atomic.Bool
	stopOnce  sync.Once
	stopCause atomic.Value // string

	startedAt time.Time
	index     int
	finals    int
	feedMu    sync.Mutex
	feedBuf   []byte
}

func NewDeepgram(cfg DeepgramConfig, audioCtx audio.Context, device *audio.DeviceInfo) *Deepgram {
	return &Deepgram{
		cfg:      cfg,
		audioCtx: audioCtx,
		device:   device,
		events:   make(chan Event, 64),
		closed:   make(chan struct{}),
	}
}

func (d *Deepgram) Name() string         { return "deepgram" }
func (d *Deepgram) Available() error     { return nil }
func (d *Deepgram) Events() <-chan Event { return d.events }

func (d *Deepgram) streamURL() (string, error) {
	return StreamURL(d.cfg)
}

// StreamURL is the live endpoint with the query a run connects with.
func StreamURL(cfg DeepgramConfig) (string, error) {
	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid recognizer endpoint: %w", err)
	}
	q := endpoint.Query()
	model := cfg.Model
	if model == "" {
		model = "nova-3"
	}
	q.Set("model", model)
	q.Set("encoding", "linear16")
	if cfg.SampleRate > 0 {
		q.Set("sample_rate", fmt.Sprintf("%d", cfg.SampleRate))
	}
	if cfg.Channels > 0 {
		q.Set("channels", fmt.Sprintf("%d", cfg.Channels))
	}
	if cfg.Language != "" {
		q.Set("language", cfg.Language)
	}
	q.Set("interim_results", "true")
	endpoint.RawQuery = q.Encode()
	return endpoint.String(), nil
}

// AuthHeader carries the API key the way the live endpoint expects it.
func AuthHeader(apiKey string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Token "+apiKey)
	return h
}

// Start dials and opens capture without holding the lock, so Stop and
// Close stay responsive during a slow dial.
func (d *Deepgram) Start(ctx context.Context) error {
	d.mu.Lock()
	select {
	case <-d.closed:
		d.mu.Unlock()
		return errors.New("recognizer closed")
	default:
	}
	if d.run != nil || d.starting {
		d.mu.Unlock()
		return ErrAlreadyRunning
	}
	d.starting = true
	d.mu.Unlock()

	r, err := d.open(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.starting = false
	if err != nil {
		return err
	}
	select {
	case <-d.closed:
		r.capture.Close()
		r.cancel()
		r.conn.Close(websocket.StatusNormalClosure, "")
		return errors.New("recognizer closed")
	default:
	}

	if err := r.capture.Start(); err != nil {
		r.capture.Close()
		r.cancel()
		r.conn.Close(websocket.StatusNormalClosure, "")
		return fmt.Errorf("start capture: %w", err)
	}

	d.run = r
	log.Infof("recognition started: provider=deepgram device=%s", r.capture.DeviceName())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); r.runSender() }()
	go func() { defer wg.Done(); d.runIdle(r) }()
	go d.runReceiver(r, &wg)
	return nil
}

// open connects the socket and prepares capture for a new run.
func (d *Deepgram) open(ctx context.Context) (*deepgramRun, error) {
	streamURL, err := d.streamURL()
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	dialCtx, dialCancel := context.WithTimeout(runCtx, deepgramDialTimeout)
	conn, _, err := websocket.Dial(dialCtx, streamURL, &websocket.DialOptions{HTTPHeader: AuthHeader(d.cfg.APIKey)})
	dialCancel()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("connect: %w", err)
	}

	capture, err := d.audioCtx.NewCapture(d.device, audio.CaptureConfig{
		SampleRate: uint32(d.cfg.SampleRate),
		Channels:   uint32(d.cfg.Channels),
	})
	if err != nil {
		cancel()
		conn.Close(websocket.StatusNormalClosure, "")
		return nil, fmt.Errorf("open capture: %w", err)
	}

	r := &deepgramRun{
		conn:      conn,
		capture:   capture,
		ctx:       runCtx,
		cancel:    cancel,
		audioCh:   make(chan []byte, 128),
		closeReq:  make(chan struct{}),
		done:      make(chan struct{}),
		startedAt: time.Now(),
	}
	chunkBytes := d.cfg.SampleRate * d.cfg.Channels * audio.BytesPerSample * streamChunkMs / 1000
	capture.SetCallback(func(data []byte, _ uint32) {
		r.feed(data, chunkBytes)
	})
	return r, nil
}

// feed batches PCM into fixed-size chunks. A full queue drops audio rather
// than blocking the capture thread.
func (r *deepgramRun) feed(data []byte, chunkBytes int) {
	if r.stopping.Load() {
		return
	}
	r.feedMu.Lock()
	r.feedBuf = append(r.feedBuf, data...)
	var chunks [][]byte
	for len(r.feedBuf) >= chunkBytes {
		chunk := make([]byte, chunkBytes)
		copy(chunk, r.feedBuf[:chunkBytes])
		r.feedBuf = r.feedBuf[chunkBytes:]
		chunks = append(chunks, chunk)
	}
	r.feedMu.Unlock()

	for _, c := range chunks {
		select {
		case r.audioCh <- c:
		default:
			log.Warn("recognizer audio queue full, dropping chunk")
		}
	}
}

func (r *deepgramRun) runSender() {
	for {
		select {
		case <-r.ctx.Done():
			return
		case chunk := <-r.audioCh:
			if err := r.conn.Write(r.ctx, websocket.MessageBinary, chunk); err != nil {
				return
			}
		case <-r.closeReq:
		drain:
			for {
				select {
				case chunk := <-r.audioCh:
					if err := r.conn.Write(r.ctx, websocket.MessageBinary, chunk); err != nil {
						return
					}
				default:
					break drain
				}
			}
			r.feedMu.Lock()
			tail := r.feedBuf
			r.feedBuf = nil
			r.feedMu.Unlock()
			if len(tail) > 0 {
				if err := r.conn.Write(r.ctx, websocket.MessageBinary, tail); err != nil {
					return
				}
			}
			if err := r.conn.Write(r.ctx, websocket.MessageText, []byte(`{"type":"CloseStream"}`)); err != nil {
				log.Warnf("recognizer close stream: %v", err)
			}
			return
		}
	}
}

func (d *Deepgram) runIdle(r *deepgramRun) {
	mon := newIdleMonitor(d.cfg.SilenceTimeout)
	ticker := time.NewTicker(idleTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.closeReq:
			return
		case <-ticker.C:
			if mon.Tick(r.speech.Swap(false)) {
				log.Infof("recognition idle for %s, ending run", d.cfg.SilenceTimeout)
				r.requestStop("silence")
				return
			}
		}
	}
}

// requestStop stops capture and asks the server to flush. The receiver
// delivers EventEnd once the server closes, or after a grace period.
func (r *deepgramRun) requestStop(cause string) {
	r.stopOnce.Do(func() {
		r.stopCause.Store(cause)
		r.stopping.Store(true)
		r.capture.Stop()
		r.capture.ClearCallback()
		close(r.closeReq)
		go func() {
			select {
			case <-r.done:
			case <-time.After(deepgramCloseGrace):
				r.cancel()
			}
		}()
	})
}

func (d *Deepgram) runReceiver(r *deepgramRun, wg *sync.WaitGroup) {
	var runErr error
	for {
		_, data, err := r.conn.Read(r.ctx)
		if err != nil {
			if !r.stopping.Load() && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				runErr = err
			}
			break
		}

		var resp deepgramStreamResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			log.Warnf("recognizer: unparseable message: %v", err)
			continue
		}
		if resp.Type != "" && resp.Type != "Results" {
			continue
		}
		d.emit(r.result(resp))
	}

	// Later Stop calls become no-ops.
	r.stopOnce.Do(func() { r.stopping.Store(true) })
	r.cancel()
	wg.Wait()
	r.capture.Stop()
	r.capture.Close()
	r.conn.Close(websocket.StatusNormalClosure, "")

	// Cleared before EventEnd goes out, so a start issued after the
	// listener sees it never gets ErrAlreadyRunning.
	d.mu.Lock()
	d.run = nil
	d.mu.Unlock()

	cause, _ := r.stopCause.Load().(string)
	switch {
	case runErr != nil:
		cause = "error"
	case cause == "":
		cause = "server"
	}
	log.ListeningRun(d.Name(), time.Since(r.startedAt), r.finals, cause)

	if runErr != nil {
		d.emit(Event{Kind: EventError, Err: runErr})
	}
	d.emit(Event{Kind: EventEnd})
	close(r.done)
}

// result maps one Results message to an event. An empty transcript still
// produces an event so a stale interim is cleared.
func (r *deepgramRun) result(resp deepgramStreamResponse) Event {
	text := ""
	if len(resp.Channel.Alternatives) > 0 {
		text = strings.TrimSpace(resp.Channel.Alternatives[0].Transcript)
	}
	ev := Event{Kind: EventResult, ResultIndex: r.index}
	if text == "" {
		return ev
	}
	r.speech.Store(true)
	ev.Results = []Segment{{Text: text, Final: resp.IsFinal}}
	if resp.IsFinal {
		r.index++
		r.finals++
	}
	return ev
}

func (d *Deepgram) emit(ev Event) {
	select {
	case d.events <- ev:
	case <-d.closed:
	}
}

func (d *Deepgram) Stop() {
	d.mu.Lock()
	r := d.run
	d.mu.Unlock()
	if r != nil {
		r.requestStop("stop")
	}
}

func (d *Deepgram) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		r := d.run
		d.mu.Unlock()
		if r != nil {
			r.requestStop("close")
			r.cancel()
		}
		close(d.closed)
	})
}
