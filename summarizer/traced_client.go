package summarizer

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

// Requests are bounded by the caller's context only.
const maxBodyBytes = 1 << 20

// timings are the connection phases of one completion request.
type timings struct {
	DNS        time.Duration
	TLS        time.Duration
	TTFB       time.Duration
	Total      time.Duration
	ConnReused bool
}

// tracedClient keeps one warm connection to the completion host and records
// timings per request.
type tracedClient struct {
	http *http.Client
}

func newTracedClient() *tracedClient {
	return &tracedClient{
		http: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 1,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		},
	}
}

type tracedResponse struct {
	StatusCode int
	Body       []byte
	Timings    timings
}

// do sends req and reads the whole body, up to maxBodyBytes.
func (c *tracedClient) do(req *http.Request) (*tracedResponse, error) {
	var t timings
	var dnsStart, tlsStart, wrote time.Time

	trace := &httptrace.ClientTrace{
		GotConn:              func(info httptrace.GotConnInfo) { t.ConnReused = info.Reused },
		DNSStart:             func(httptrace.DNSStartInfo) { dnsStart = time.Now() },
		DNSDone:              func(httptrace.DNSDoneInfo) { t.DNS = time.Since(dnsStart) },
		TLSHandshakeStart:    func() { tlsStart = time.Now() },
		TLSHandshakeDone:     func(tls.ConnectionState, error) { t.TLS = time.Since(tlsStart) },
		WroteRequest:         func(httptrace.WroteRequestInfo) { wrote = time.Now() },
		GotFirstResponseByte: func() { t.TTFB = time.Since(wrote) },
	}

	start := time.Now()
	resp, err := c.http.Do(req.WithContext(httptrace.WithClientTrace(req.Context(), trace)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	t.Total = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("read completion body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("completion body exceeds %d bytes", maxBodyBytes)
	}
	return &tracedResponse{StatusCode: resp.StatusCode, Body: body, Timings: t}, nil
}
