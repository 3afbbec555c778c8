package discovery

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
)

const maxLoggedBody = 10000

// LoggingTransport wraps an http.RoundTripper and records every exchange in
// the session log. Credentials in headers are never written.
type LoggingTransport struct {
	Transport http.RoundTripper
}

func NewLoggingTransport(transport http.RoundTripper) *LoggingTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &LoggingTransport{
		Transport: transport,
	}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logRequest(req)

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		logger.LogError("HTTP_REQUEST", fmt.Sprintf("%s %s", req.Method, req.URL.Redacted()), err)
		logger.Log("HTTP: %s %s - ERROR after %v", req.Method, req.URL.Path, duration)
		return nil, err
	}

	t.logResponse(req, resp, duration)
	return resp, nil
}

func (t *LoggingTransport) logRequest(req *http.Request) {
	var buf strings.Builder

	fmt.Fprintf(&buf, "HTTP request: %s %s\n", req.Method, req.URL.Redacted())
	writeHeaders(&buf, req.Header)

	if req.Body != nil && req.GetBody != nil && req.ContentLength > 0 && req.ContentLength < maxLoggedBody {
		if body, err := req.GetBody(); err == nil {
			data, _ := io.ReadAll(body)
			body.Close()
			fmt.Fprintf(&buf, "Body (%d bytes): %s\n", len(data), data)
		}
	}

	logger.Log("%s", strings.TrimRight(buf.String(), "\n"))
}

func (t *LoggingTransport) logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	var buf strings.Builder

	fmt.Fprintf(&buf, "HTTP response: %s %s - %s (%v)\n", req.Method, req.URL.Path, resp.Status, duration)
	writeHeaders(&buf, resp.Header)

	if resp.Body != nil && resp.ContentLength != 0 {
		// only the logged prefix is buffered; the caller reads the rest
		peeked, err := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
		resp.Body = &peekedBody{Reader: io.MultiReader(bytes.NewReader(peeked), resp.Body), Closer: resp.Body}

		switch {
		case err != nil:
			logger.LogError("HTTP_RESPONSE_BODY", req.URL.Path, err)
		case len(peeked) == maxLoggedBody:
			fmt.Fprintf(&buf, "Body: (%d bytes or more, not logged)\n", maxLoggedBody)
		case len(peeked) > 0:
			fmt.Fprintf(&buf, "Body (%d bytes): %s\n", len(peeked), peeked)
		}
	}

	logger.Log("%s", strings.TrimRight(buf.String(), "\n"))
}

type peekedBody struct {
	io.Reader
	io.Closer
}

func writeHeaders(buf *strings.Builder, header http.Header) {
	for name, values := range header {
		if isSensitiveHeader(name) {
			fmt.Fprintf(buf, "  %s: [REDACTED]\n", name)
			continue
		}
		for _, value := range values {
			fmt.Fprintf(buf, "  %s: %s\n", name, value)
		}
	}
}

func isSensitiveHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "proxy-authorization", "cookie", "set-cookie":
		return true
	}
	return false
}
