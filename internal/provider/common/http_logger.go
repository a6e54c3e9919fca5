package common

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/stsh89/hermione/internal/logger"
)

const maxLoggedBody = 4096

var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"x-api-key":     true,
	"api-key":       true,
	"cookie":        true,
	"set-cookie":    true,
}

// LoggingTransport logs every backup request and response. Secrets in
// headers are redacted; bodies are truncated to maxLoggedBody.
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
	logger.Log("HTTP: -> %s %s %s", req.Method, req.URL.Path, formatHeaders(req.Header))
	if body := peekRequestBody(req); body != "" {
		logger.Log("HTTP: -> body %s", body)
	}

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		logger.LogError("HTTP_REQUEST", req.Method+" "+req.URL.Path, err)
		return nil, err
	}

	logger.Log("HTTP: <- %s %s %s (%v)", req.Method, req.URL.Path, resp.Status, duration.Round(time.Millisecond))
	if resp.StatusCode >= 400 {
		if body := peekResponseBody(resp); body != "" {
			logger.Log("HTTP: <- body %s", body)
		}
	}

	return resp, nil
}

func peekRequestBody(req *http.Request) string {
	if req.Body == nil || req.Body == http.NoBody {
		return ""
	}
	if req.ContentLength <= 0 || req.ContentLength > maxLoggedBody {
		return fmt.Sprintf("(%d bytes)", req.ContentLength)
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(bytes.NewReader(data))
	return string(data)
}

func peekResponseBody(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))

	if len(data) > maxLoggedBody {
		return string(data[:maxLoggedBody]) + "..."
	}
	return string(data)
}

func formatHeaders(header http.Header) string {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		value := strings.Join(header[name], ",")
		if isSensitiveHeader(name) {
			value = "[REDACTED]"
		}
		parts = append(parts, name+"="+value)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func isSensitiveHeader(name string) bool {
	return sensitiveHeaders[strings.ToLower(name)]
}
