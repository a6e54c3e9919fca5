package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/logger"
	"golang.org/x/time/rate"
)

// Sender dispatches requests and retries a 429 response exactly once, after
// the delay the server asked for in Retry-After.
type Sender struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewSender paces requests with limiter before each dispatch. A nil limiter
// disables pacing.
func NewSender(client *http.Client, limiter *rate.Limiter) *Sender {
	if client == nil {
		client = http.DefaultClient
	}
	return &Sender{
		client:  client,
		limiter: limiter,
	}
}

func (s *Sender) Send(req *http.Request) (*http.Response, error) {
	resp, err := s.dispatch(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusTooManyRequests {
		return resp, nil
	}

	delay, err := RetryAfter(resp.Header)
	drainAndClose(resp)
	if err != nil {
		logger.LogError("HTTP_RATE_LIMIT", requestLabel(req), err)
		return nil, domain.BackupError("rate limited by "+req.URL.Host, err)
	}

	retry, err := rewind(req)
	if err != nil {
		logger.LogError("HTTP_RATE_LIMIT", requestLabel(req), err)
		return nil, domain.BackupError("retry "+requestLabel(req), err)
	}

	logger.Log("HTTP: %s rate limited, retrying once in %v", requestLabel(req), delay)
	if err := sleep(req.Context(), delay); err != nil {
		return nil, domain.BackupError("wait for Retry-After", err)
	}

	return s.dispatch(retry)
}

func (s *Sender) dispatch(req *http.Request) (*http.Response, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(req.Context()); err != nil {
			return nil, domain.BackupError("wait for request slot", err)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, domain.BackupError(requestLabel(req), err)
	}
	return resp, nil
}

// RetryAfter reads the delay in whole seconds. HTTP-date values are not
// accepted.
func RetryAfter(header http.Header) (time.Duration, error) {
	value := strings.TrimSpace(header.Get("Retry-After"))
	if value == "" {
		return 0, ErrMissingRetryAfter
	}

	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMissingRetryAfter, value)
	}

	return time.Duration(seconds) * time.Second, nil
}

func rewind(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return retry, nil
	}

	if req.GetBody == nil {
		return nil, ErrRequestNotRewindable
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestNotRewindable, err)
	}
	retry.Body = body
	return retry, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func requestLabel(req *http.Request) string {
	return req.Method + " " + req.URL.Path
}
