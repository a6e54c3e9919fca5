// Implements the raw Notion API calls used for backups.

package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/provider/common"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Notion API base URL.
	BaseURL = "https://api.notion.com/v1"
	// APIVersion is the pinned Notion API version.
	APIVersion = "2022-06-28"
	// DefaultRequestsPerSecond matches Notion's documented average limit.
	DefaultRequestsPerSecond = 3
	DefaultTimeout           = 30 * time.Second
)

type clientSettings struct {
	baseURL   string
	transport http.RoundTripper
	limiter   *rate.Limiter
	timeout   time.Duration
}

type Option func(*clientSettings)

// WithBaseURL points the client at another API root, typically a test server.
func WithBaseURL(baseURL string) Option {
	return func(s *clientSettings) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithTransport(transport http.RoundTripper) Option {
	return func(s *clientSettings) {
		s.transport = transport
	}
}

// WithRequestsPerSecond paces outgoing calls. Zero or negative disables
// pacing.
func WithRequestsPerSecond(rps float64) Option {
	return func(s *clientSettings) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(s *clientSettings) {
		s.timeout = timeout
	}
}

// Client is a Notion API client. Every call goes through a common.Sender.
type Client struct {
	baseURL string
	sender  *common.Sender
}

func NewClient(apiKey string, opts ...Option) *Client {
	settings := clientSettings{
		baseURL: BaseURL,
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	httpClient := &http.Client{
		Timeout: settings.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey}),
			Base:   common.NewLoggingTransport(settings.transport),
		},
	}

	return &Client{
		baseURL: settings.baseURL,
		sender:  common.NewSender(httpClient, settings.limiter),
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	label := method + " " + path

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return domain.BackupError("marshal "+label, err)
		}
		payload = data
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return domain.BackupError("create "+label, err)
	}
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.sender.Send(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.BackupError("read "+label, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
			apiErr = &Error{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}
		apiErr.Status = resp.StatusCode
		return domain.BackupError(label, apiErr)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return domain.BackupError(fmt.Sprintf("parse %s response", label), err)
	}
	return nil
}

func (c *Client) QueryDatabase(ctx context.Context, databaseID string, req *QueryRequest) (*QueryResponse, error) {
	if req == nil {
		req = &QueryRequest{}
	}

	var resp QueryResponse
	if err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreatePage(ctx context.Context, req *PageRequest) (*PageResponse, error) {
	var resp PageResponse
	if err := c.do(ctx, http.MethodPost, "/pages", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdatePage(ctx context.Context, pageID string, req *PageRequest) (*PageResponse, error) {
	var resp PageResponse
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
