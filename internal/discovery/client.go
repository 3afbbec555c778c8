package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/domain"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
)

const maxResponseSize = 4 << 20

type directoriesRequest struct {
	ParentPath string `json:"parentPath"`
}

type directoriesResponse struct {
	Success     bool              `json:"success"`
	Directories []directoryRecord `json:"directories"`
}

type directoryRecord struct {
	DirectoryName string `json:"directoryName"`
}

// Client lists the top-level folders of a bewCloud account.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	alerter    domain.Alerter
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAlerter sets where ListRemoteDirectories reports failures.
func WithAlerter(alerter domain.Alerter) Option {
	return func(c *Client) {
		c.alerter = alerter
	}
}

func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Transport: NewLoggingTransport(nil)},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Discover requests the folders under "/" and reports why it failed. Errors
// wrap ErrInvalidURL, ErrUnauthorized, ErrNetwork or ErrProtocol.
func (c *Client) Discover(ctx context.Context, baseURL, username, password string) ([]domain.Directory, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	body, err := json.Marshal(directoriesRequest{ParentPath: "/"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, directoriesURL(baseURL), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.SetBasicAuth(username, password)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}
	if len(data) > maxResponseSize {
		return nil, fmt.Errorf("%w: response larger than %d bytes", ErrProtocol, maxResponseSize)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrProtocol, resp.Status)
	}

	var result directoriesResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: success=false", ErrProtocol)
	}

	directories := make([]domain.Directory, 0, len(result.Directories))
	for _, record := range result.Directories {
		directories = append(directories, domain.Directory{Name: record.DirectoryName})
	}

	logger.Log("Discovered %d remote directories at %s", len(directories), NormalizeBaseURL(baseURL))
	return directories, nil
}

// ListRemoteDirectories is Discover with every failure collapsed into one
// alert and an empty result.
func (c *Client) ListRemoteDirectories(ctx context.Context, baseURL, username, password string) []domain.Directory {
	directories, err := c.Discover(ctx, baseURL, username, password)
	if err != nil {
		logger.LogError("DISCOVER", fmt.Sprintf("%s (%s)", NormalizeBaseURL(baseURL), Kind(err)), err)
		if c.alerter != nil {
			c.alerter.Alert(FailureMessage)
		}
		return []domain.Directory{}
	}
	return directories
}
