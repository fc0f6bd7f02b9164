package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	apierrors "github.com/diogo/typechat/internal/errors"
	"github.com/diogo/typechat/internal/models"
)

// maxBodySize caps how much of a history response is read.
const maxBodySize = 32 << 20

// HistoryClientInterface is the part of the client the UI and commands use.
type HistoryClientInterface interface {
	FetchConversations(ctx context.Context) (models.History, error)
	Endpoint() string
}

var _ HistoryClientInterface = (*HistoryClient)(nil)

// HistoryClient fetches conversation history from a typechat server
type HistoryClient struct {
	httpClient tls_client.HttpClient
	baseURL    string
	timeout    time.Duration
	logger     *slog.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*HistoryClient)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client tls_client.HttpClient) ClientOption {
	return func(c *HistoryClient) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *HistoryClient) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for warnings about skipped messages
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *HistoryClient) {
		c.logger = logger
	}
}

// NewHistoryClient creates a client for the server at baseURL, e.g.
// "http://localhost:5000".
func NewHistoryClient(baseURL string, opts ...ClientOption) (*HistoryClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	client := &HistoryClient{
		baseURL: baseURL,
		timeout: 30 * time.Second,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}
		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the full URL of the conversations endpoint
func (c *HistoryClient) Endpoint() string {
	return c.baseURL + models.PathConversations
}

// FetchConversations issues one GET to the conversations endpoint and parses
// the result. There is no retry.
func (c *HistoryClient) FetchConversations(ctx context.Context) (models.History, error) {
	endpoint := c.Endpoint()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apierrors.NewNetworkError("create history request", endpoint, err)
	}
	for key, value := range DefaultHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError("fetch conversations", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierrors.NewAPIError(resp.StatusCode, endpoint,
			fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, apierrors.NewNetworkError("read conversations", endpoint, err)
	}

	history, err := ParseHistory(body, c.logger)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched conversations", "endpoint", endpoint, "count", len(history))
	return history, nil
}

// DefaultHeaders returns the headers sent with every request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":     "application/json",
		"User-Agent": "typechat/1.0",
	}
}
