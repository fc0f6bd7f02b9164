package api

import (
	"context"
	"errors"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/typechat/internal/errors"
	"github.com/diogo/typechat/internal/models"
)

// TestNewHistoryClient tests the NewHistoryClient function
func TestNewHistoryClient(t *testing.T) {
	tests := []struct {
		name         string
		baseURL      string
		wantErr      bool
		wantEndpoint string
	}{
		{
			name:         "plain base URL",
			baseURL:      "http://localhost:5000",
			wantEndpoint: "http://localhost:5000/api/conversations",
		},
		{
			name:         "trailing slash is trimmed",
			baseURL:      "http://example.com/ ",
			wantEndpoint: "http://example.com/api/conversations",
		},
		{
			name:    "empty base URL",
			baseURL: "  ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewHistoryClient(tt.baseURL, WithHTTPClient(&MockHttpClient{}))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewHistoryClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := client.Endpoint(); got != tt.wantEndpoint {
				t.Errorf("Endpoint() = %q, want %q", got, tt.wantEndpoint)
			}
		})
	}
}

func TestNewHistoryClient_DefaultTransport(t *testing.T) {
	client, err := NewHistoryClient("http://localhost:5000", WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewHistoryClient() error = %v", err)
	}
	if client.httpClient == nil {
		t.Fatal("expected a default HTTP client")
	}
	if client.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", client.timeout)
	}
}

// TestFetchConversations tests FetchConversations against canned responses
func TestFetchConversations(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		status     int
		wantErr    bool
		wantStatus int
		wantParse  bool
		wantCount  int
	}{
		{
			name: "two conversations",
			body: `{"conversations":[
				[{"role":"user","content":"hello"},{"role":"system","content":"Hi!","categories":["Greeting"]}],
				[{"role":"user","content":"bye"}]
			]}`,
			status:    200,
			wantCount: 2,
		},
		{
			name:      "empty list",
			body:      `{"conversations":[]}`,
			status:    200,
			wantCount: 0,
		},
		{
			name:      "missing key",
			body:      `{}`,
			status:    200,
			wantCount: 0,
		},
		{
			name:       "server error",
			body:       `{"error":"boom"}`,
			status:     500,
			wantErr:    true,
			wantStatus: 500,
		},
		{
			name:       "not found",
			body:       ``,
			status:     404,
			wantErr:    true,
			wantStatus: 404,
		},
		{
			name:      "malformed JSON",
			body:      `{"conversations": [`,
			status:    200,
			wantErr:   true,
			wantParse: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockHttpClient([]byte(tt.body), tt.status)
			client, err := NewHistoryClient("http://localhost:5000", WithHTTPClient(mock))
			if err != nil {
				t.Fatalf("NewHistoryClient() error = %v", err)
			}

			history, err := client.FetchConversations(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("FetchConversations() error = %v, wantErr %v", err, tt.wantErr)
			}

			if len(mock.Requests) != 1 {
				t.Fatalf("expected exactly one request, got %d", len(mock.Requests))
			}
			req := mock.Requests[0]
			if req.Method != fhttp.MethodGet {
				t.Errorf("Method = %s, want GET", req.Method)
			}
			if req.URL.Path != models.PathConversations {
				t.Errorf("Path = %s, want %s", req.URL.Path, models.PathConversations)
			}
			if req.Header.Get("Accept") != "application/json" {
				t.Errorf("Accept = %q", req.Header.Get("Accept"))
			}
			if body, ok := mock.Response.Body.(*MockResponseBody); ok && !body.closed {
				t.Error("response body was not closed")
			}

			if tt.wantErr {
				if tt.wantStatus != 0 {
					if got := apierrors.GetHTTPStatus(err); got != tt.wantStatus {
						t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.wantStatus)
					}
					if got := apierrors.GetEndpoint(err); got != client.Endpoint() {
						t.Errorf("GetEndpoint() = %q, want %q", got, client.Endpoint())
					}
				}
				if tt.wantParse && !errors.Is(err, apierrors.ErrInvalidResponse) {
					t.Errorf("expected ErrInvalidResponse, got %v", err)
				}
				return
			}
			if history.Len() != tt.wantCount {
				t.Errorf("got %d conversations, want %d", history.Len(), tt.wantCount)
			}
		})
	}
}

func TestFetchConversations_NetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	mock := NewMockHttpClientWithError(cause)
	client, _ := NewHistoryClient("http://localhost:5000", WithHTTPClient(mock))

	_, err := client.FetchConversations(context.Background())
	if !apierrors.IsNetworkError(err) {
		t.Fatalf("expected NetworkError, got %T: %v", err, err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("NetworkError does not unwrap to the cause")
	}
}

func TestFetchConversations_ReadError(t *testing.T) {
	readErr := errors.New("connection reset")
	mock := &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: 200,
			Body:       failingBody{err: readErr},
			Header:     make(fhttp.Header),
		},
	}
	client, _ := NewHistoryClient("http://localhost:5000", WithHTTPClient(mock))

	_, err := client.FetchConversations(context.Background())
	if !apierrors.IsNetworkError(err) || !errors.Is(err, readErr) {
		t.Errorf("expected NetworkError wrapping the read error, got %v", err)
	}
}

func TestFetchConversations_ContentRoundTrip(t *testing.T) {
	body := `{"conversations":[[{"role":"user","content":"hello"},{"role":"system","content":"Hello! How can I assist you today?","categories":["Greeting","Introduction"]}]]}`
	client, _ := NewHistoryClient("http://localhost:5000", WithHTTPClient(NewMockHttpClient([]byte(body), 200)))

	history, err := client.FetchConversations(context.Background())
	if err != nil {
		t.Fatalf("FetchConversations() error = %v", err)
	}
	reply, ok := history[0].LastSystem()
	if !ok {
		t.Fatal("no system message")
	}
	if reply.Content != "Hello! How can I assist you today?" {
		t.Errorf("Content = %q", reply.Content)
	}
	if len(reply.Categories) != 2 || reply.Categories[1] != "Introduction" {
		t.Errorf("Categories = %v", reply.Categories)
	}
}
