package api

import (
	"io"
	"net/url"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data   []byte
	pos    int
	closed bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data}
}

func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// failingBody returns an error on the first read
type failingBody struct{ err error }

func (b failingBody) Read([]byte) (int, error) { return 0, b.err }
func (b failingBody) Close() error             { return nil }

// MockHttpClient is a mock implementation of tls_client.HttpClient that
// records the requests it receives.
type MockHttpClient struct {
	Response *fhttp.Response
	Err      error

	Requests []*fhttp.Request
}

func (m *MockHttpClient) GetCookies(u *url.URL) []*fhttp.Cookie { return nil }

func (m *MockHttpClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}

func (m *MockHttpClient) SetCookieJar(jar fhttp.CookieJar) {}

func (m *MockHttpClient) GetCookieJar() fhttp.CookieJar { return nil }

func (m *MockHttpClient) SetProxy(proxyUrl string) error { return nil }

func (m *MockHttpClient) GetProxy() string { return "" }

func (m *MockHttpClient) SetFollowRedirect(followRedirect bool) {}

func (m *MockHttpClient) GetFollowRedirect() bool { return false }

func (m *MockHttpClient) CloseIdleConnections() {}

func (m *MockHttpClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }

func (m *MockHttpClient) Get(url string) (*fhttp.Response, error) { return m.Response, m.Err }

func (m *MockHttpClient) Head(url string) (*fhttp.Response, error) { return m.Response, m.Err }

func (m *MockHttpClient) Post(url, contentType string, body io.Reader) (*fhttp.Response, error) {
	return m.Response, m.Err
}

// Do records req and returns the canned response
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.Requests = append(m.Requests, req)
	return m.Response, m.Err
}

// NewMockHttpClient creates a new MockHttpClient with a canned response
func NewMockHttpClient(body []byte, statusCode int) *MockHttpClient {
	return &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       NewMockResponseBody(body),
			Header:     make(fhttp.Header),
		},
	}
}

// NewMockHttpClientWithError creates a new MockHttpClient that returns an error
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{Err: err}
}
