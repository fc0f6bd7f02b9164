package api

import (
	"context"

	"github.com/diogo/typechat/internal/models"
)

// MockHistoryClient is a mock implementation of HistoryClientInterface for testing
type MockHistoryClient struct {
	History     models.History
	Err         error
	EndpointVal string

	// Call recorders
	FetchCalls int
}

var _ HistoryClientInterface = (*MockHistoryClient)(nil)

func (m *MockHistoryClient) FetchConversations(ctx context.Context) (models.History, error) {
	m.FetchCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.History, m.Err
}

func (m *MockHistoryClient) Endpoint() string {
	if m.EndpointVal == "" {
		return "http://localhost:5000" + models.PathConversations
	}
	return m.EndpointVal
}
