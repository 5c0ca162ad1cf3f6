package llm

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
	Delay   time.Duration
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	healthErr error
	checks    int
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty. A response with Delay waits for it or for ctx.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{Provider: ProviderMock}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Delay > 0 {
		m.mu.Unlock()
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			m.mu.Lock()
			return nil, &ErrProviderUnavailable{Provider: ProviderMock, Err: ctx.Err()}
		}
		m.mu.Lock()
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: StopEnd,
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// HealthCheck returns the error set with SetHealth, or nil.
func (m *MockProvider) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks++
	if err := ctx.Err(); err != nil {
		return &ErrProviderUnavailable{Provider: ProviderMock, Err: err}
	}
	return m.healthErr
}

// SetHealth makes subsequent health checks return err.
func (m *MockProvider) SetHealth(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthErr = err
}

// HealthCheckCount returns the number of HealthCheck calls made.
func (m *MockProvider) HealthCheckCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checks
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
