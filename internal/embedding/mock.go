package embedding

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/riverlabs/nexus/internal/domain"
)

// MockClient produces deterministic vectors derived from the input text, so
// tests get stable, distinct embeddings without a model server.
type MockClient struct {
	Dim int
	Err error

	mu    sync.Mutex
	Calls []string
}

var _ domain.EmbeddingClient = (*MockClient)(nil)

func (m *MockClient) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	dim := m.Dim
	if dim <= 0 {
		dim = 8
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, dim)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(seed%1000)/1000.0 - 0.5
	}
	return vec, nil
}

func (m *MockClient) Dimension() int {
	if m.Dim <= 0 {
		return 8
	}
	return m.Dim
}
