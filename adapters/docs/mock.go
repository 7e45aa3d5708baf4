package docs

import "context"

// MockRetriever returns a fixed document list for tests.
type MockRetriever struct {
	Documents []string
	Err       error
	Queries   []string
}

func (m *MockRetriever) Search(ctx context.Context, query string, k int) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Queries = append(m.Queries, query)
	if k > 0 && len(m.Documents) > k {
		return m.Documents[:k], nil
	}
	return m.Documents, nil
}
