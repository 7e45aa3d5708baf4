package postgres

import (
	"context"
	"sync"

	apperrors "claimsql/internal/errors"
	"claimsql/models"
)

// MockSessionRepository is an in-memory SessionRepository for tests.
type MockSessionRepository struct {
	mu       sync.Mutex
	Sessions map[string]*models.SessionRecord
	Err      error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{Sessions: make(map[string]*models.SessionRecord)}
}

func (m *MockSessionRepository) UpsertSession(ctx context.Context, record *models.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	copied := *record
	m.Sessions[record.TicketID] = &copied
	return nil
}

func (m *MockSessionRepository) GetSession(ctx context.Context, ticketID string) (*models.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	record, ok := m.Sessions[ticketID]
	if !ok {
		return nil, apperrors.NotFound("session not found")
	}
	copied := *record
	return &copied, nil
}

// MockUsageRepository is an in-memory UsageRepository for tests.
type MockUsageRepository struct {
	mu      sync.Mutex
	Records map[string]*models.UsageRecord
	Err     error
}

func NewMockUsageRepository() *MockUsageRepository {
	return &MockUsageRepository{Records: make(map[string]*models.UsageRecord)}
}

func (m *MockUsageRepository) AddUsage(ctx context.Context, entityType, date string, inputTokens, outputTokens int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	key := entityType + "|" + date
	record, ok := m.Records[key]
	if !ok {
		record = &models.UsageRecord{EntityType: entityType, CreatedDate: date}
		m.Records[key] = record
	}
	record.APICount++
	record.InputTokenCount += inputTokens
	record.OutputTokenCount += outputTokens
	record.TotalTokenCount += inputTokens + outputTokens
	return nil
}

func (m *MockUsageRepository) GetUsage(ctx context.Context, entityType, date string) (*models.UsageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	record, ok := m.Records[entityType+"|"+date]
	if !ok {
		return nil, apperrors.NotFound("usage record not found")
	}
	copied := *record
	return &copied, nil
}
