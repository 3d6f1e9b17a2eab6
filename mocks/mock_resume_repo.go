package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"candix/internal/domain"
)

// MockResumeRepo is a mock implementation of port.ResumeRepository.
type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) Create(ctx context.Context, rec *domain.ResumeRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockResumeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ResumeStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockResumeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ResumeRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResumeRecord), args.Error(1)
}

func (m *MockResumeRepo) ListByJob(ctx context.Context, jobID string, offset, limit int) ([]domain.ResumeRecord, int, error) {
	args := m.Called(ctx, jobID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ResumeRecord), args.Int(1), args.Error(2)
}
