package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"candix/internal/domain"
)

// MockSearchIndex is a mock implementation of port.SearchIndex.
type MockSearchIndex struct {
	mock.Mock
}

func (m *MockSearchIndex) IndexResume(ctx context.Context, doc *domain.ResumeDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockSearchIndex) IndexJob(ctx context.Context, doc *domain.JobDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockSearchIndex) GetJob(ctx context.Context, jobID string) (*domain.JobDocument, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobDocument), args.Error(1)
}

func (m *MockSearchIndex) ResumesForJob(ctx context.Context, jobID string, limit int) ([]domain.ResumeDocument, error) {
	args := m.Called(ctx, jobID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResumeDocument), args.Error(1)
}
