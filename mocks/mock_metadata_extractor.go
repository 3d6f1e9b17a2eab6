package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"candix/internal/domain"
)

// MockMetadataExtractor is a mock implementation of port.MetadataExtractor.
type MockMetadataExtractor struct {
	mock.Mock
}

func (m *MockMetadataExtractor) ExtractResume(ctx context.Context, text string) *domain.ResumeMetadata {
	args := m.Called(ctx, text)
	return args.Get(0).(*domain.ResumeMetadata)
}

func (m *MockMetadataExtractor) ExtractJob(ctx context.Context, text string) *domain.JobMetadata {
	args := m.Called(ctx, text)
	return args.Get(0).(*domain.JobMetadata)
}
