package worker_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pagesift/internal/chunk"
)

type MockLoader struct{ mock.Mock }

func (m *MockLoader) Load(path, sourceID string) (chunk.SourceDocument, error) {
	args := m.Called(path, sourceID)
	return args.Get(0).(chunk.SourceDocument), args.Error(1)
}

type MockIngestor struct{ mock.Mock }

func (m *MockIngestor) Ingest(ctx context.Context, docs []chunk.SourceDocument) ([]chunk.Chunk, error) {
	args := m.Called(ctx, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chunk.Chunk), args.Error(1)
}

type MockIndexStore struct{ mock.Mock }

func (m *MockIndexStore) Persist() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockIndexStore) DeleteBySource(sourceID string) (int, error) {
	args := m.Called(sourceID)
	return args.Int(0), args.Error(1)
}

type MockStatusUpdater struct{ mock.Mock }

func (m *MockStatusUpdater) UpdateStatus(ctx context.Context, id, status, errMsg string) error {
	args := m.Called(ctx, id, status, errMsg)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(topic string, body []byte) error {
	args := m.Called(topic, body)
	return args.Error(0)
}
