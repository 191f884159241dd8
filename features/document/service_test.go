package document_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pagesift/features/document"
	"pagesift/internal/chunk"
	"pagesift/internal/config"
	"pagesift/internal/worker"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) Save(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	doc.ID = "generated-id"
	return args.Error(0)
}

func (m *MockRepo) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	args := m.Called(ctx, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockRepo) List(ctx context.Context) ([]document.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockRepo) UpdateStatus(ctx context.Context, id, status, errMsg string) error {
	args := m.Called(ctx, id, status, errMsg)
	return args.Error(0)
}

func (m *MockRepo) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(topic string, body []byte) error {
	args := m.Called(topic, body)
	return args.Error(0)
}

type MockChunkStore struct{ mock.Mock }

func (m *MockChunkStore) ChunksBySource(sourceID string) []chunk.Chunk {
	args := m.Called(sourceID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]chunk.Chunk)
}

func (m *MockChunkStore) CountBySource(sourceID string) int {
	args := m.Called(sourceID)
	return args.Int(0)
}

func (m *MockChunkStore) DeleteBySource(sourceID string) (int, error) {
	args := m.Called(sourceID)
	return args.Int(0), args.Error(1)
}

func TestService_Upload(t *testing.T) {
	t.Run("Success Publishes Ingest Task", func(t *testing.T) {
		repo := new(MockRepo)
		pub := new(MockPublisher)
		store := new(MockChunkStore)

		repo.On("ExistsByHash", mock.Anything, "hash1").Return(false, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		pub.On("Publish", config.TopicIngestTask, mock.MatchedBy(func(body []byte) bool {
			var task worker.IngestTask
			if err := json.Unmarshal(body, &task); err != nil {
				return false
			}
			return task.SourceID == "report.pdf" && task.Path == "/uploads/x_report.pdf" && !task.Resync
		})).Return(nil)

		svc := document.NewService(repo, pub, store)
		doc, err := svc.Upload(context.Background(), "/uploads/x_report.pdf", "hash1", "Q3 Report", "report.pdf")

		assert.NoError(t, err)
		assert.Equal(t, "generated-id", doc.ID)
		assert.Equal(t, worker.StatusInProgress, doc.Status)
		pub.AssertExpectations(t)
	})

	t.Run("Duplicate Rejected", func(t *testing.T) {
		repo := new(MockRepo)
		pub := new(MockPublisher)

		repo.On("ExistsByHash", mock.Anything, "hash1").Return(true, nil)

		svc := document.NewService(repo, pub, new(MockChunkStore))
		_, err := svc.Upload(context.Background(), "/uploads/x.pdf", "hash1", "Dup", "x.pdf")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Duplicate")
		repo.AssertNotCalled(t, "Save")
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("Publish Failure Does Not Fail Upload", func(t *testing.T) {
		repo := new(MockRepo)
		pub := new(MockPublisher)

		repo.On("ExistsByHash", mock.Anything, mock.Anything).Return(false, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		pub.On("Publish", mock.Anything, mock.Anything).Return(assert.AnError)

		svc := document.NewService(repo, pub, new(MockChunkStore))
		doc, err := svc.Upload(context.Background(), "/uploads/x.pdf", "h", "Doc", "x.pdf")

		// The row exists; the task can be re-queued via reingest.
		assert.NoError(t, err)
		assert.NotNil(t, doc)
	})
}

func TestService_Get(t *testing.T) {
	repo := new(MockRepo)
	store := new(MockChunkStore)

	repo.On("Get", mock.Anything, "id-1").Return(&document.Document{
		ID:       "id-1",
		Filename: "report.pdf",
		Status:   worker.StatusCompleted,
	}, nil)
	store.On("CountBySource", "report.pdf").Return(2)
	store.On("ChunksBySource", "report.pdf").Return([]chunk.Chunk{
		{ID: "report.pdf:p1:1"},
		{ID: "report.pdf:p1:table1"},
	})

	svc := document.NewService(repo, new(MockPublisher), store)
	detail, err := svc.Get(context.Background(), "id-1", true)

	assert.NoError(t, err)
	assert.Equal(t, 2, detail.TotalChunks)
	assert.Len(t, detail.Chunks, 2)
}

func TestService_Get_ExcludeChunks(t *testing.T) {
	repo := new(MockRepo)
	store := new(MockChunkStore)

	repo.On("Get", mock.Anything, "id-1").Return(&document.Document{
		ID:       "id-1",
		Filename: "report.pdf",
	}, nil)
	store.On("CountBySource", "report.pdf").Return(5)

	svc := document.NewService(repo, new(MockPublisher), store)
	detail, err := svc.Get(context.Background(), "id-1", false)

	assert.NoError(t, err)
	assert.Equal(t, 5, detail.TotalChunks)
	assert.Empty(t, detail.Chunks)
	store.AssertNotCalled(t, "ChunksBySource", mock.Anything)
}

func TestService_Delete(t *testing.T) {
	t.Run("Cleans Index Then Soft Deletes", func(t *testing.T) {
		repo := new(MockRepo)
		store := new(MockChunkStore)

		repo.On("Get", mock.Anything, "id-1").Return(&document.Document{
			ID:       "id-1",
			Filename: "report.pdf",
		}, nil)
		store.On("DeleteBySource", "report.pdf").Return(3, nil)
		repo.On("SoftDelete", mock.Anything, "id-1").Return(nil)

		svc := document.NewService(repo, new(MockPublisher), store)
		assert.NoError(t, svc.Delete(context.Background(), "id-1"))
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("Index Failure Keeps Document", func(t *testing.T) {
		repo := new(MockRepo)
		store := new(MockChunkStore)

		repo.On("Get", mock.Anything, "id-1").Return(&document.Document{
			ID:       "id-1",
			Filename: "report.pdf",
		}, nil)
		store.On("DeleteBySource", "report.pdf").Return(0, assert.AnError)

		svc := document.NewService(repo, new(MockPublisher), store)
		assert.Error(t, svc.Delete(context.Background(), "id-1"))
		repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})
}

func TestService_Reingest(t *testing.T) {
	repo := new(MockRepo)
	pub := new(MockPublisher)

	repo.On("Get", mock.Anything, "id-1").Return(&document.Document{
		ID:       "id-1",
		Filename: "report.pdf",
		Path:     "/uploads/x_report.pdf",
		Status:   worker.StatusFailed,
	}, nil)
	repo.On("UpdateStatus", mock.Anything, "id-1", worker.StatusInProgress, "").Return(nil)
	pub.On("Publish", config.TopicIngestTask, mock.MatchedBy(func(body []byte) bool {
		var task worker.IngestTask
		return json.Unmarshal(body, &task) == nil && task.Resync
	})).Return(nil)

	svc := document.NewService(repo, pub, new(MockChunkStore))
	assert.NoError(t, svc.Reingest(context.Background(), "id-1"))
	pub.AssertExpectations(t)
}
