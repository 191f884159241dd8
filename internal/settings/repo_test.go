package settings_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"pagesift/internal/settings"
)

func TestPostgresRepo_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := settings.NewPostgresRepo(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "gemini_api_key", "embed_provider", "rerank_weight", "rerank_multiplier", "search_top_k"}).
			AddRow(1, "key1", "gemini", 0.3, 3, 5)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, gemini_api_key, embed_provider, rerank_weight, rerank_multiplier, search_top_k FROM settings WHERE id = 1")).
			WillReturnRows(rows)

		s, err := repo.Get(context.Background())
		assert.NoError(t, err)
		assert.NotNil(t, s)
		assert.Equal(t, "gemini", s.EmbedProvider)
		assert.Equal(t, 0.3, s.RerankWeight)
		assert.Equal(t, 3, s.RerankMultiplier)
		assert.Equal(t, 5, s.SearchTopK)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id")).
			WillReturnError(sqlmock.ErrCancelled)

		s, err := repo.Get(context.Background())
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestPostgresRepo_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := settings.NewPostgresRepo(db)

	t.Run("Success", func(t *testing.T) {
		s := &settings.Settings{
			GeminiAPIKey:     "k1",
			EmbedProvider:    "ollama",
			RerankWeight:     0.4,
			RerankMultiplier: 4,
			SearchTopK:       10,
		}

		mock.ExpectExec(regexp.QuoteMeta("UPDATE settings")).
			WithArgs(s.GeminiAPIKey, s.EmbedProvider, s.RerankWeight, s.RerankMultiplier, s.SearchTopK).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Update(context.Background(), s)
		assert.NoError(t, err)
	})
}
