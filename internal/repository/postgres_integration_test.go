//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"stylelens/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *PostgresRepository {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"pgvector/pgvector:pg17",
		postgres.WithDatabase("stylelens_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/stylelens_test?sslmode=disable", host, port.Port())
	repo, err := NewPostgresRepository(dsn, 5, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "schema is idempotent")
	return repo
}

func TestPostgresRepository(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	run := &model.RunLog{
		RunID:          uuid.NewString(),
		Utterance:      "formal shirts for men",
		Polarity:       model.PolarityMale,
		Verdict:        model.JSONMap{"polarity": "male"},
		Terms:          model.JSONArray{"Men's formal shirts"},
		Queries:        []string{"men formal shirts", "formal shirts buy online"},
		ResultCount:    3,
		RejectedCount:  1,
		ResponseTimeMs: 420,
		CreatedAt:      time.Now().UTC().Truncate(time.Millisecond),
	}

	t.Run("run log", func(t *testing.T) {
		require.NoError(t, repo.LogRun(ctx, run))

		got, err := repo.GetRun(ctx, run.RunID)
		require.NoError(t, err)
		assert.Equal(t, run.Utterance, got.Utterance)
		assert.Equal(t, model.PolarityMale, got.Polarity)
		assert.Equal(t, run.Terms, got.Terms)
		assert.Equal(t, run.Queries, got.Queries)
		assert.Equal(t, "male", got.Verdict["polarity"])
		assert.Nil(t, got.Analysis)

		_, err = repo.GetRun(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrRunNotFound)
	})

	t.Run("feedback", func(t *testing.T) {
		require.NoError(t, repo.LogFeedback(ctx, run.RunID, "https://www.myntra.com/1", "click"))

		err := repo.LogFeedback(ctx, uuid.NewString(), "https://www.myntra.com/1", "click")
		assert.ErrorIs(t, err, ErrRunNotFound)
	})

	t.Run("term embeddings", func(t *testing.T) {
		success, errs := repo.UpsertTermEmbeddings(ctx, []model.EmbeddingItem{
			{Term: "Linen Shirt", Category: model.CategoryWesternWear, Polarity: model.PolarityMale, Embedding: []float32{1, 0, 0}},
			{Term: "silk saree", Category: model.CategoryEthnicWear, Polarity: model.PolarityFemale, Embedding: []float32{0, 1, 0}},
			{Term: "sneakers", Category: model.CategoryFootwear, Embedding: []float32{0.9, 0.1, 0}},
			{Term: "", Embedding: []float32{1, 1, 1}},
		})
		assert.Equal(t, 3, success)
		require.Len(t, errs, 1)

		// upsert replaces the vector
		success, errs = repo.UpsertTermEmbeddings(ctx, []model.EmbeddingItem{
			{Term: "linen shirt", Polarity: model.PolarityMale, Embedding: []float32{0.95, 0.05, 0}},
		})
		assert.Equal(t, 1, success)
		assert.Empty(t, errs)

		male, err := repo.SimilarTerms(ctx, []float32{1, 0, 0}, model.PolarityMale, 10)
		require.NoError(t, err)
		require.Len(t, male, 2)
		assert.Equal(t, "linen shirt", male[0].Term)
		assert.Equal(t, model.CategoryFashion, male[0].Category)
		assert.Equal(t, "sneakers", male[1].Term)

		all, err := repo.SimilarTerms(ctx, []float32{0, 1, 0}, "", 1)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "silk saree", all[0].Term)
		assert.InDelta(t, 0, all[0].Distance, 0.0001)
	})
}
