package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"stylelens/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

//go:embed schema.sql
var schemaSQL string

// ErrRunNotFound is returned when feedback names an unknown run
var ErrRunNotFound = errors.New("run not found")

// foreignKeyViolation is the postgres error code for a missing referenced row
const foreignKeyViolation = "23503"

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewWithDB wraps an existing connection
func NewWithDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the tables and indexes when they are missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// LogRun stores one recommendation run
func (r *PostgresRepository) LogRun(ctx context.Context, run *model.RunLog) error {
	query := `
		INSERT INTO run_logs (
			run_id, utterance, polarity, verdict, analysis, terms, queries,
			result_count, rejected_count, fallback, response_time_ms, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.RunID,
		run.Utterance,
		string(run.Polarity),
		run.Verdict,
		run.Analysis,
		run.Terms,
		pq.Array(run.Queries),
		run.ResultCount,
		run.RejectedCount,
		run.Fallback,
		run.ResponseTimeMs,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log run: %w", err)
	}
	return nil
}

// GetRun loads a stored run
func (r *PostgresRepository) GetRun(ctx context.Context, runID string) (*model.RunLog, error) {
	var run model.RunLog
	query := `
		SELECT run_id, utterance, polarity, verdict, analysis, terms, queries,
			result_count, rejected_count, fallback, response_time_ms, created_at
		FROM run_logs
		WHERE run_id = $1
	`
	row := r.db.QueryRowxContext(ctx, query, runID)
	var queries pq.StringArray
	err := row.Scan(
		&run.RunID, &run.Utterance, &run.Polarity, &run.Verdict, &run.Analysis, &run.Terms, &queries,
		&run.ResultCount, &run.RejectedCount, &run.Fallback, &run.ResponseTimeMs, &run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Queries = queries
	return &run, nil
}

// LogFeedback records a shopper action on a product of a run
func (r *PostgresRepository) LogFeedback(ctx context.Context, runID, productLink, action string) error {
	query := `
		INSERT INTO run_feedback (run_id, product_link, action)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, runID, productLink, action)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}

// UpsertTermEmbeddings stores embeddings for product terms in one transaction
func (r *PostgresRepository) UpsertTermEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errs []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errs
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO term_embeddings (term, category, polarity, embedding, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (term, polarity)
		DO UPDATE SET category = EXCLUDED.category, embedding = EXCLUDED.embedding, updated_at = NOW()
	`)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errs
	}
	defer stmt.Close()

	for _, item := range items {
		term := strings.ToLower(strings.TrimSpace(item.Term))
		if term == "" || len(item.Embedding) == 0 {
			errs = append(errs, fmt.Sprintf("term %q: empty term or embedding", item.Term))
			continue
		}
		polarity := item.Polarity
		if !polarity.Valid() {
			polarity = model.PolarityUnisex
		}
		category := item.Category
		if category == "" {
			category = model.CategoryFashion
		}

		if _, err := stmt.ExecContext(ctx, term, string(category), string(polarity), pgvector.NewVector(item.Embedding)); err != nil {
			errs = append(errs, fmt.Sprintf("term %q: %v", item.Term, err))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errs = append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errs
	}

	return success, errs
}

// SimilarTerms returns stored terms ordered by cosine distance to embedding.
// An empty polarity matches every term; a gendered one also matches unisex terms.
func (r *PostgresRepository) SimilarTerms(ctx context.Context, embedding []float32, polarity model.Polarity, limit int) ([]model.SimilarTerm, error) {
	query := `
		SELECT term, category, polarity, embedding <=> $1 AS distance
		FROM term_embeddings
		WHERE ($2 = '' OR polarity = ANY($3))
		ORDER BY distance
		LIMIT $4
	`
	allowed := []string{string(polarity)}
	if polarity.Gendered() {
		allowed = append(allowed, string(model.PolarityUnisex))
	}

	var terms []model.SimilarTerm
	err := r.db.SelectContext(ctx, &terms, query, pgvector.NewVector(embedding), string(polarity), pq.Array(allowed), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar terms: %w", err)
	}
	return terms, nil
}
