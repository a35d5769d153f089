package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

type sqlChunkRepository struct {
	db SQLQuerier
}

// NewSQLChunkRepository creates a new sqlChunkRepository
func NewSQLChunkRepository(db SQLQuerier) port.ChunkRepository {
	return &sqlChunkRepository{db: db}
}

const chunkColumns = `id, session_id, name, size, operator, created_at`

// Create inserts a chunk row and returns it with the store-assigned id
func (s *sqlChunkRepository) Create(ctx context.Context, chunk domain.UploadChunk) (*domain.UploadChunk, error) {
	query := `
		INSERT INTO upload_chunk (session_id, name, size, operator)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + chunkColumns

	return scanChunk(s.db.QueryRowContext(ctx, query, chunk.SessionID, chunk.Name, chunk.Size, chunk.Operator))
}

func (s *sqlChunkRepository) FindBySessionID(ctx context.Context, sessionID int64) ([]domain.UploadChunk, error) {
	query := `
		SELECT ` + chunkColumns + `
		FROM upload_chunk
		WHERE session_id = $1
		ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []domain.UploadChunk
	for rows.Next() {
		var r dbChunk
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Name, &r.Size, &r.Operator, &r.CreatedAt); err != nil {
			return nil, err
		}
		chunks = append(chunks, *r.ToDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}

// FindOldestAfter returns the chunk with the smallest id greater than cursor
// created strictly before the boundary.
func (s *sqlChunkRepository) FindOldestAfter(ctx context.Context, cursor int64, createdBefore time.Time) (*domain.UploadChunk, error) {
	query := `
		SELECT ` + chunkColumns + `
		FROM upload_chunk
		WHERE id > $1 AND created_at < $2
		ORDER BY id ASC
		LIMIT 1`

	return scanChunk(s.db.QueryRowContext(ctx, query, cursor, createdBefore))
}

func (s *sqlChunkRepository) DeleteBySessionID(ctx context.Context, sessionID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM upload_chunk WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type dbChunk struct {
	ID        int64          `db:"id"`
	SessionID int64          `db:"session_id"`
	Name      string         `db:"name"`
	Size      int64          `db:"size"`
	Operator  sql.NullString `db:"operator"`
	CreatedAt time.Time      `db:"created_at"`
}

// ToDomain converts db obj to domain
func (c *dbChunk) ToDomain() *domain.UploadChunk {
	return &domain.UploadChunk{
		ID:         c.ID,
		SessionID:  c.SessionID,
		Name:       c.Name,
		Size:       c.Size,
		Operator:   c.Operator.String,
		CreateTime: c.CreatedAt,
	}
}

func scanChunk(row *sql.Row) (*domain.UploadChunk, error) {
	var r dbChunk
	err := row.Scan(&r.ID, &r.SessionID, &r.Name, &r.Size, &r.Operator, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChunkNotFound
		}
		return nil, err
	}
	return r.ToDomain(), nil
}
