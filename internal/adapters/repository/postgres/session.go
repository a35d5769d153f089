package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/domain"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

type sqlSessionRepository struct {
	db SQLQuerier
}

// NewSQLSessionRepository creates a new sqlSessionRepository
func NewSQLSessionRepository(db SQLQuerier) port.SessionRepository {
	return &sqlSessionRepository{db: db}
}

const sessionColumns = `id, name, size, source, storage_location, owner, operator, "lock", version, rubbish, created_at, updated_at`

// Create inserts an upload session. The store assigns id, version, lock and
// the timestamps; the persisted row is returned.
func (s *sqlSessionRepository) Create(ctx context.Context, session domain.UploadSession) (*domain.UploadSession, error) {
	query := `
		INSERT INTO upload_session (
			name, size, source, storage_location, owner, operator
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + sessionColumns

	row := s.db.QueryRowContext(
		ctx,
		query,
		session.Name,
		session.Size,
		session.Source,
		session.StorageLocation,
		session.Owner,
		session.Operator,
	)
	return scanSession(row)
}

func (s *sqlSessionRepository) FindByID(ctx context.Context, id int64) (*domain.UploadSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM upload_session
		WHERE id = $1`

	return scanSession(s.db.QueryRowContext(ctx, query, id))
}

// FindOldestAfter returns the session with the smallest id greater than
// cursor created strictly before the boundary.
func (s *sqlSessionRepository) FindOldestAfter(ctx context.Context, cursor int64, createdBefore time.Time) (*domain.UploadSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM upload_session
		WHERE id > $1 AND created_at < $2
		ORDER BY id ASC
		LIMIT 1`

	return scanSession(s.db.QueryRowContext(ctx, query, cursor, createdBefore))
}

// Update writes the mutable fields guarded by the session's version; the
// version column advances by one. Zero rows affected means the guard missed.
func (s *sqlSessionRepository) Update(ctx context.Context, session domain.UploadSession) (int64, error) {
	query := `
		UPDATE upload_session
		SET name = $1, size = $2, source = $3, storage_location = $4,
		    owner = $5, operator = $6, "lock" = $7, rubbish = $8,
		    version = version + 1, updated_at = now()
		WHERE id = $9 AND version = $10`

	result, err := s.db.ExecContext(
		ctx,
		query,
		session.Name,
		session.Size,
		session.Source,
		session.StorageLocation,
		session.Owner,
		session.Operator,
		session.Lock,
		session.Rubbish,
		session.ID,
		session.Version,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *sqlSessionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM upload_session WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type dbSession struct {
	ID              int64          `db:"id"`
	Name            string         `db:"name"`
	Size            int64          `db:"size"`
	Source          string         `db:"source"`
	StorageLocation string         `db:"storage_location"`
	Owner           sql.NullString `db:"owner"`
	Operator        sql.NullString `db:"operator"`
	Lock            int            `db:"lock"`
	Version         int64          `db:"version"`
	Rubbish         bool           `db:"rubbish"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// ToDomain converts db obj to domain
func (s *dbSession) ToDomain() *domain.UploadSession {
	return &domain.UploadSession{
		ID:              s.ID,
		Name:            s.Name,
		Size:            s.Size,
		Source:          domain.UploadSource(s.Source),
		StorageLocation: s.StorageLocation,
		Owner:           s.Owner.String,
		Operator:        s.Operator.String,
		Lock:            s.Lock,
		Version:         s.Version,
		Rubbish:         s.Rubbish,
		CreateTime:      s.CreatedAt,
		UpdateTime:      s.UpdatedAt,
	}
}

func scanSession(row *sql.Row) (*domain.UploadSession, error) {
	var r dbSession
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Size,
		&r.Source,
		&r.StorageLocation,
		&r.Owner,
		&r.Operator,
		&r.Lock,
		&r.Version,
		&r.Rubbish,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return r.ToDomain(), nil
}
