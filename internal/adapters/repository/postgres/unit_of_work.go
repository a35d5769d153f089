package postgres

import (
	"context"
	"database/sql"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) SessionRepo() port.SessionRepository {
	if u.tx != nil {
		return NewSQLSessionRepository(u.tx)
	}
	return NewSQLSessionRepository(u.db)
}

func (u *sqlUnitOfWork) ChunkRepo() port.ChunkRepository {
	if u.tx != nil {
		return NewSQLChunkRepository(u.tx)
	}
	return NewSQLChunkRepository(u.db)
}

func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	uowWithTx := &sqlUnitOfWork{db: u.db, tx: tx}

	if err := fn(uowWithTx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
