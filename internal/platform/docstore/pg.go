package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps documents as JSONB rows of the emr_documents table. The
// table is created by the db package migrations (emr-server store migrate).
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Read(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	err := s.pool.QueryRow(ctx, `SELECT body FROM emr_documents WHERE name = $1`, name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, &Error{Op: "read", Name: name, Err: err}
	}
	return body, nil
}

func (s *PGStore) Write(ctx context.Context, name string, data []byte) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO emr_documents (name, body, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		name, data)
	if err != nil {
		return &Error{Op: "write", Name: name, Err: err}
	}
	return nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &Error{Op: "ping", Name: "emr_documents", Err: err}
	}
	return nil
}
