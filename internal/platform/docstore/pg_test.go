package docstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPGStore_WriteRead(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS emr_documents (
    name TEXT PRIMARY KEY,
    body JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	defer pool.Exec(ctx, `DELETE FROM emr_documents WHERE name = 'pgstore-test'`)

	s := NewPGStore(pool)
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := s.Read(ctx, "pgstore-test"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Write(ctx, "pgstore-test", []byte(`[1,2,3]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Write(ctx, "pgstore-test", []byte(`[4]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Read(ctx, "pgstore-test")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `[4]` {
		t.Errorf("expected [4], got %s", got)
	}
}
