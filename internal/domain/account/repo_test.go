package account

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/synapse/emr/internal/platform/docstore"
)

func newMemStore(t *testing.T, files map[string]string) docstore.Store {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		if err := afero.WriteFile(fs, "/data/"+name, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return docstore.NewFileStore(fs, "/data")
}

func TestDocumentStore_LoadUsers(t *testing.T) {
	store := newMemStore(t, map[string]string{
		"users.json": `{"dr.rao": {"password": "s3cret", "role": "doctor"}}`,
	})

	users, err := NewDocumentStore(store, "users.json").LoadUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users["dr.rao"].Password != "s3cret" {
		t.Errorf("unexpected users %+v", users)
	}
}

func TestDocumentStore_LoadUsers_Missing(t *testing.T) {
	store := newMemStore(t, nil)

	_, err := NewDocumentStore(store, "users.json").LoadUsers(context.Background())
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("expected docstore.ErrNotFound, got %v", err)
	}
}

func TestDocumentStore_LoadUsers_Malformed(t *testing.T) {
	store := newMemStore(t, map[string]string{"users.json": `["not", "a", "map"]`})

	_, err := NewDocumentStore(store, "users.json").LoadUsers(context.Background())
	var se *docstore.Error
	if !errors.As(err, &se) || se.Op != "decode" {
		t.Errorf("expected decode store error, got %v", err)
	}
}

func TestDocumentStore_LoadUsers_Null(t *testing.T) {
	store := newMemStore(t, map[string]string{"users.json": `null`})

	users, err := NewDocumentStore(store, "users.json").LoadUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("expected empty map, got %v", users)
	}
}
