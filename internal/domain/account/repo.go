package account

import (
	"context"
	"encoding/json"

	"github.com/synapse/emr/internal/platform/docstore"
)

// Repository loads the credential map. The map is read-only here: there is
// no signup or password change.
type Repository interface {
	LoadUsers(ctx context.Context) (Users, error)
}

// DocumentStore reads the credential map from a single JSON object document.
type DocumentStore struct {
	store docstore.Store
	name  string
}

func NewDocumentStore(store docstore.Store, name string) *DocumentStore {
	return &DocumentStore{store: store, name: name}
}

func (s *DocumentStore) LoadUsers(ctx context.Context) (Users, error) {
	data, err := s.store.Read(ctx, s.name)
	if err != nil {
		return nil, err
	}
	var users Users
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, &docstore.Error{Op: "decode", Name: s.name, Err: err}
	}
	if users == nil {
		users = Users{}
	}
	return users, nil
}
