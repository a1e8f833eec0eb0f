package patient

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/synapse/emr/internal/platform/docstore"
)

// DocumentRepository keeps the patient collection as one JSON array document.
type DocumentRepository struct {
	store docstore.Store
	name  string
}

func NewDocumentRepository(store docstore.Store, name string) *DocumentRepository {
	return &DocumentRepository{store: store, name: name}
}

func (r *DocumentRepository) LoadPatients(ctx context.Context) ([]Patient, error) {
	data, err := r.store.Read(ctx, r.name)
	if err != nil {
		return nil, err
	}
	var patients []Patient
	if err := json.Unmarshal(data, &patients); err != nil {
		return nil, &docstore.Error{Op: "decode", Name: r.name, Err: err}
	}
	for i := range patients {
		patients[i].normalize()
	}
	return patients, nil
}

func (r *DocumentRepository) SavePatients(ctx context.Context, patients []Patient) error {
	if patients == nil {
		patients = []Patient{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(patients); err != nil {
		return &docstore.Error{Op: "encode", Name: r.name, Err: err}
	}
	return r.store.Write(ctx, r.name, bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
