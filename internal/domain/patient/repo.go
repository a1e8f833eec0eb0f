package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no patient has the requested id.
var ErrNotFound = errors.New("patient not found")

// Repository loads and saves the complete patient collection. There is no
// locking between a load and the following save: concurrent writers race and
// the last save wins.
type Repository interface {
	LoadPatients(ctx context.Context) ([]Patient, error)
	SavePatients(ctx context.Context, patients []Patient) error
}

// FindByID returns the first patient in collection order with the given id.
// The returned pointer aliases the slice element.
func FindByID(patients []Patient, id string) (*Patient, error) {
	for i := range patients {
		if patients[i].ID == id {
			return &patients[i], nil
		}
	}
	return nil, ErrNotFound
}

// Append adds p at the end of the collection.
func Append(patients []Patient, p Patient) []Patient {
	return append(patients, p)
}

// Replace swaps the first patient whose id matches for p.
func Replace(patients []Patient, id string, p Patient) ([]Patient, error) {
	for i := range patients {
		if patients[i].ID == id {
			patients[i] = p
			return patients, nil
		}
	}
	return patients, ErrNotFound
}

// GenerateID returns a short patient id: "p" followed by four hex characters
// of a random UUID. Uniqueness within the collection is not re-checked.
func GenerateID() string {
	return "p" + uuid.New().String()[:4]
}

// GenerateReportID returns a globally unique medical report id.
func GenerateReportID() string {
	return uuid.New().String()
}
