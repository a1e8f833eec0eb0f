package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/synapse/emr/internal/platform/metrics"
)

// ErrValidation is returned when a new patient lacks a name or date of birth.
var ErrValidation = errors.New("name and dob are required")

type Service struct {
	repo        Repository
	newID       func() string
	newReportID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, newID: GenerateID, newReportID: GenerateReportID}
}

func (s *Service) ListPatients(ctx context.Context) ([]Summary, error) {
	patients, err := s.repo.LoadPatients(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(patients))
	for _, p := range patients {
		out = append(out, Summary{
			ID:                p.ID,
			Name:              p.Name,
			DOB:               p.DOB,
			ProfilePictureURL: p.ProfilePictureURL,
		})
	}
	return out, nil
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	patients, err := s.repo.LoadPatients(ctx)
	if err != nil {
		return nil, err
	}
	p, err := FindByID(patients, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) CreatePatient(ctx context.Context, in NewPatient) (*Patient, error) {
	if in.Name == "" || in.DOB == "" {
		return nil, ErrValidation
	}
	patients, err := s.repo.LoadPatients(ctx)
	if err != nil {
		return nil, err
	}

	p := Patient{
		ID:                s.newID(),
		Name:              in.Name,
		DOB:               in.DOB,
		Gender:            in.Gender,
		Contact:           in.Contact,
		ProfilePictureURL: in.ProfilePictureURL,
	}
	if p.ProfilePictureURL == "" {
		p.ProfilePictureURL = PlaceholderAvatar(in.Name)
	}
	p.normalize()

	if err := s.repo.SavePatients(ctx, Append(patients, p)); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePatient replaces the stored patient with p. The id in the path is
// authoritative: p.ID is overwritten so a patient id never changes.
func (s *Service) UpdatePatient(ctx context.Context, id string, p Patient) error {
	patients, err := s.repo.LoadPatients(ctx)
	if err != nil {
		return err
	}
	p.ID = id
	p.normalize()
	patients, err = Replace(patients, id, p)
	if err != nil {
		return err
	}
	return s.repo.SavePatients(ctx, patients)
}

// AddMedicalReport files report under the patient, derives the secondary
// records and persists the collection in a single write. Nothing is written
// when any step fails.
func (s *Service) AddMedicalReport(ctx context.Context, id string, report MedicalReport) (SyncResult, error) {
	patients, err := s.repo.LoadPatients(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	current, err := FindByID(patients, id)
	if err != nil {
		return SyncResult{}, err
	}

	updated := *current
	res, err := SyncReport(&updated, report, s.newReportID())
	if err != nil {
		return res, fmt.Errorf("sync report for %s: %w", id, err)
	}
	if patients, err = Replace(patients, id, updated); err != nil {
		return res, err
	}
	if err := s.repo.SavePatients(ctx, patients); err != nil {
		return res, err
	}

	metrics.RecordMedicalReport(res.Health, res.Dental, res.Vision)
	return res, nil
}
