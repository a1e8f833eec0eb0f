// Package assistant builds clinical prompts from a patient record and relays
// them to the completion service. Nothing here changes stored state.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/synapse/emr/internal/domain/patient"
	"github.com/synapse/emr/internal/platform/completion"
	"github.com/synapse/emr/internal/platform/metrics"
)

// NoReportsPrescription is returned instead of a prescription when the
// patient has no medical report to base one on.
const NoReportsPrescription = "No recent medical reports available to generate a prescription."

// Completion kinds, used as metric labels.
const (
	kindSummary      = "summary"
	kindCarePlan     = "care_plan"
	kindPrescription = "prescription"
)

// PatientSource looks up a single patient. *patient.Service satisfies it.
type PatientSource interface {
	GetPatient(ctx context.Context, id string) (*patient.Patient, error)
}

type Service struct {
	patients PatientSource
	gen      completion.Generator
	logger   zerolog.Logger
}

func NewService(patients PatientSource, gen completion.Generator, logger zerolog.Logger) *Service {
	if gen == nil {
		gen = completion.Unconfigured{}
	}
	return &Service{patients: patients, gen: gen, logger: logger}
}

// Summary returns a short summary of one section of the patient's record.
// An empty section means general. When the selected notes are empty the
// canned "no records" message is returned and the completion service is not
// called.
func (s *Service) Summary(ctx context.Context, id, section string) (string, error) {
	if section == "" {
		section = SectionGeneral
	}
	p, err := s.patients.GetPatient(ctx, id)
	if err != nil {
		return "", err
	}
	notes, err := SummaryNotes(p, section)
	if err != nil {
		return "", err
	}
	if isEmptyNotes(notes) {
		metrics.RecordCompletion(kindSummary, "skipped", 0)
		return noRecordsMessage(section), nil
	}
	return s.generate(ctx, kindSummary, id, summaryPrompt(section, notes))
}

// CarePlan returns a Markdown care plan drawn from the whole record.
func (s *Service) CarePlan(ctx context.Context, id string) (string, error) {
	p, err := s.patients.GetPatient(ctx, id)
	if err != nil {
		return "", err
	}
	prompt, err := carePlanPrompt(p)
	if err != nil {
		return "", err
	}
	return s.generate(ctx, kindCarePlan, id, prompt)
}

// Prescription returns a sample Markdown prescription based on the latest
// medical report.
func (s *Service) Prescription(ctx context.Context, id string) (string, error) {
	p, err := s.patients.GetPatient(ctx, id)
	if err != nil {
		return "", err
	}
	latest, ok := p.LatestReport()
	if !ok {
		metrics.RecordCompletion(kindPrescription, "skipped", 0)
		return NoReportsPrescription, nil
	}
	prompt, err := prescriptionPrompt(p, latest)
	if err != nil {
		return "", err
	}
	return s.generate(ctx, kindPrescription, id, prompt)
}

func (s *Service) generate(ctx context.Context, kind, patientID, prompt string) (string, error) {
	start := time.Now()
	out, err := s.gen.Generate(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, completion.ErrUnconfigured) {
			metrics.RecordCompletion(kind, "unconfigured", elapsed)
			return "", err
		}
		metrics.RecordCompletion(kind, "error", elapsed)
		s.logger.Error().Err(err).
			Str("kind", kind).
			Str("patient_id", patientID).
			Dur("elapsed", elapsed).
			Msg("completion failed")
		return "", fmt.Errorf("generate %s: %w", kind, err)
	}
	metrics.RecordCompletion(kind, "ok", elapsed)
	return strings.TrimSpace(out), nil
}
