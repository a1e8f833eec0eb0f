package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/synapse/emr/internal/domain/patient"
)

// Summary sections. Any other value, including SectionGeneral, selects no
// content and yields the canned reply.
const (
	SectionGeneral = "general"
	SectionHealth  = "health"
	SectionDental  = "dental"
	SectionVision  = "vision"
)

const summaryPromptTemplate = `Act as a medical AI assistant. Summarize the following clinical notes for the '%s' section into 2-3 concise bullet points for a doctor.
Focus on the most critical findings, diagnoses, or trends.

Clinical Notes:
%s
`

const carePlanPromptTemplate = `You are an expert clinical AI assistant. Generate a comprehensive care plan based on the patient's complete medical record.
Analyze all provided information, especially the most recent medical reports.

PATIENT'S FULL RECORD:
---
Patient Info: %s
Family & Background: %s
---
Structured Health Records (Vitals): %s
---
Structured Dental Records: %s
---
Structured Vision Records: %s
---
FULL MEDICAL REPORTS (Most Important): %s
---

Based on a holistic analysis, generate a structured care plan in Markdown format.
Your response MUST be in the following format:

### Key Health Risks
- **Risk 1:** (e.g., Elevated risk of cardiovascular disease due to family history and recent high blood pressure readings).
- **Risk 2:** (e.g., Potential for progressive myopia based on vision records).

### Recommended Actions & Monitoring
- **Action 1:** (e.g., Lifestyle: Recommend a low-sodium diet and 30 minutes of moderate exercise, 3-4 times a week).
- **Action 2:** (e.g., Monitoring: Suggest weekly at-home blood pressure monitoring).

### Specialist Referrals
- **Referral 1:** (e.g., Consider referral to a cardiologist for a full cardiovascular workup).

Do NOT prescribe specific medications or dosages. The output must be professional, clear, and actionable for a clinician.
`

const prescriptionPromptTemplate = `You are an AI clinical pharmacology assistant. Your task is to suggest a potential prescription based on a patient's complete medical record.
This is a proof-of-concept tool and NOT for real-world clinical use.
Analyze all the information provided, focusing on the chief complaint and assessment from the most recent medical report.

PATIENT'S FULL RECORD:
---
Patient Info: %s
Allergies: %s
Current Medications: %s
---
FULL MEDICAL REPORTS (Analyze the most recent one for the primary diagnosis): %s
---

Based on the latest assessment and diagnosis, generate a sample prescription.
Your response MUST be in the following Markdown format:

### Medication
- **Drug Name:** (e.g., Lisinopril)
- **Dosage:** (e.g., 10 mg)
- **Frequency:** (e.g., Once daily)
- **Route:** (e.g., Oral)

### Rationale
- **Reasoning:** (e.g., "Prescribed for hypertension based on recent high blood pressure readings and the patient's assessment. Lisinopril is a common first-line treatment.")

### Important Considerations
- **Monitoring:** (e.g., "Monitor blood pressure regularly. Check kidney function and potassium levels within 2-4 weeks of starting.")
- **Side Effects:** (e.g., "Common side effects include a dry cough, dizziness, and headache.")

Your output must be structured, professional, and include a clear rationale.
`

// patientInfo keeps name, dob and gender in that order in prompts.
type patientInfo struct {
	Name   string  `json:"name"`
	DOB    string  `json:"dob"`
	Gender *string `json:"gender"`
}

func infoOf(p *patient.Patient) patientInfo {
	return patientInfo{Name: p.Name, DOB: p.DOB, Gender: p.Gender}
}

// SummaryNotes selects the clinical notes summarized for section. The most
// recent medical report is preferred; without one the matching derived
// record sequence is used.
func SummaryNotes(p *patient.Patient, section string) (string, error) {
	if report, ok := p.LatestReport(); ok {
		return reportNotes(report, section)
	}
	switch section {
	case SectionHealth:
		return prettyJSON(p.HealthRecords)
	case SectionDental:
		return prettyJSON(p.DentalRecords)
	case SectionVision:
		return prettyJSON(p.VisionRecords)
	}
	return "", nil
}

func reportNotes(report patient.MedicalReport, section string) (string, error) {
	switch section {
	case SectionHealth:
		exam, err := prettyField(report, "physicalExamination")
		if err != nil {
			return "", err
		}
		assessment := ""
		if report.Assessment != nil {
			assessment = *report.Assessment
		}
		return exam + "\n" + assessment, nil
	case SectionDental:
		switch v := report.DentalExamination.(type) {
		case nil:
			return "", nil
		case string:
			return v, nil
		}
		return prettyField(report, "dentalExamination")
	case SectionVision:
		return prettyField(report, "visionExamination")
	}
	return "", nil
}

// isEmptyNotes reports whether notes carry nothing worth summarizing.
func isEmptyNotes(notes string) bool {
	switch strings.TrimSpace(notes) {
	case "", "{}", "[]", "null":
		return true
	}
	return false
}

func noRecordsMessage(section string) string {
	return fmt.Sprintf("No recent %s records available to summarize.", section)
}

func summaryPrompt(section, notes string) string {
	return fmt.Sprintf(summaryPromptTemplate, section, notes)
}

func carePlanPrompt(p *patient.Patient) (string, error) {
	info, err := compactJSON(infoOf(p))
	if err != nil {
		return "", err
	}
	parts := []any{p.FamilyBackground, p.HealthRecords, p.DentalRecords, p.VisionRecords, p.MedicalReports}
	rendered := make([]any, 0, len(parts)+1)
	rendered = append(rendered, info)
	for _, v := range parts {
		s, err := prettyJSON(v)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, s)
	}
	return fmt.Sprintf(carePlanPromptTemplate, rendered...), nil
}

// prescriptionPrompt renders the prescription prompt. Allergies and current
// medications come from the latest report, which must exist.
func prescriptionPrompt(p *patient.Patient, latest patient.MedicalReport) (string, error) {
	info, err := compactJSON(infoOf(p))
	if err != nil {
		return "", err
	}
	allergies, err := compactJSON(latest.Allergies)
	if err != nil {
		return "", err
	}
	medications, err := compactJSON(latest.Medications)
	if err != nil {
		return "", err
	}
	reports, err := prettyJSON(p.MedicalReports)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(prescriptionPromptTemplate, info, allergies, medications, reports), nil
}

// prettyField indents the submitted JSON of a report field, "null" when the
// field is absent.
func prettyField(report patient.MedicalReport, key string) (string, error) {
	raw, ok := report.Field(key)
	if !ok {
		return "null", nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("render %s: %w", key, err)
	}
	return buf.String(), nil
}

func prettyJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("render prompt data: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("render prompt data: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
