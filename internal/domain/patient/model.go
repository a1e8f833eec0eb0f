package patient

import (
	"encoding/json"
	"net/url"
	"unicode/utf8"
)

// Patient is the root document stored in the patient collection. Members the
// service does not model are kept and written back in their stored order.
type Patient struct {
	ID                string
	Name              string
	DOB               string
	Gender            *string
	Contact           *string
	ProfilePictureURL string
	FamilyBackground  map[string]any
	HealthRecords     []HealthRecord
	DentalRecords     []DentalRecord
	VisionRecords     []VisionRecord
	MedicalReports    []MedicalReport

	doc document
}

func (p *Patient) UnmarshalJSON(data []byte) error {
	doc, err := decodeObject("patient", data)
	if err != nil {
		return err
	}
	var out Patient
	take(&doc, "id", &out.ID)
	take(&doc, "name", &out.Name)
	take(&doc, "dob", &out.DOB)
	take(&doc, "gender", &out.Gender)
	take(&doc, "contact", &out.Contact)
	take(&doc, "profile_picture_url", &out.ProfilePictureURL)
	take(&doc, "familyBackground", &out.FamilyBackground)
	take(&doc, "healthRecords", &out.HealthRecords)
	take(&doc, "dentalRecords", &out.DentalRecords)
	take(&doc, "visionRecords", &out.VisionRecords)
	take(&doc, "medicalReports", &out.MedicalReports)
	out.doc = doc.compact()
	*p = out
	return nil
}

func (p Patient) MarshalJSON() ([]byte, error) {
	return p.doc.encode([]field{
		{"id", p.ID},
		{"name", p.Name},
		{"dob", p.DOB},
		{"gender", p.Gender},
		{"contact", p.Contact},
		{"profile_picture_url", p.ProfilePictureURL},
		{"familyBackground", p.FamilyBackground},
		{"healthRecords", p.HealthRecords},
		{"dentalRecords", p.DentalRecords},
		{"visionRecords", p.VisionRecords},
		{"medicalReports", p.MedicalReports},
	})
}

// normalize replaces missing collections with empty ones so stored documents
// always carry the full shape. A collection stored with an unexpected type is
// left as stored.
func (p *Patient) normalize() {
	if p.FamilyBackground == nil && !p.doc.holds("familyBackground") {
		p.FamilyBackground = map[string]any{}
	}
	if p.HealthRecords == nil && !p.doc.holds("healthRecords") {
		p.HealthRecords = []HealthRecord{}
	}
	if p.DentalRecords == nil && !p.doc.holds("dentalRecords") {
		p.DentalRecords = []DentalRecord{}
	}
	if p.VisionRecords == nil && !p.doc.holds("visionRecords") {
		p.VisionRecords = []VisionRecord{}
	}
	if p.MedicalReports == nil && !p.doc.holds("medicalReports") {
		p.MedicalReports = []MedicalReport{}
	}
}

// LatestReport returns the most recently submitted medical report.
func (p *Patient) LatestReport() (MedicalReport, bool) {
	if len(p.MedicalReports) == 0 {
		return MedicalReport{}, false
	}
	return p.MedicalReports[len(p.MedicalReports)-1], true
}

// Summary is the directory listing entry for a patient.
type Summary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	DOB               string `json:"dob"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// NewPatient is the request body accepted when registering a patient.
type NewPatient struct {
	Name              string  `json:"name"`
	DOB               string  `json:"dob"`
	Gender            *string `json:"gender"`
	Contact           *string `json:"contact"`
	ProfilePictureURL string  `json:"profile_picture_url"`
}

const placeholderAvatarURL = "https://placehold.co/100x100/c4b5fd/FFFFFF?text="

// PlaceholderAvatar returns the generated avatar URL for a patient name.
func PlaceholderAvatar(name string) string {
	initial := "P"
	if r, _ := utf8.DecodeRuneInString(name); r != utf8.RuneError {
		initial = string(r)
	}
	return placeholderAvatarURL + url.QueryEscape(initial)
}

// HealthRecord is derived from the vital signs of a medical report.
type HealthRecord struct {
	Date        *string
	SystolicBP  *int
	DiastolicBP *int
	Pulse       *int
	Temperature *float64
	DoctorNotes string

	doc document
}

func (h *HealthRecord) UnmarshalJSON(data []byte) error {
	doc, err := decodeObject("health record", data)
	if err != nil {
		return err
	}
	var out HealthRecord
	take(&doc, "date", &out.Date)
	take(&doc, "systolic_bp", &out.SystolicBP)
	take(&doc, "diastolic_bp", &out.DiastolicBP)
	take(&doc, "pulse", &out.Pulse)
	take(&doc, "temperature", &out.Temperature)
	take(&doc, "doctor_notes", &out.DoctorNotes)
	out.doc = doc.compact()
	*h = out
	return nil
}

func (h HealthRecord) MarshalJSON() ([]byte, error) {
	return h.doc.encode([]field{
		{"date", h.Date},
		{"systolic_bp", h.SystolicBP},
		{"diastolic_bp", h.DiastolicBP},
		{"pulse", h.Pulse},
		{"temperature", h.Temperature},
		{"doctor_notes", h.DoctorNotes},
	})
}

// DentalRecord is derived from the dental examination of a medical report.
// DentistNotes holds the examination exactly as submitted (text or object).
type DentalRecord struct {
	Date         *string
	Procedure    string
	DentistNotes any

	doc document
}

func (d *DentalRecord) UnmarshalJSON(data []byte) error {
	doc, err := decodeObject("dental record", data)
	if err != nil {
		return err
	}
	var out DentalRecord
	take(&doc, "date", &out.Date)
	take(&doc, "procedure", &out.Procedure)
	take(&doc, "dentist_notes", &out.DentistNotes)
	out.doc = doc.compact()
	*d = out
	return nil
}

func (d DentalRecord) MarshalJSON() ([]byte, error) {
	return d.doc.encode([]field{
		{"date", d.Date},
		{"procedure", d.Procedure},
		{"dentist_notes", d.DentistNotes},
	})
}

// VisionRecord is derived from the vision examination of a medical report.
type VisionRecord struct {
	Date             *string
	RightEyeSph      any
	LeftEyeSph       any
	OptometristNotes string

	doc document
}

func (v *VisionRecord) UnmarshalJSON(data []byte) error {
	doc, err := decodeObject("vision record", data)
	if err != nil {
		return err
	}
	var out VisionRecord
	take(&doc, "date", &out.Date)
	take(&doc, "right_eye_sph", &out.RightEyeSph)
	take(&doc, "left_eye_sph", &out.LeftEyeSph)
	take(&doc, "optometrist_notes", &out.OptometristNotes)
	out.doc = doc.compact()
	*v = out
	return nil
}

func (v VisionRecord) MarshalJSON() ([]byte, error) {
	return v.doc.encode([]field{
		{"date", v.Date},
		{"right_eye_sph", v.RightEyeSph},
		{"left_eye_sph", v.LeftEyeSph},
		{"optometrist_notes", v.OptometristNotes},
	})
}

// VitalSigns holds the loosely typed vitals of a physical examination.
// Recognized keys: bp_systolic, bp_diastolic, pulse, temperature.
type VitalSigns map[string]any

// VisionExamination holds the vision findings of a report.
// Recognized keys: visualAcuity_rightEye, visualAcuity_leftEye, fundusExam,
// otherFindings.
type VisionExamination map[string]any

type PhysicalExamination struct {
	VitalSigns VitalSigns `json:"vitalSigns"`
}

// MedicalReport is a single clinical visit submission. Recognized fields are
// decoded into typed members; the complete submitted document is retained so
// fields this service does not interpret are stored unchanged and in order.
type MedicalReport struct {
	ReportID            string
	DateOfVisit         *string
	ChiefComplaint      *string
	Assessment          *string
	PhysicalExamination *PhysicalExamination
	DentalExamination   any
	VisionExamination   VisionExamination
	Allergies           any
	Medications         any

	doc document
}

func (r *MedicalReport) UnmarshalJSON(data []byte) error {
	doc, err := decodeObject("medical report", data)
	if err != nil {
		return err
	}
	var out MedicalReport
	peek(&doc, "reportId", &out.ReportID, true)
	peek(&doc, "dateOfVisit", &out.DateOfVisit, true)
	peek(&doc, "chiefComplaint", &out.ChiefComplaint, true)
	peek(&doc, "assessment", &out.Assessment, true)
	peek(&doc, "physicalExamination", &out.PhysicalExamination, true)
	peek(&doc, "dentalExamination", &out.DentalExamination, true)
	peek(&doc, "visionExamination", &out.VisionExamination, true)
	peek(&doc, "allergies", &out.Allergies, true)
	peek(&doc, "medications", &out.Medications, true)
	out.doc = doc
	*r = out
	return nil
}

// checkShape rejects a submitted report whose recognized fields have the
// wrong type. Stored reports are accepted as they are.
func (r MedicalReport) checkShape() error {
	return r.doc.check("medical report")
}

// MarshalJSON writes the retained document. The report id and typed members
// set in code but absent from the document are added after it.
func (r MedicalReport) MarshalJSON() ([]byte, error) {
	var fields []field
	if r.ReportID != "" {
		fields = append(fields, field{"reportId", r.ReportID})
	}
	add := func(key string, v any, set bool) {
		if set && !r.doc.hasKey(key) {
			fields = append(fields, field{key, v})
		}
	}
	add("dateOfVisit", r.DateOfVisit, r.DateOfVisit != nil)
	add("chiefComplaint", r.ChiefComplaint, r.ChiefComplaint != nil)
	add("assessment", r.Assessment, r.Assessment != nil)
	add("physicalExamination", r.PhysicalExamination, r.PhysicalExamination != nil)
	add("dentalExamination", r.DentalExamination, r.DentalExamination != nil)
	add("visionExamination", r.VisionExamination, r.VisionExamination != nil)
	add("allergies", r.Allergies, r.Allergies != nil)
	add("medications", r.Medications, r.Medications != nil)
	return r.doc.encode(fields)
}

// Field returns the raw JSON of a top-level report field.
func (r MedicalReport) Field(key string) (json.RawMessage, bool) {
	v, ok := r.doc.values[key]
	return v, ok
}

// Vitals returns the vital signs of the report, empty when absent.
func (r MedicalReport) Vitals() VitalSigns {
	if r.PhysicalExamination == nil || r.PhysicalExamination.VitalSigns == nil {
		return VitalSigns{}
	}
	return r.PhysicalExamination.VitalSigns
}
