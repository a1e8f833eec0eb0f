package patient

import (
	"encoding/json"
	"fmt"
)

// DentalProcedure is the procedure label of every derived dental record.
const DentalProcedure = "Clinical Examination"

// SyncResult tells which derived records a report produced.
type SyncResult struct {
	Health bool
	Dental bool
	Vision bool
}

// SyncReport files report under p with the given id and derives the health,
// dental and vision records it implies:
//
//   - a HealthRecord when any vital sign is filled in,
//   - a DentalRecord when the dental examination is filled in,
//   - a VisionRecord when any vision finding is filled in.
//
// All records are computed before p is touched, so p is unchanged when an
// error is returned.
func SyncReport(p *Patient, report MedicalReport, reportID string) (SyncResult, error) {
	var res SyncResult
	report = report.withID(reportID)

	var health *HealthRecord
	if vitals := report.Vitals(); vitals.Any() {
		rec, err := healthRecord(report, vitals)
		if err != nil {
			return res, err
		}
		health = rec
	}

	var dental *DentalRecord
	if truthy(report.DentalExamination) {
		dental = &DentalRecord{
			Date:         report.DateOfVisit,
			Procedure:    DentalProcedure,
			DentistNotes: report.DentalExamination,
		}
	}

	var vision *VisionRecord
	if exam := report.VisionExamination; exam.Any() {
		vision = &VisionRecord{
			Date:        report.DateOfVisit,
			RightEyeSph: exam.valueOrNA("visualAcuity_rightEye"),
			LeftEyeSph:  exam.valueOrNA("visualAcuity_leftEye"),
			OptometristNotes: fmt.Sprintf("Fundus Exam: %s. Other Findings: %s",
				textOrNA(exam["fundusExam"]), textOrNA(exam["otherFindings"])),
		}
	}

	p.MedicalReports = append(p.MedicalReports, report)
	if health != nil {
		p.HealthRecords = append(p.HealthRecords, *health)
		res.Health = true
	}
	if dental != nil {
		p.DentalRecords = append(p.DentalRecords, *dental)
		res.Dental = true
	}
	if vision != nil {
		p.VisionRecords = append(p.VisionRecords, *vision)
		res.Vision = true
	}
	return res, nil
}

func healthRecord(report MedicalReport, vitals VitalSigns) (*HealthRecord, error) {
	systolic, err := vitals.Int("bp_systolic")
	if err != nil {
		return nil, err
	}
	diastolic, err := vitals.Int("bp_diastolic")
	if err != nil {
		return nil, err
	}
	pulse, err := vitals.Int("pulse")
	if err != nil {
		return nil, err
	}
	temperature, err := vitals.Float("temperature")
	if err != nil {
		return nil, err
	}
	return &HealthRecord{
		Date:        report.DateOfVisit,
		SystolicBP:  systolic,
		DiastolicBP: diastolic,
		Pulse:       pulse,
		Temperature: temperature,
		DoctorNotes: fmt.Sprintf("Chief Complaint: %s. Assessment: %s",
			textOrNA(report.ChiefComplaint), textOrNA(report.Assessment)),
	}, nil
}

// withID returns a copy of r carrying id, both as the typed member and in the
// retained document.
func (r MedicalReport) withID(id string) MedicalReport {
	raw, _ := json.Marshal(id)
	r.doc = r.doc.set("reportId", raw)
	r.ReportID = id
	return r
}
