package assistant

import (
	"testing"
)

func TestSummaryNotes_LatestReport(t *testing.T) {
	p := mustPatient(t, `{"id":"p1","name":"A","dob":"x","medicalReports":[
		{"dentalExamination": "old notes"},
		{"assessment": "Healthy", "dentalExamination": {"caries": 2}}
	]}`)

	tests := []struct {
		section string
		want    string
	}{
		{"health", "null\nHealthy"},
		{"dental", "{\n  \"caries\": 2\n}"},
		{"vision", "null"},
		{"general", ""},
	}
	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			got, err := SummaryNotes(p, tt.section)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSummaryNotes_DerivedRecords(t *testing.T) {
	p := mustPatient(t, `{"id":"p1","name":"A","dob":"x","healthRecords":[],"dentalRecords":[
		{"date":"2024-01-01","procedure":"Clinical Examination","dentist_notes":"ok"}
	]}`)

	got, err := SummaryNotes(p, "dental")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[\n  {\n    \"date\": \"2024-01-01\",\n    \"procedure\": \"Clinical Examination\",\n    \"dentist_notes\": \"ok\"\n  }\n]"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	got, _ = SummaryNotes(p, "health")
	if got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
}

func TestIsEmptyNotes(t *testing.T) {
	tests := []struct {
		notes string
		want  bool
	}{
		{"", true},
		{"   \n", true},
		{"{}", true},
		{"[]", true},
		{"null", true},
		{"null\n", true},
		{"null\nHealthy", false},
		{"Mild gingivitis", false},
		{"0", false},
	}
	for _, tt := range tests {
		if got := isEmptyNotes(tt.notes); got != tt.want {
			t.Errorf("isEmptyNotes(%q) = %v, want %v", tt.notes, got, tt.want)
		}
	}
}

func TestPrettyJSON_KeepsMarkup(t *testing.T) {
	got, err := prettyJSON(map[string]string{"note": "BP <140 & stable"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "{\n  \"note\": \"BP <140 & stable\"\n}" {
		t.Errorf("unexpected rendering %q", got)
	}
}
