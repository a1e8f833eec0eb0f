package patient

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestVitalSigns_Int(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantErr bool
	}{
		{"integer string", "72", 72, false},
		{"padded string", " 80 ", 80, false},
		{"json integer", json.Number("120"), 120, false},
		{"json fraction truncates", json.Number("72.6"), 72, false},
		{"fractional string rejected", "72.6", 0, true},
		{"text rejected", "abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VitalSigns{"pulse": tt.value}.Int("pulse")
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVitals) {
					t.Fatalf("expected ErrInvalidVitals, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil || *got != tt.want {
				t.Errorf("expected %d, got %v", tt.want, got)
			}
		})
	}
}

func TestVitalSigns_Float(t *testing.T) {
	got, err := VitalSigns{"temperature": "98.6"}.Float("temperature")
	if err != nil || got == nil || *got != 98.6 {
		t.Errorf("expected 98.6, got %v %v", got, err)
	}
	if _, err := (VitalSigns{"temperature": "NaN"}).Float("temperature"); !errors.Is(err, ErrInvalidVitals) {
		t.Errorf("expected ErrInvalidVitals for NaN, got %v", err)
	}
	if got, err := (VitalSigns{}).Float("temperature"); got != nil || err != nil {
		t.Errorf("expected nil for an absent vital, got %v %v", got, err)
	}
}
