package main

import "testing"

func TestDescriptionFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"2026-10-01-003-create-patients.sql", "create patients"},
		{"2026-10-01-005-create-physical-assessments.sql", "create physical assessments"},
		{"seed.sql", "seed"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := descriptionFromFilename(tt.filename); got != tt.want {
				t.Errorf("descriptionFromFilename(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
