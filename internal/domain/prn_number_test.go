package domain

import (
	"errors"
	"testing"
)

func TestFormatPrnNumber(t *testing.T) {
	tests := []struct {
		name      string
		regulator Regulator
		isExport  bool
		year      int
		random    int
		want      string
		wantErr   bool
	}{
		{"EA reprocessor", RegulatorEA, false, 2025, 1234, "ER2501234", false},
		{"SEPA exporter", RegulatorSEPA, true, 2026, 99999, "SX2699999", false},
		{"NRW lower case", Regulator("nrw"), false, 2025, 7, "WR2500007", false},
		{"NIEA exporter", RegulatorNIEA, true, 2025, 123456, "NX2523456", false},
		{"unknown regulator", Regulator("XX"), false, 2025, 1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatPrnNumber(tt.regulator, tt.isExport, tt.year, tt.random)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			if len(got) != 9 {
				t.Errorf("expected 9 characters, got %d", len(got))
			}
		})
	}
}
