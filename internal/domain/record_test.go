package domain

import (
	"testing"
	"time"
)

func TestWasteRecord_AppendVersion(t *testing.T) {
	r := &WasteRecord{Type: RecordTypeReceived, RowID: "1"}

	later := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)
	earlier := later.Add(-24 * time.Hour)

	if !r.AppendVersion(map[string]any{"a": 1, "b": 2}, RecordVersion{SourceID: "s1", CreatedAt: later}) {
		t.Fatal("expected first version to be appended")
	}
	if r.AppendVersion(map[string]any{"a": 99}, RecordVersion{SourceID: "s1", CreatedAt: later}) {
		t.Fatal("expected replay to be ignored")
	}
	if r.Data["a"] != 1 {
		t.Errorf("replay altered data: %v", r.Data)
	}

	if !r.AppendVersion(map[string]any{"a": 3}, RecordVersion{SourceID: "s2", CreatedAt: earlier}) {
		t.Fatal("expected second version to be appended")
	}
	if _, ok := r.Data["b"]; ok {
		t.Error("absent field survived full replacement")
	}
	if r.Versions[0].SourceID != "s1" || r.Versions[1].SourceID != "s2" {
		t.Errorf("versions not in persistence order: %+v", r.Versions)
	}
	if r.CurrentVersionID() != "s2" {
		t.Errorf("unexpected current version %s", r.CurrentVersionID())
	}
	if prev := r.PreviousVersionIDs(); len(prev) != 1 || prev[0] != "s1" {
		t.Errorf("unexpected previous versions %v", prev)
	}
}

func TestVersionAppend_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      VersionAppend
		wantErr error
	}{
		{"valid", VersionAppend{Type: RecordTypeReceived, RowID: "1", Version: RecordVersion{SourceID: "s"}}, nil},
		{"unknown type", VersionAppend{Type: "bogus", RowID: "1", Version: RecordVersion{SourceID: "s"}}, ErrInvalidRecordKey},
		{"missing row", VersionAppend{Type: RecordTypeReceived, Version: RecordVersion{SourceID: "s"}}, ErrInvalidRecordKey},
		{"missing source", VersionAppend{Type: RecordTypeReceived, RowID: "1"}, ErrInvalidSourceID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Validate(); err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCloneData_Deep(t *testing.T) {
	in := map[string]any{
		"nested": map[string]any{"x": 1},
		"list":   []any{map[string]any{"y": 2}},
	}

	out := CloneData(in)
	out["nested"].(map[string]any)["x"] = 100
	out["list"].([]any)[0].(map[string]any)["y"] = 200

	if in["nested"].(map[string]any)["x"] != 1 {
		t.Error("nested map shared")
	}
	if in["list"].([]any)[0].(map[string]any)["y"] != 2 {
		t.Error("nested slice shared")
	}
}
