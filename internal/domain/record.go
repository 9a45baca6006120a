package domain

import (
	"encoding/json"
	"time"
)

// RecordType is the kind of waste movement a row describes.
type RecordType string

const (
	RecordTypeReceived  RecordType = "received"
	RecordTypeProcessed RecordType = "processed"
	RecordTypeSentOn    RecordType = "sent_on"
	RecordTypeExported  RecordType = "exported"
)

// IsValid checks if the record type is known.
func (t RecordType) IsValid() bool {
	switch t {
	case RecordTypeReceived, RecordTypeProcessed, RecordTypeSentOn, RecordTypeExported:
		return true
	}
	return false
}

// VersionStatus marks whether a version created or updated its record.
type VersionStatus string

const (
	VersionStatusCreated VersionStatus = "created"
	VersionStatusUpdated VersionStatus = "updated"
)

// RecordVersion is one submitted revision of a row.
type RecordVersion struct {
	CreatedAt time.Time
	Status    VersionStatus
	SourceID  string
	Data      map[string]any
}

// RecordKey identifies a row inside a registration.
type RecordKey struct {
	Type  RecordType
	RowID string
}

// WasteRecord is the current state and version history of one row.
type WasteRecord struct {
	OrganisationID string
	RegistrationID string
	Type           RecordType
	RowID          string
	Data           map[string]any
	Versions       []RecordVersion
}

// Key returns the row key of the record.
func (r *WasteRecord) Key() RecordKey {
	return RecordKey{Type: r.Type, RowID: r.RowID}
}

// VersionAppend is one entry of an appendVersions batch.
type VersionAppend struct {
	Type    RecordType
	RowID   string
	Data    map[string]any
	Version RecordVersion
}

// Validate checks the append request before anything is read.
func (a VersionAppend) Validate() error {
	if !a.Type.IsValid() || a.RowID == "" {
		return ErrInvalidRecordKey
	}
	if a.Version.SourceID == "" {
		return ErrInvalidSourceID
	}
	return nil
}

// HasSource reports whether a version from sourceID was already recorded.
func (r *WasteRecord) HasSource(sourceID string) bool {
	for _, v := range r.Versions {
		if v.SourceID == sourceID {
			return true
		}
	}
	return false
}

// AppendVersion records a new version and replaces the current data.
// It returns false and leaves the record untouched when the source was
// already applied.
func (r *WasteRecord) AppendVersion(data map[string]any, v RecordVersion) bool {
	if r.HasSource(v.SourceID) {
		return false
	}

	v.Data = CloneData(v.Data)
	r.Versions = append(r.Versions, v)
	r.Data = CloneData(data)

	return true
}

// CurrentVersionID returns the source id of the latest version.
func (r *WasteRecord) CurrentVersionID() string {
	if len(r.Versions) == 0 {
		return ""
	}
	return r.Versions[len(r.Versions)-1].SourceID
}

// PreviousVersionIDs returns the source ids of all versions but the latest.
func (r *WasteRecord) PreviousVersionIDs() []string {
	if len(r.Versions) < 2 {
		return []string{}
	}

	ids := make([]string, 0, len(r.Versions)-1)
	for _, v := range r.Versions[:len(r.Versions)-1] {
		ids = append(ids, v.SourceID)
	}
	return ids
}

// Clone returns a deep copy of the record.
func (r *WasteRecord) Clone() *WasteRecord {
	if r == nil {
		return nil
	}

	out := *r
	out.Data = CloneData(r.Data)
	out.Versions = make([]RecordVersion, len(r.Versions))
	for i, v := range r.Versions {
		v.Data = CloneData(v.Data)
		out.Versions[i] = v
	}

	return &out
}

// CloneData deep-copies row data. Nested maps and slices are copied too.
func CloneData(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}

	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneData(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return cloneStrings(t)
	case json.RawMessage:
		return append(json.RawMessage(nil), t...)
	default:
		return v
	}
}
