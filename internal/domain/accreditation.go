package domain

import "time"

// Regulator is the environment agency an accreditation is granted by.
type Regulator string

const (
	RegulatorEA   Regulator = "EA"
	RegulatorNIEA Regulator = "NIEA"
	RegulatorSEPA Regulator = "SEPA"
	RegulatorNRW  Regulator = "NRW"
)

// ProcessingType is the operator kind of an accreditation.
type ProcessingType string

const (
	ProcessingTypeReprocessor ProcessingType = "reprocessor"
	ProcessingTypeExporter    ProcessingType = "exporter"
)

// Accreditation is the regulatory permit tonnage accrues against.
type Accreditation struct {
	ID                  string
	OrganisationID      string
	RegistrationID      string
	AccreditationNumber string
	Regulator           Regulator
	ProcessingType      ProcessingType
	Material            string
	ValidFrom           time.Time
	ValidTo             time.Time
}

// CoversDate reports whether d falls inside the validity window.
// Both ends are inclusive and compared by calendar day.
func (a *Accreditation) CoversDate(d time.Time) bool {
	day := truncateDay(d)
	if !a.ValidFrom.IsZero() && day.Before(truncateDay(a.ValidFrom)) {
		return false
	}
	if !a.ValidTo.IsZero() && day.After(truncateDay(a.ValidTo)) {
		return false
	}
	return true
}

// IsExporter reports whether notes from this accreditation are export notes.
func (a *Accreditation) IsExporter() bool {
	return a.ProcessingType == ProcessingTypeExporter
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
