package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row processing types carried in waste record data.
const (
	RowProcessingTypeExporter          = "EXPORTER"
	RowProcessingTypeReprocessorInput  = "REPROCESSOR_INPUT"
	RowProcessingTypeReprocessorOutput = "REPROCESSOR_OUTPUT"
)

// Row field names.
const (
	FieldProcessingType             = "processingType"
	FieldDateOfExport               = "DATE_OF_EXPORT"
	FieldPrnIssued                  = "WERE_PRN_OR_PERN_ISSUED_ON_THIS_WASTE"
	FieldPassedInterimSite          = "DID_WASTE_PASS_THROUGH_AN_INTERIM_SITE"
	FieldTonnageInterimReceived     = "TONNAGE_PASSED_INTERIM_SITE_RECEIVED_BY_OSR"
	FieldTonnageExported            = "TONNAGE_OF_UK_PACKAGING_WASTE_EXPORTED"
	FieldDateReceivedForReprocess   = "DATE_RECEIVED_FOR_REPROCESSING"
	FieldTonnageReceivedForRecycle  = "TONNAGE_RECEIVED_FOR_RECYCLING"
	FieldDateLoadLeftSite           = "DATE_LOAD_LEFT_SITE"
	FieldTonnageSentOn              = "TONNAGE_OF_UK_PACKAGING_WASTE_SENT_ON"
	FieldEWCCode                    = "EWC_CODE"
	FieldGrossWeight                = "GROSS_WEIGHT"
	FieldNetWeight                  = "NET_WEIGHT"
	FieldOSRID                      = "OSR_ID"
	FieldProductTonnage             = "PRODUCT_TONNAGE"
	FieldDateOfProcessing           = "DATE_OF_PROCESSING"
	FieldFinalDestinationFacilityID = "FINAL_DESTINATION_FACILITY_ID"
)

const (
	yes = "yes"
)

// BalanceFields are the values of a row that drive its ledger contribution.
type BalanceFields struct {
	DispatchDate time.Time
	PrnIssued    bool
	Tonnage      decimal.Decimal
}

// ExtractBalanceFields reads the balance-relevant fields of a record.
// It returns false when the record does not contribute to a waste balance
// or its date is missing.
func ExtractBalanceFields(r *WasteRecord) (BalanceFields, bool) {
	processingType, _ := r.Data[FieldProcessingType].(string)

	switch {
	case processingType == RowProcessingTypeExporter && r.Type == RecordTypeExported:
		date, ok := parseDate(r.Data[FieldDateOfExport])
		if !ok {
			return BalanceFields{}, false
		}

		tonnageField := FieldTonnageExported
		if isYes(r.Data[FieldPassedInterimSite]) {
			tonnageField = FieldTonnageInterimReceived
		}

		return BalanceFields{
			DispatchDate: date,
			PrnIssued:    isYes(r.Data[FieldPrnIssued]),
			Tonnage:      parseTonnage(r.Data[tonnageField]),
		}, true

	case processingType == RowProcessingTypeReprocessorInput && r.Type == RecordTypeReceived:
		date, ok := parseDate(r.Data[FieldDateReceivedForReprocess])
		if !ok {
			return BalanceFields{}, false
		}

		return BalanceFields{
			DispatchDate: date,
			PrnIssued:    isYes(r.Data[FieldPrnIssued]),
			Tonnage:      parseTonnage(r.Data[FieldTonnageReceivedForRecycle]),
		}, true

	case processingType == RowProcessingTypeReprocessorInput && r.Type == RecordTypeSentOn:
		date, ok := parseDate(r.Data[FieldDateLoadLeftSite])
		if !ok {
			return BalanceFields{}, false
		}

		return BalanceFields{
			DispatchDate: date,
			Tonnage:      parseTonnage(r.Data[FieldTonnageSentOn]).Neg(),
		}, true
	}

	return BalanceFields{}, false
}

// IncludedAmount is the tonnage a record contributes to the balance:
// its tonnage when the row is classified as included, no note was issued
// against it and its date falls inside the accreditation window, else zero.
func IncludedAmount(r *WasteRecord, acc *Accreditation, outcome RowOutcome) decimal.Decimal {
	if outcome != RowOutcomeIncluded {
		return decimal.Zero
	}

	fields, ok := ExtractBalanceFields(r)
	if !ok || fields.PrnIssued || !acc.CoversDate(fields.DispatchDate) {
		return decimal.Zero
	}

	return fields.Tonnage
}

func isYes(v any) bool {
	s, ok := v.(string)
	return ok && strings.EqualFold(strings.TrimSpace(s), yes)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
	"02/01/2006",
}

func parseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d, true
			}
		}
	}

	return time.Time{}, false
}

// ParseTonnage converts a row value to an exact decimal. Unparseable or
// missing values are zero.
func ParseTonnage(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	}

	return decimal.Zero, false
}

func parseTonnage(v any) decimal.Decimal {
	d, ok := ParseTonnage(v)
	if !ok {
		return decimal.Zero
	}
	return d
}
