package domain

import (
	"fmt"
	"strings"
)

// RowOutcome is the result of classifying a row against its table schema.
type RowOutcome string

const (
	// RowOutcomeIncluded rows contribute to the waste balance.
	RowOutcomeIncluded RowOutcome = "INCLUDED"
	// RowOutcomeExcluded rows are accepted but do not contribute.
	RowOutcomeExcluded RowOutcome = "EXCLUDED"
	// RowOutcomeRejected rows fail validation and block submission.
	RowOutcomeRejected RowOutcome = "REJECTED"
)

// Classification is the outcome of a row together with the reasons for it.
type Classification struct {
	Outcome RowOutcome
	Issues  []string
}

// Classifier maps raw row data to an inclusion outcome.
type Classifier interface {
	Classify(r *WasteRecord) Classification
}

// TableSchema lists the validation rules for one summary log table.
type TableSchema struct {
	Name string
	// BalanceFields must be present for the row to count towards the balance.
	BalanceFields []string
	// NumericFields must hold non-negative numbers when present.
	NumericFields []string
	// YesNoFields must be "Yes" or "No" when present.
	YesNoFields []string
}

type schemaKey struct {
	processingType string
	recordType     RecordType
}

var (
	receivedForExportSchema = TableSchema{
		Name:          "RECEIVED_LOADS_FOR_EXPORT",
		BalanceFields: []string{FieldDateOfExport, FieldTonnageExported, FieldPrnIssued},
		NumericFields: []string{FieldGrossWeight, FieldNetWeight, FieldTonnageExported, FieldTonnageInterimReceived},
		YesNoFields:   []string{FieldPrnIssued, FieldPassedInterimSite},
	}
	receivedForReprocessingSchema = TableSchema{
		Name:          "RECEIVED_LOADS_FOR_REPROCESSING",
		BalanceFields: []string{FieldDateReceivedForReprocess, FieldTonnageReceivedForRecycle, FieldPrnIssued},
		NumericFields: []string{FieldGrossWeight, FieldNetWeight, FieldTonnageReceivedForRecycle},
		YesNoFields:   []string{FieldPrnIssued},
	}
	reprocessedSchema = TableSchema{
		Name:          "REPROCESSED_LOADS",
		BalanceFields: []string{FieldDateOfProcessing, FieldProductTonnage},
		NumericFields: []string{FieldProductTonnage},
	}
	sentOnSchema = TableSchema{
		Name:          "SENT_ON_LOADS",
		BalanceFields: []string{FieldDateLoadLeftSite, FieldTonnageSentOn},
		NumericFields: []string{FieldTonnageSentOn},
	}
)

var tableSchemas = map[schemaKey]TableSchema{
	{RowProcessingTypeExporter, RecordTypeExported}:           receivedForExportSchema,
	{RowProcessingTypeExporter, RecordTypeSentOn}:             sentOnSchema,
	{RowProcessingTypeReprocessorInput, RecordTypeReceived}:   receivedForReprocessingSchema,
	{RowProcessingTypeReprocessorInput, RecordTypeSentOn}:     sentOnSchema,
	{RowProcessingTypeReprocessorOutput, RecordTypeProcessed}: reprocessedSchema,
	{RowProcessingTypeReprocessorOutput, RecordTypeSentOn}:    sentOnSchema,
}

// SchemaFor returns the table schema of a record, if one exists.
func SchemaFor(processingType string, rt RecordType) (TableSchema, bool) {
	s, ok := tableSchemas[schemaKey{processingType: processingType, recordType: rt}]
	return s, ok
}

// TableClassifier classifies rows using the built-in table schemas.
// Rows without a schema are included.
type TableClassifier struct{}

// Classify implements Classifier.
func (TableClassifier) Classify(r *WasteRecord) Classification {
	processingType, _ := r.Data[FieldProcessingType].(string)

	schema, ok := SchemaFor(processingType, r.Type)
	if !ok {
		return Classification{Outcome: RowOutcomeIncluded}
	}

	return schema.Classify(r.Data)
}

// Classify validates row data against the schema.
func (s TableSchema) Classify(data map[string]any) Classification {
	var rejected []string

	for _, f := range s.NumericFields {
		v, present := data[f]
		if !present || isBlank(v) {
			continue
		}
		d, ok := ParseTonnage(v)
		if !ok {
			rejected = append(rejected, fmt.Sprintf("%s: not a number", f))
			continue
		}
		if d.IsNegative() {
			rejected = append(rejected, fmt.Sprintf("%s: must not be negative", f))
		}
	}

	for _, f := range s.YesNoFields {
		v, present := data[f]
		if !present || isBlank(v) {
			continue
		}
		str, _ := v.(string)
		if str != "Yes" && str != "No" {
			rejected = append(rejected, fmt.Sprintf("%s: must be Yes or No", f))
		}
	}

	if len(rejected) > 0 {
		return Classification{Outcome: RowOutcomeRejected, Issues: rejected}
	}

	var missing []string
	for _, f := range s.BalanceFields {
		if v, present := data[f]; !present || isBlank(v) {
			missing = append(missing, fmt.Sprintf("%s: missing", f))
		}
	}

	if len(missing) > 0 {
		return Classification{Outcome: RowOutcomeExcluded, Issues: missing}
	}

	return Classification{Outcome: RowOutcomeIncluded}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
