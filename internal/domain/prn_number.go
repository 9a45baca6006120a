package domain

import (
	"fmt"
	"strings"
)

const (
	// PrnNumberRandomDigits is the count of random digits after the year.
	PrnNumberRandomDigits = 5
	prnRandomModulus      = 100000
)

var agencyCodes = map[Regulator]string{
	RegulatorEA:   "E",
	RegulatorNIEA: "N",
	RegulatorSEPA: "S",
	RegulatorNRW:  "W",
}

// PrnCollisionSuffixes are appended in order when a number is already taken.
var PrnCollisionSuffixes = strings.Split("ABCDEFGHIJKLMNOPQRSTUVWXYZ", "")

// FormatPrnNumber builds a note number: agency code, operator code
// (R reprocessor, X exporter), two-digit year and five digits.
func FormatPrnNumber(regulator Regulator, isExport bool, year, random int) (string, error) {
	agency, ok := agencyCodes[Regulator(strings.ToUpper(string(regulator)))]
	if !ok {
		return "", fmt.Errorf("%w: unknown regulator %q", ErrValidation, regulator)
	}

	operator := "R"
	if isExport {
		operator = "X"
	}

	return fmt.Sprintf("%s%s%02d%05d", agency, operator, year%100, random%prnRandomModulus), nil
}
