// Package numbering implements the document number contract
// {TYPE}{YYYY}{MM}-{NNNNN}, e.g. PC202501-00001. Downstream modules parse
// numbers back into their components, so the format is bit-exact.
package numbering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
)

// SequenceDigits is the zero-padded width of the per-month sequence.
const SequenceDigits = 5

// Parts holds the components of a parsed document number.
type Parts struct {
	DocumentType domain.DocumentType
	Year         int
	Month        int
	Sequence     int
}

// Format renders a document number from its components.
func Format(docType domain.DocumentType, year, month, sequence int) string {
	return fmt.Sprintf("%s%04d%02d-%0*d", docType, year, month, SequenceDigits, sequence)
}

// Parse splits a document number back into its components. The prefix before
// the dash is {TYPE}{YYYY}{MM}; the type code is variable-width (PC..HDMH).
func Parse(number string) (Parts, error) {
	idx := strings.IndexByte(number, '-')
	if idx < 0 || idx != len(number)-SequenceDigits-1 {
		return Parts{}, fmt.Errorf("invalid document number %q", number)
	}
	prefix, seqStr := number[:idx], number[idx+1:]
	if len(prefix) < 7 { // at least 1 type char + YYYYMM
		return Parts{}, fmt.Errorf("invalid document number %q: prefix too short", number)
	}

	typeStr := prefix[:len(prefix)-6]
	year, err := strconv.Atoi(prefix[len(prefix)-6 : len(prefix)-2])
	if err != nil {
		return Parts{}, fmt.Errorf("invalid document number %q: bad year", number)
	}
	month, err := strconv.Atoi(prefix[len(prefix)-2:])
	if err != nil || month < 1 || month > 12 {
		return Parts{}, fmt.Errorf("invalid document number %q: bad month", number)
	}
	sequence, err := strconv.Atoi(seqStr)
	if err != nil || sequence < 1 {
		return Parts{}, fmt.Errorf("invalid document number %q: bad sequence", number)
	}

	docType := domain.DocumentType(typeStr)
	if !docType.Valid() {
		return Parts{}, fmt.Errorf("invalid document number %q: unknown type %q", number, typeStr)
	}

	return Parts{DocumentType: docType, Year: year, Month: month, Sequence: sequence}, nil
}
