package csvreader

import (
	"strings"

	"github.com/amoshochman/constant-time-csv-reader/errors"
)

// Record is a single data record keyed by the header's field names.
type Record map[string]string

// Parser converts raw lines into Records. Implementations decide how a line
// splits into fields; the library never interprets line contents itself.
type Parser interface {
	// Fields splits a raw line into its fields.
	Fields(line string) []string

	// Parse combines a raw header line and a raw record line into a Record.
	Parse(headerLine, recordLine string) (Record, error)
}

// SeparatorParser is the default Parser. It splits lines on Separator and
// trims surrounding whitespace from every field. When a record carries a
// different number of fields than the header, the longer side is truncated;
// setting StrictFieldCount turns the mismatch into an error instead.
type SeparatorParser struct {
	// Separator is the field separator. Defaults to a comma when empty.
	Separator string

	// StrictFieldCount makes Parse fail with errors.FieldMismatch when a
	// record's field count differs from the header's.
	StrictFieldCount bool
}

func (s SeparatorParser) separator() string {
	if s.Separator == "" {
		return ","
	}
	return s.Separator
}

func (s SeparatorParser) Fields(line string) []string {
	parts := strings.Split(line, s.separator())
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

func (s SeparatorParser) Parse(headerLine, recordLine string) (Record, error) {
	header := s.Fields(headerLine)
	values := s.Fields(recordLine)
	if s.StrictFieldCount && len(header) != len(values) {
		return nil, errors.FieldMismatch{HeaderFields: len(header), RecordFields: len(values)}
	}
	rec := make(Record, len(header))
	for i, key := range header {
		if i >= len(values) {
			break
		}
		rec[key] = values[i]
	}
	return rec, nil
}
