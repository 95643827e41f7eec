package errors

import "fmt"

// OutOfRange indicates that a record number falls outside the valid range of
// the stream. Record is the requested number, Count the number of data records
// the stream holds. Valid requests satisfy 1 <= Record <= Count.
type OutOfRange struct {
	Record int64
	Count  int64
}

func (o OutOfRange) Error() string {
	return fmt.Sprintf("record %d is out of range for a stream of %d records", o.Record, o.Count)
}

// MalformedStream indicates that the stream contents no longer agree with the
// offset index built during construction; either the stream ended before the
// requested record could be reached, or an index entry the lookup relies on is
// missing. Offset is the byte offset the failing read started from.
type MalformedStream struct {
	Record int64
	Offset int64
	Reason string
}

func (m MalformedStream) Error() string {
	return fmt.Sprintf("malformed stream while reading record %d (offset %d): %s", m.Record, m.Offset, m.Reason)
}

// FieldMismatch indicates that a record carries a different number of fields
// than the header. It is only returned by parsers operating in strict mode;
// the default parser truncates to the shorter side instead.
type FieldMismatch struct {
	HeaderFields int
	RecordFields int
}

func (f FieldMismatch) Error() string {
	return fmt.Sprintf("record has %d fields, header has %d", f.RecordFields, f.HeaderFields)
}

// NotCloneable indicates that Clone was called on a reader whose underlying
// stream does not support independent handles.
type NotCloneable struct{}

func (NotCloneable) Error() string {
	return "underlying stream does not support cloning"
}

// Closed indicates an operation on a reader after Close.
type Closed struct{}

func (Closed) Error() string {
	return "reader is closed"
}
