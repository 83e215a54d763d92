// Package record defines the polymorphic capability set every tabex
// format implements: a stable header row, a pull-based next-record
// step, and a per-field streaming writer. The driver code (cmd/tabex,
// or any other caller) never needs a format-specific type switch; it
// only ever talks to Reader and Record.
package record

// FieldWriter receives one field's raw bytes at a time, so a record can
// be streamed out without an intermediate allocation per field.
type FieldWriter func([]byte) error

// Record is a single decoded row. It is transient: unless documented
// otherwise by the producing Reader, a Record may borrow byte slices
// from that Reader's buffer and is only valid until the next call to
// Next.
type Record interface {
	// Size returns the number of fields in this record. It always
	// equals len(Reader.Headers()).
	Size() int
	// WriteField streams field i (0 <= i < Size()) through w.
	WriteField(i int, w FieldWriter) error
}

// Reader is implemented by every format's record producer.
type Reader interface {
	// Headers returns the ordered column names. Stable for the
	// lifetime of the Reader.
	Headers() []string
	// Next returns the next record, or (nil, nil) on a clean end of
	// stream, or a non-nil error. Once Next has returned (nil, nil) or
	// an error, every subsequent call must return the same outcome
	// (poisoned state) rather than resuming.
	Next() (Record, error)
}
