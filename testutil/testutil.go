// Package testutil registers cross-package comparators for tabex's test
// suites and provides a go-spew-backed dump helper for mismatch
// diagnostics.
package testutil

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/grailbio/testutil/h"

	"github.com/Schaudge/tabex/record"
)

var once sync.Once

// RegisterRecordComparator adds a github.com/grailbio/testutil/h
// comparator for Fields, tabex's field-by-field snapshot of a
// record.Record. This function is threadsafe and idempotent.
func RegisterRecordComparator() {
	once.Do(func() {
		h.RegisterComparator(func(f0, f1 Fields) (int, error) {
			if f0.Equal(f1) {
				return 0, nil
			}
			return 1, nil
		})
	})
}

// Fields is a materialized, comparable snapshot of a record.Record: its
// field bytes captured in order. record.Record itself is transient and
// often borrows buffer memory, so tests compare snapshots rather than
// live records.
type Fields [][]byte

// Snapshot captures every field of rec via WriteField.
func Snapshot(rec record.Record) (Fields, error) {
	out := make(Fields, rec.Size())
	for i := range out {
		var captured []byte
		err := rec.WriteField(i, func(b []byte) error {
			captured = append([]byte(nil), b...)
			return nil
		})
		if err != nil {
			return nil, err
		}
		out[i] = captured
	}
	return out, nil
}

// Equal reports whether two field snapshots hold byte-identical fields.
func (f Fields) Equal(other Fields) bool {
	if len(f) != len(other) {
		return false
	}
	for i := range f {
		if !bytes.Equal(f[i], other[i]) {
			return false
		}
	}
	return true
}

// Dump renders v the way a failing gocheck assertion should: full field
// depth, pointer addresses and types included.
func Dump(v interface{}) string {
	return spew.Sdump(v)
}

// ReadAll drains every record from rd, snapshotting each one, and fails
// fast on the first error.
func ReadAll(rd record.Reader) ([]Fields, error) {
	var out []Fields
	for {
		rec, err := rd.Next()
		if err != nil {
			return out, err
		}
		if rec == nil {
			return out, nil
		}
		snap, err := Snapshot(rec)
		if err != nil {
			return out, fmt.Errorf("testutil: snapshot: %w", err)
		}
		out = append(out, snap)
	}
}
