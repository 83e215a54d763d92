package fasta

import (
	"testing"

	"github.com/Schaudge/tabex/rbuf"
)

func mustRecord(t *testing.T, r *Reader) *Record {
	t.Helper()
	rec, err := r.next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	return rec
}

func newReader(t *testing.T, data []byte) *Reader {
	t.Helper()
	rb := rbuf.FromSlice(data)
	r, err := New(rb)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestFastaReading(t *testing.T) {
	r := newReader(t, []byte(">id\nACGT\n>id2\nTGCA"))
	if got := r.Headers(); len(got) != 2 || got[0] != "id" || got[1] != "sequence" {
		t.Fatalf("Headers = %v", got)
	}

	rec := mustRecord(t, r)
	if string(rec.id) != "id" || string(rec.sequence) != "ACGT" {
		t.Fatalf("record 1 = %q/%q", rec.id, rec.sequence)
	}

	rec = mustRecord(t, r)
	if string(rec.id) != "id2" || string(rec.sequence) != "TGCA" {
		t.Fatalf("record 2 = %q/%q", rec.id, rec.sequence)
	}

	final, err := r.next()
	if err != nil || final != nil {
		t.Fatalf("expected clean end, got %v, %v", final, err)
	}
}

func TestFastaMultiline(t *testing.T) {
	r := newReader(t, []byte(">id\nACGT\nAAAA\n>id2\nTGCA"))

	rec := mustRecord(t, r)
	if string(rec.id) != "id" || string(rec.sequence) != "ACGTAAAA" {
		t.Fatalf("record 1 = %q/%q", rec.id, rec.sequence)
	}

	rec = mustRecord(t, r)
	if string(rec.id) != "id2" || string(rec.sequence) != "TGCA" {
		t.Fatalf("record 2 = %q/%q", rec.id, rec.sequence)
	}

	final, err := r.next()
	if err != nil || final != nil {
		t.Fatalf("expected clean end, got %v, %v", final, err)
	}
}

func TestFastaMultilineExtraNewlines(t *testing.T) {
	r := newReader(t, []byte(">id\r\nACGT\r\nAAAA\r\n>id2\r\nTGCA\r\n"))

	rec := mustRecord(t, r)
	if string(rec.id) != "id" || string(rec.sequence) != "ACGTAAAA" {
		t.Fatalf("record 1 = %q/%q", rec.id, rec.sequence)
	}

	rec = mustRecord(t, r)
	if string(rec.id) != "id2" || string(rec.sequence) != "TGCA" {
		t.Fatalf("record 2 = %q/%q", rec.id, rec.sequence)
	}

	final, err := r.next()
	if err != nil || final != nil {
		t.Fatalf("expected clean end, got %v, %v", final, err)
	}
}

func TestFastaEmptyFields(t *testing.T) {
	r := newReader(t, []byte(">hd\n\n>\n\n"))

	rec := mustRecord(t, r)
	if string(rec.id) != "hd" || string(rec.sequence) != "" {
		t.Fatalf("record 1 = %q/%q", rec.id, rec.sequence)
	}

	rec = mustRecord(t, r)
	if string(rec.id) != "" || string(rec.sequence) != "" {
		t.Fatalf("record 2 = %q/%q", rec.id, rec.sequence)
	}

	final, err := r.next()
	if err != nil || final != nil {
		t.Fatalf("expected clean end, got %v, %v", final, err)
	}
}

func TestFastaRejectsMissingCaret(t *testing.T) {
	r := newReader(t, []byte("id\nACGT"))
	if _, err := r.next(); err == nil {
		t.Fatal("expected an error for a record not starting with '>'")
	}
}

func TestFastaPoisonsAfterError(t *testing.T) {
	r := newReader(t, []byte("id\nACGT"))
	if _, err := r.Next(); err == nil {
		t.Fatal("expected first Next to fail")
	}
	if _, err := r.Next(); err == nil {
		t.Fatal("expected Next to keep returning the poisoned error")
	}
}

func TestFastaTabInID(t *testing.T) {
	r := newReader(t, []byte(">id\twith\ttabs\nACGT"))
	rec := mustRecord(t, r)
	var got []byte
	if err := rec.WriteField(0, func(b []byte) error {
		got = append(got, b...)
		return nil
	}); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if string(got) != "id|with|tabs" {
		t.Fatalf("got %q", got)
	}
}
