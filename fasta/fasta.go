// Package fasta implements the FASTA sequence format as a tabex
// record.Reader: each record is an ('>'-prefixed) id line followed by a
// sequence that may itself span multiple lines.
package fasta

import (
	"bytes"
	"strings"

	"github.com/Schaudge/tabex/rbuf"
	"github.com/Schaudge/tabex/record"
	"github.com/Schaudge/tabex/tabexerr"
)

var headers = []string{"id", "sequence"}

// Reader decodes FASTA records from an rbuf.Buffer. It carries no state
// of its own beyond the buffer: every record is self-delimiting.
type Reader struct {
	rb     *rbuf.Buffer
	done   bool
	poison error
}

// New wraps rb as a FASTA reader.
func New(rb *rbuf.Buffer) (*Reader, error) {
	return &Reader{rb: rb}, nil
}

// Headers returns {"id", "sequence"}.
func (r *Reader) Headers() []string { return headers }

// Record is a single FASTA entry. Sequence borrows directly from the
// buffer when it had no interior newlines to strip; otherwise it owns a
// materialized concatenation.
type Record struct {
	id       []byte
	sequence []byte
}

// Size returns 2: id, sequence.
func (rec *Record) Size() int { return 2 }

// WriteField streams field i; tabs in the id are rewritten to '|' so a
// whitespace-bearing id can't break TSV framing.
func (rec *Record) WriteField(i int, w record.FieldWriter) error {
	switch i {
	case 0:
		if !bytes.ContainsRune(rec.id, '\t') {
			return w(rec.id)
		}
		return w([]byte(strings.ReplaceAll(string(rec.id), "\t", "|")))
	case 1:
		return w(rec.sequence)
	default:
		panic("fasta: field index out of range")
	}
}

// Next returns the next FASTA record, or (nil, nil) at a clean end of
// stream.
func (r *Reader) Next() (record.Record, error) {
	if r.poison != nil {
		return nil, r.poison
	}
	if r.done {
		return nil, nil
	}

	rec, err := r.next()
	if err != nil {
		r.poison = err
		return nil, err
	}
	if rec == nil {
		r.done = true
	}
	return rec, nil
}

func (r *Reader) next() (*Record, error) {
	if r.rb.IsEmpty() {
		return nil, nil
	}

	if r.rb.Bytes()[0] != '>' {
		return nil, tabexerr.New("Valid FASTA records start with '>'").AddContext(r.rb)
	}

	var seqNewlines []int
	var headerEnd, seqStart, seqEnd, recEnd int

	for {
		buf := r.rb.Bytes()
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			if r.rb.EOF() {
				return nil, tabexerr.New("Incomplete record").AddContext(r.rb)
			}
			if err := r.rb.Refill(); err != nil {
				return nil, err
			}
			continue
		}
		if idx > 0 && buf[idx-1] == '\r' {
			headerEnd, seqStart = idx-1, idx+1
		} else {
			headerEnd, seqStart = idx, idx+1
		}

		foundEnd := false
		seqNewlines = seqNewlines[:0]
		for _, raw := range newlineOffsets(buf[seqStart:]) {
			pos := seqStart + raw
			if pos > 0 && buf[pos-1] == '\r' {
				seqNewlines = append(seqNewlines, raw-1)
			}
			seqNewlines = append(seqNewlines, raw)
			if pos+1 < len(buf) && buf[pos+1] == '>' {
				foundEnd = true
				break
			}
		}
		if !foundEnd && !r.rb.EOF() {
			if err := r.rb.Refill(); err != nil {
				return nil, err
			}
			continue
		}

		if foundEnd {
			endpos := seqNewlines[len(seqNewlines)-1]
			seqNewlines = seqNewlines[:len(seqNewlines)-1]
			recEnd = seqStart + endpos + 1
			for endpos > 0 && len(seqNewlines) > 0 && seqNewlines[len(seqNewlines)-1] == endpos-1 {
				endpos = seqNewlines[len(seqNewlines)-1]
				seqNewlines = seqNewlines[:len(seqNewlines)-1]
			}
			seqEnd = seqStart + endpos
		} else {
			// At eof with no following '>': the record runs to the end
			// of the buffered window.
			seqEnd = len(buf)
			recEnd = len(buf)
		}
		break
	}

	consumed := r.rb.Consume(recEnd)
	header := consumed[1:headerEnd]
	rawSeq := consumed[seqStart:seqEnd]

	var sequence []byte
	if len(seqNewlines) == 0 {
		sequence = rawSeq
	} else {
		out := make([]byte, 0, len(rawSeq)-len(seqNewlines))
		start := 0
		for _, pos := range seqNewlines {
			out = append(out, rawSeq[start:pos]...)
			start = pos + 1
		}
		out = append(out, rawSeq[start:]...)
		sequence = out
	}

	return &Record{id: header, sequence: sequence}, nil
}

// newlineOffsets returns the offsets of every '\n' in b, in order.
func newlineOffsets(b []byte) []int {
	var out []int
	start := 0
	for {
		idx := bytes.IndexByte(b[start:], '\n')
		if idx < 0 {
			return out
		}
		out = append(out, start+idx)
		start += idx + 1
	}
}
