package testutil

import (
	"testing"

	check "gopkg.in/check.v1"

	"github.com/Schaudge/tabex/record"
)

func Test(t *testing.T) { check.TestingT(t) }

type TestutilSuite struct{}

var _ = check.Suite(&TestutilSuite{})

type fakeRecord struct {
	fields [][]byte
}

func (r *fakeRecord) Size() int { return len(r.fields) }
func (r *fakeRecord) WriteField(i int, w record.FieldWriter) error {
	return w(r.fields[i])
}

func (s *TestutilSuite) TestSnapshotEqual(c *check.C) {
	RegisterRecordComparator()

	a := &fakeRecord{fields: [][]byte{[]byte("x"), []byte("1")}}
	b := &fakeRecord{fields: [][]byte{[]byte("x"), []byte("1")}}

	sa, err := Snapshot(a)
	c.Assert(err, check.IsNil)
	sb, err := Snapshot(b)
	c.Assert(err, check.IsNil)

	c.Assert(sa.Equal(sb), check.Equals, true)
}

func (s *TestutilSuite) TestSnapshotNotEqual(c *check.C) {
	a := &fakeRecord{fields: [][]byte{[]byte("x")}}
	b := &fakeRecord{fields: [][]byte{[]byte("y")}}

	sa, err := Snapshot(a)
	c.Assert(err, check.IsNil)
	sb, err := Snapshot(b)
	c.Assert(err, check.IsNil)

	c.Assert(sa.Equal(sb), check.Equals, false)
}

func (s *TestutilSuite) TestDumpNotEmpty(c *check.C) {
	out := Dump(&fakeRecord{fields: [][]byte{[]byte("z")}})
	c.Assert(len(out) > 0, check.Equals, true)
}
