package dispatch

import (
	"testing"

	"github.com/Schaudge/tabex/rbuf"
)

func TestDetectFasta(t *testing.T) {
	rb := rbuf.FromSlice([]byte(">id\nACGT\n"))
	tag, err := Detect(rb)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if tag != TagFASTA {
		t.Fatalf("tag = %v, want TagFASTA", tag)
	}
}

func TestDetectInficon(t *testing.T) {
	data := append([]byte{0x04, 0x03, 0x02, 0x01, 'S', 'P', 'A', 'H', 'B'}, make([]byte, 8)...)
	rb := rbuf.FromSlice(data)
	tag, err := Detect(rb)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if tag != TagInficon {
		t.Fatalf("tag = %v, want TagInficon", tag)
	}
}

func TestDetectUnknown(t *testing.T) {
	rb := rbuf.FromSlice([]byte("not a recognized format"))
	_, err := Detect(rb)
	if err == nil {
		t.Fatal("expected an error for unrecognized input")
	}
}

func TestDetectEmpty(t *testing.T) {
	rb := rbuf.FromSlice(nil)
	_, err := Detect(rb)
	if err == nil {
		t.Fatal("expected an error for empty input")
	}
}

func TestTagString(t *testing.T) {
	cases := map[Tag]string{
		TagFASTA:          "fasta",
		TagChemstationFID: "chemstation-fid",
		TagInficon:        "inficon",
		TagUnknown:        "unknown",
	}
	for tag, want := range cases {
		if got := tag.String(); got != want {
			t.Fatalf("%v.String() = %q, want %q", tag, got, want)
		}
	}
}
