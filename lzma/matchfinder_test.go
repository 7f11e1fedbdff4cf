package lzma

import (
	"bytes"
	"testing"
)

func newTestEncoderDict(t *testing.T) *encoderDict {
	t.Helper()
	d := new(encoderDict)
	if err := initEncoderDict(d, 4096, 4096, 16); err != nil {
		t.Fatalf("initEncoderDict error %s", err)
	}
	return d
}

func TestMatchesPattern(t *testing.T) {
	d := newTestEncoderDict(t)
	if _, err := d.Write([]byte("abcabcabc")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	dists := d.Matches(3, nil)
	if len(dists) != 1 || dists[0] != 3 {
		t.Fatalf("Matches(3) returned %v; want [3]", dists)
	}
	// A word that occurs only once has no candidates behind it.
	if dists = d.Matches(1, nil); len(dists) != 0 {
		t.Fatalf("Matches(1) returned %v; want none", dists)
	}
}

func TestMatchesRun(t *testing.T) {
	d := newTestEncoderDict(t)
	if _, err := d.Write([]byte("aaaaaaaa")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	dists := d.Matches(4, nil)
	want := []int{1, 2, 3, 4}
	if len(dists) != len(want) {
		t.Fatalf("Matches(4) returned %v; want %v", dists, want)
	}
	for i, x := range want {
		if dists[i] != x {
			t.Fatalf("Matches(4) returned %v; want %v", dists, want)
		}
	}
}

func TestMatchesDepth(t *testing.T) {
	d := new(encoderDict)
	if err := initEncoderDict(d, 4096, 4096, 2); err != nil {
		t.Fatalf("initEncoderDict error %s", err)
	}
	if _, err := d.Write(bytes.Repeat([]byte{'x'}, 32)); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if dists := d.Matches(8, nil); len(dists) != 2 {
		t.Fatalf("Matches(8) returned %d candidates; want 2",
			len(dists))
	}
}

func TestEncoderDictByteAt(t *testing.T) {
	d := newTestEncoderDict(t)
	if _, err := d.Write([]byte("abcabcabd")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if c := d.ByteAt(0); c != 'a' {
		t.Errorf("ByteAt(0) = %c; want a", c)
	}
	if c := d.ByteAt(8); c != 'd' {
		t.Errorf("ByteAt(8) = %c; want d", c)
	}
	if c := d.ByteAt(9); c != 0 {
		t.Errorf("ByteAt(9) = %d; want 0", c)
	}
	if c := d.ByteAt(-1); c != 0 {
		t.Errorf("ByteAt(-1) = %d; want 0", c)
	}
	d.Advance(3)
	if c := d.ByteAt(-1); c != 'c' {
		t.Errorf("ByteAt(-1) after Advance = %c; want c", c)
	}
	if c := d.Literal(); c != 'a' {
		t.Errorf("Literal() after Advance = %c; want a", c)
	}
	if n := d.DictLen(); n != 3 {
		t.Errorf("DictLen() = %d; want 3", n)
	}
}

func TestEncoderDictMatchLen(t *testing.T) {
	d := newTestEncoderDict(t)
	if _, err := d.Write([]byte("abcabcabd")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if n := d.MatchLen(3, 3, 6); n != 5 {
		t.Errorf("MatchLen(3, 3, 6) = %d; want 5", n)
	}
	if n := d.MatchLen(3, 3, 2); n != 2 {
		t.Errorf("MatchLen(3, 3, 2) = %d; want 2", n)
	}
	// distance reaches in front of the start of the data
	if n := d.MatchLen(3, 4, 6); n != 0 {
		t.Errorf("MatchLen(3, 4, 6) = %d; want 0", n)
	}
}

func TestEncoderDictReset(t *testing.T) {
	d := newTestEncoderDict(t)
	if _, err := d.Write([]byte("abcabcabc")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	d.Advance(9)
	d.Reset()
	if d.Pos() != 0 || d.Buffered() != 0 || d.DictLen() != 0 {
		t.Fatalf("Reset left pos %d, buffered %d, dictLen %d",
			d.Pos(), d.Buffered(), d.DictLen())
	}
	if _, err := d.Write([]byte("xyzxyzxyz")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	dists := d.Matches(3, nil)
	if len(dists) != 1 || dists[0] != 3 {
		t.Fatalf("Matches(3) after Reset returned %v; want [3]", dists)
	}
}
