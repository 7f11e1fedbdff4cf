package lzma

import "testing"

func TestBufferWriteRead(t *testing.T) {
	var b buffer
	if err := initBuffer(&b, 10); err != nil {
		t.Fatalf("initBuffer error %s", err)
	}
	n, err := b.Write([]byte("abcdef"))
	if err != nil {
		t.Fatalf("Write error %s", err)
	}
	if n != 6 {
		t.Fatalf("Write returned %d; want %d", n, 6)
	}
	if b.Buffered() != 6 {
		t.Fatalf("Buffered() %d; want %d", b.Buffered(), 6)
	}
	p := make([]byte, 3)
	if n, _ = b.Read(p); n != 3 {
		t.Fatalf("Read returned %d; want %d", n, 3)
	}
	if string(p) != "abc" {
		t.Fatalf("Read got %q; want %q", p, "abc")
	}
	// wrap around the end of the data slice
	if n, err = b.Write([]byte("ghijklm")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if n != 7 {
		t.Fatalf("Write returned %d; want %d", n, 7)
	}
	q := make([]byte, 10)
	if n, _ = b.Read(q); n != 10 {
		t.Fatalf("Read returned %d; want %d", n, 10)
	}
	if string(q) != "defghijklm" {
		t.Fatalf("Read got %q; want %q", q, "defghijklm")
	}
}

func TestBufferNoSpace(t *testing.T) {
	var b buffer
	if err := initBuffer(&b, 4); err != nil {
		t.Fatalf("initBuffer error %s", err)
	}
	n, err := b.Write([]byte("abcdef"))
	if err != errNoSpace {
		t.Fatalf("Write error %v; want %v", err, errNoSpace)
	}
	if n != 4 {
		t.Fatalf("Write returned %d; want %d", n, 4)
	}
	if err = b.WriteByte('x'); err != errNoSpace {
		t.Fatalf("WriteByte error %v; want %v", err, errNoSpace)
	}
}

func TestBufferEqualBytes(t *testing.T) {
	var b buffer
	if err := initBuffer(&b, 16); err != nil {
		t.Fatalf("initBuffer error %s", err)
	}
	if _, err := b.Write([]byte("abcabcabd")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	tests := []struct {
		x, y, max int
		want      int
	}{
		// "abcab" vs "abcab" shifted by three
		{x: 9, y: 6, max: 9, want: 5},
		{x: 9, y: 6, max: 2, want: 2},
		{x: 9, y: 9, max: 9, want: 9},
		{x: 3, y: 6, max: 9, want: 2},
		{x: 0, y: 3, max: 9, want: 0},
	}
	for i, tc := range tests {
		g := b.EqualBytes(tc.x, tc.y, tc.max)
		if g != tc.want {
			t.Errorf("%d: EqualBytes(%d, %d, %d) got %d; want %d",
				i, tc.x, tc.y, tc.max, g, tc.want)
		}
	}
}

func TestInitBufferReuse(t *testing.T) {
	var b buffer
	if err := initBuffer(&b, 8); err != nil {
		t.Fatalf("initBuffer error %s", err)
	}
	if _, err := b.Write([]byte("12345")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	data := b.data
	if err := initBuffer(&b, 8); err != nil {
		t.Fatalf("initBuffer error %s", err)
	}
	if &b.data[0] != &data[0] {
		t.Fatalf("initBuffer didn't reuse the data slice")
	}
	if b.Buffered() != 0 {
		t.Fatalf("Buffered() %d after reinit; want 0", b.Buffered())
	}
}
