package lzma

import (
	"testing"

	"github.com/kr/pretty"
)

func TestParamsRoundTrip(t *testing.T) {
	tests := []params{
		{props: Properties{3, 0, 2}, dictSize: 8 << 20, size: eosSize},
		{props: Properties{0, 0, 0}, dictSize: 1 << 12, size: 0},
		{props: Properties{1, 4, 4}, dictSize: 1 << 28, size: 123456},
	}
	for i, h := range tests {
		data := h.append(nil)
		if len(data) != headerLen {
			t.Fatalf("%d: header length %d; want %d",
				i, len(data), headerLen)
		}
		var g params
		if err := g.parse(data); err != nil {
			t.Fatalf("%d: parse error %s", i, err)
		}
		if g != h {
			diff := pretty.Diff(g, h)
			t.Fatalf("%d: headers differ: %v", i, diff)
		}
	}
}

func TestPropertiesByte(t *testing.T) {
	tests := []struct {
		p Properties
		b byte
	}{
		{Properties{3, 0, 2}, 0x5d},
		{Properties{0, 0, 0}, 0},
		{Properties{8, 4, 4}, 224},
	}
	for i, tc := range tests {
		if b := tc.p.byte(); b != tc.b {
			t.Errorf("%d: byte() got %#02x; want %#02x", i, b, tc.b)
		}
		var g Properties
		if err := g.fromByte(tc.b); err != nil {
			t.Fatalf("%d: fromByte(%#02x) error %s", i, tc.b, err)
		}
		if g != tc.p {
			t.Errorf("%d: fromByte(%#02x) got %v; want %v",
				i, tc.b, g, tc.p)
		}
	}
}

func TestPropertiesFromByteInvalid(t *testing.T) {
	var p Properties
	if err := p.fromByte(225); err != ErrCorrupt {
		t.Fatalf("fromByte(225) error %v; want %v", err, ErrCorrupt)
	}
}

func TestPropertiesVerify(t *testing.T) {
	tests := []struct {
		p  Properties
		ok bool
	}{
		{Properties{3, 0, 2}, true},
		{Properties{8, 4, 4}, true},
		{Properties{-1, 0, 0}, false},
		{Properties{9, 0, 0}, false},
		{Properties{0, 5, 0}, false},
		{Properties{0, 0, 5}, false},
	}
	for i, tc := range tests {
		err := tc.p.Verify()
		if (err == nil) != tc.ok {
			t.Errorf("%d: Verify() = %v; ok %t", i, err, tc.ok)
		}
	}
}

func TestVerifyDictSize(t *testing.T) {
	for _, size := range []int{MinDictSize, MaxDictSize, 1 << 20} {
		if err := verifyDictSize(size); err != nil {
			t.Errorf("verifyDictSize(%d) error %s", size, err)
		}
	}
	for _, size := range []int{0, MinDictSize - 1, MaxDictSize + 1, -1} {
		if err := verifyDictSize(size); err == nil {
			t.Errorf("verifyDictSize(%d) no error", size)
		}
	}
}
