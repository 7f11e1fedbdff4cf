package lzma

import (
	"bytes"
	"testing"

	"github.com/kr/pretty"
)

func TestChunkHeaderRoundTrip(t *testing.T) {
	tests := []struct {
		hdr    chunkHeader
		cstate chunkState
		n      int
	}{
		{chunkHeader{ctrl: cEOS}, chunkStart, 1},
		{chunkHeader{ctrl: cUD, uncompressedLen: 1}, chunkStart, 3},
		{chunkHeader{ctrl: cU, uncompressedLen: maxChunkLen}, chunkS1, 3},
		{chunkHeader{ctrl: cC, uncompressedLen: 100000,
			compressedLen: 4096}, chunkS2, 5},
		{chunkHeader{ctrl: cCS, uncompressedLen: maxChunkULen,
			compressedLen: maxChunkLen}, chunkS2, 5},
		{chunkHeader{ctrl: cCSP, uncompressedLen: 5000,
			compressedLen: 1000,
			props:         Properties{3, 0, 2}}, chunkS1, 6},
		{chunkHeader{ctrl: cCSPD, uncompressedLen: 1,
			compressedLen: 1,
			props:         Properties{4, 2, 3}}, chunkStart, 6},
	}
	for i, tc := range tests {
		q, err := tc.hdr.append(nil)
		if err != nil {
			t.Fatalf("%d: append error %s", i, err)
		}
		if len(q) != tc.n {
			t.Fatalf("%d: append returned %d bytes; want %d",
				i, len(q), tc.n)
		}
		cr := chunkReader{z: bytes.NewReader(q), cstate: tc.cstate}
		var g chunkHeader
		if err = cr.readChunkHeader(&g); err != nil {
			t.Fatalf("%d: readChunkHeader error %s", i, err)
		}
		if g != tc.hdr {
			t.Fatalf("%d: headers differ: %v", i,
				pretty.Diff(g, tc.hdr))
		}
	}
}

func TestChunkHeaderAppendErrors(t *testing.T) {
	tests := []chunkHeader{
		{ctrl: cU, uncompressedLen: 0},
		{ctrl: cUD, uncompressedLen: maxChunkLen + 1},
		{ctrl: cC, uncompressedLen: maxChunkULen + 1, compressedLen: 1},
		{ctrl: cC, uncompressedLen: 1, compressedLen: maxChunkLen + 1},
		{ctrl: cC, uncompressedLen: 1, compressedLen: 0},
		{ctrl: chunkControl(0x03)},
	}
	for i, hdr := range tests {
		if _, err := hdr.append(nil); err == nil {
			t.Errorf("%d: append(%+v) returned no error", i, hdr)
		}
	}
}

func TestChunkAutomaton(t *testing.T) {
	// The first chunk must reset the dictionary.
	for _, c := range []chunkControl{cU, cC, cCS, cCSP} {
		if _, err := chunkStart(c); err == nil {
			t.Errorf("chunkStart accepts %#02x", byte(c))
		}
	}
	for _, c := range []chunkControl{cEOS, cUD, cCSPD} {
		if _, err := chunkStart(c); err != nil {
			t.Errorf("chunkStart(%#02x) error %s", byte(c), err)
		}
	}
	// After an uncompressed chunk the coder state must be reset.
	for _, c := range []chunkControl{cC, cCS} {
		if _, err := chunkS1(c); err == nil {
			t.Errorf("chunkS1 accepts %#02x", byte(c))
		}
	}
	// No chunks after the end of the stream.
	if _, err := chunkFinal(cEOS); err == nil {
		t.Error("chunkFinal accepts another chunk")
	}
}
