package lzma

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/pierrec/xxHash/xxHash32"
)

func compress2(t *testing.T, c Writer2Config, p []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := c.NewWriter2(&buf)
	if err != nil {
		t.Fatalf("NewWriter2 error %s", err)
	}
	if _, err = w.Write(p); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	return buf.Bytes()
}

func decompress2(t *testing.T, p []byte) []byte {
	t.Helper()
	r, err := NewReader2(bytes.NewReader(p))
	if err != nil {
		t.Fatalf("NewReader2 error %s", err)
	}
	q, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll error %s", err)
	}
	return q
}

func TestWriter2Reader2(t *testing.T) {
	for name, data := range testData() {
		z := compress2(t, Writer2Config{}, data)
		q := decompress2(t, z)
		if !bytes.Equal(q, data) {
			t.Errorf("%s: decompressed data differs from input",
				name)
		}
	}
}

func TestWriter2Reader2Optimal(t *testing.T) {
	data := []byte(strings.Repeat(
		"optimal parsing pays off on repetitive data; ", 2000))
	z := compress2(t, Writer2Config{Optimal: true}, data)
	if !bytes.Equal(decompress2(t, z), data) {
		t.Fatal("decompressed data differs from input")
	}
}

func TestWriter2Large(t *testing.T) {
	data := make([]byte, 1<<20)
	rnd := rand.New(rand.NewSource(5))
	for i := range data {
		// compressible data with long-range repetition
		data[i] = byte(rnd.Intn(8))
	}
	h := xxHash32.Checksum(data, 0)

	z := compress2(t, Writer2Config{}, data)
	if z[0]&0xe0 != byte(cCSPD) {
		t.Fatalf("stream starts with %#02x; want a compressed "+
			"chunk with dictionary reset", z[0])
	}
	if z[len(z)-1] != byte(cEOS) {
		t.Fatalf("stream ends with %#02x; want %#02x",
			z[len(z)-1], byte(cEOS))
	}
	if len(z) >= len(data) {
		t.Fatalf("compressed %d bytes into %d bytes",
			len(data), len(z))
	}

	q := decompress2(t, z)
	if g := xxHash32.Checksum(q, 0); g != h {
		t.Fatalf("decompressed data checksum %#08x; want %#08x", g, h)
	}
}

func TestWriter2ChunkSplit(t *testing.T) {
	// more than a single chunk can carry
	data := bytes.Repeat([]byte("0123456789abcdef"),
		(maxChunkULen+1)/16+1)
	h := xxHash32.Checksum(data, 0)
	z := compress2(t, Writer2Config{}, data)
	q := decompress2(t, z)
	if len(q) != len(data) {
		t.Fatalf("decompressed %d bytes; want %d", len(q), len(data))
	}
	if g := xxHash32.Checksum(q, 0); g != h {
		t.Fatalf("decompressed data checksum %#08x; want %#08x", g, h)
	}
}

func TestWriter2ChunkSizeBoundaries(t *testing.T) {
	for _, size := range []int{
		maxChunkULen - 1, maxChunkULen, maxChunkULen + 1,
	} {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i % 251)
		}
		h := xxHash32.Checksum(data, 0)
		z := compress2(t, Writer2Config{}, data)
		q := decompress2(t, z)
		if len(q) != size {
			t.Fatalf("size %d: decompressed %d bytes",
				size, len(q))
		}
		if g := xxHash32.Checksum(q, 0); g != h {
			t.Fatalf("size %d: decompressed data checksum "+
				"%#08x; want %#08x", size, g, h)
		}
	}
}

func TestWriter2ChunkSequence(t *testing.T) {
	data := make([]byte, 5<<20)
	rnd := rand.New(rand.NewSource(11))
	for i := range data {
		data[i] = byte(rnd.Intn(16))
	}
	z := compress2(t, Writer2Config{}, data)

	// walk the chunk headers without decompressing the payloads
	br := bytes.NewReader(z)
	cr := chunkReader{z: br, cstate: chunkStart}
	var chunks, total int
	for {
		var hdr chunkHeader
		if err := cr.readChunkHeader(&hdr); err != nil {
			t.Fatalf("chunk %d header error %s", chunks+1, err)
		}
		if hdr.ctrl == cEOS {
			break
		}
		chunks++
		if hdr.uncompressedLen > maxChunkULen {
			t.Fatalf("chunk %d carries %d uncompressed bytes; "+
				"limit is %d", chunks, hdr.uncompressedLen,
				maxChunkULen)
		}
		total += hdr.uncompressedLen
		skip := hdr.uncompressedLen
		if hdr.ctrl != cUD && hdr.ctrl != cU {
			if hdr.compressedLen > maxChunkLen {
				t.Fatalf("chunk %d carries %d compressed "+
					"bytes; limit is %d", chunks,
					hdr.compressedLen, maxChunkLen)
			}
			skip = hdr.compressedLen
		}
		if _, err := br.Seek(int64(skip), io.SeekCurrent); err != nil {
			t.Fatalf("Seek error %s", err)
		}
	}
	if chunks < 3 {
		t.Fatalf("stream has %d chunks; want at least 3", chunks)
	}
	if total != len(data) {
		t.Fatalf("chunks carry %d bytes; want %d", total, len(data))
	}
	if z[len(z)-1] != byte(cEOS) {
		t.Fatalf("stream ends with %#02x; want %#02x",
			z[len(z)-1], byte(cEOS))
	}
	if br.Len() != 0 {
		t.Fatalf("%d bytes after end of stream", br.Len())
	}
}

func TestWriter2Incompressible(t *testing.T) {
	data := make([]byte, 200000)
	rnd := rand.New(rand.NewSource(7))
	for i := range data {
		data[i] = byte(rnd.Intn(256))
	}
	z := compress2(t, Writer2Config{}, data)
	if z[0] != byte(cUD) {
		t.Fatalf("stream starts with %#02x; want an uncompressed "+
			"chunk with dictionary reset", z[0])
	}
	if !bytes.Equal(decompress2(t, z), data) {
		t.Fatal("decompressed data differs from input")
	}
}

func TestWriter2Flush(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter2(&buf)
	if err != nil {
		t.Fatalf("NewWriter2 error %s", err)
	}
	if _, err = w.Write([]byte("hello ")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err = w.Flush(); err != nil {
		t.Fatalf("Flush error %s", err)
	}
	k := buf.Len()
	if k == 0 {
		t.Fatal("Flush didn't write a chunk")
	}
	if _, err = w.Write([]byte("world")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	if buf.Len() <= k {
		t.Fatal("Close didn't write the second chunk")
	}
	if g := decompress2(t, buf.Bytes()); string(g) != "hello world" {
		t.Fatalf("decompressed %q; want %q", g, "hello world")
	}
	if _, err = w.Write([]byte("x")); err != errClosed {
		t.Fatalf("Write after Close error %v; want %v", err, errClosed)
	}
}

func TestWriter2Empty(t *testing.T) {
	z := compress2(t, Writer2Config{}, nil)
	if !bytes.Equal(z, []byte{byte(cEOS)}) {
		t.Fatalf("empty stream is %x; want 00", z)
	}
	r, err := NewReader2(bytes.NewReader(z))
	if err != nil {
		t.Fatalf("NewReader2 error %s", err)
	}
	var p [1]byte
	if _, err = r.Read(p[:]); err != io.EOF {
		t.Fatalf("Read error %v; want %v", err, io.EOF)
	}
}

func TestReader2MissingDictReset(t *testing.T) {
	// a first chunk without dictionary reset is invalid
	z := []byte{0x80, 0x00, 0x00, 0x00, 0x00}
	r, err := NewReader2(bytes.NewReader(z))
	if err != nil {
		t.Fatalf("NewReader2 error %s", err)
	}
	var p [16]byte
	if _, err = r.Read(p[:]); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Read error %v; want %v", err, ErrCorrupt)
	}
}

func TestReader2Truncated(t *testing.T) {
	data := []byte(strings.Repeat("truncation test data ", 500))
	z := compress2(t, Writer2Config{}, data)
	r, err := NewReader2(bytes.NewReader(z[:len(z)/2]))
	if err != nil {
		t.Fatalf("NewReader2 error %s", err)
	}
	if _, err = io.ReadAll(r); err != io.ErrUnexpectedEOF {
		t.Fatalf("ReadAll error %v; want %v",
			err, io.ErrUnexpectedEOF)
	}
}

func TestWriter2DebugLog(t *testing.T) {
	var logbuf bytes.Buffer
	debugOn(&logbuf)
	defer debugOff()
	data := []byte(strings.Repeat("debug logging ", 100))
	z := compress2(t, Writer2Config{}, data)
	decompress2(t, z)
	if logbuf.Len() == 0 {
		t.Fatal("no debug output written")
	}
}

func TestReader2DictSize(t *testing.T) {
	data := []byte(strings.Repeat("dictionary sizing ", 300))
	z := compress2(t, Writer2Config{DictSize: MinDictSize}, data)
	r, err := Reader2Config{DictSize: MinDictSize}.NewReader2(
		bytes.NewReader(z))
	if err != nil {
		t.Fatalf("NewReader2 error %s", err)
	}
	q, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll error %s", err)
	}
	if !bytes.Equal(q, data) {
		t.Fatal("decompressed data differs from input")
	}
}
