package lzma

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/rand"
	"strings"
	"testing"
)

// testData returns a set of inputs exercising the interesting length
// boundaries around the maximum match length.
func testData() map[string][]byte {
	text := strings.Repeat(
		"The quick brown fox jumps over the lazy dog. ", 40)
	rnd := rand.New(rand.NewSource(13))
	random := make([]byte, 3000)
	for i := range random {
		random[i] = byte(rnd.Intn(256))
	}
	cycle := make([]byte, 1024)
	for i := range cycle {
		cycle[i] = byte(i)
	}
	return map[string][]byte{
		"seq256": cycle[:256],
		"empty":  nil,
		"one":    {'!'},
		"two":    {'a', 'b'},
		"len272": bytes.Repeat([]byte{'r'}, 272),
		"len273": bytes.Repeat([]byte{'r'}, 273),
		"len274": bytes.Repeat([]byte{'r'}, 274),
		"text":   []byte(text),
		"random": random,
		"cycle":  cycle,
	}
}

func compress(t *testing.T, c WriterConfig, p []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := c.NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter error %s", err)
	}
	if _, err = w.Write(p); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	return buf.Bytes()
}

func decompress(t *testing.T, p []byte) []byte {
	t.Helper()
	r, err := NewReader(bytes.NewReader(p))
	if err != nil {
		t.Fatalf("NewReader error %s", err)
	}
	q, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll error %s", err)
	}
	return q
}

func testRoundTrip(t *testing.T, c WriterConfig) {
	for name, data := range testData() {
		z := compress(t, c, data)
		q := decompress(t, z)
		if !bytes.Equal(q, data) {
			t.Errorf("%s: decompressed data differs from input",
				name)
		}
	}
}

func TestWriterReader(t *testing.T) {
	testRoundTrip(t, WriterConfig{})
}

func TestWriterReaderOptimal(t *testing.T) {
	testRoundTrip(t, WriterConfig{Optimal: true})
}

func TestWriterReaderProperties(t *testing.T) {
	for _, p := range []Properties{{0, 0, 0}, {1, 1, 1}, {4, 2, 3}} {
		p := p
		testRoundTrip(t, WriterConfig{Properties: &p})
	}
}

func TestWriterReaderSmallDict(t *testing.T) {
	rnd := rand.New(rand.NewSource(17))
	data := make([]byte, 20000)
	for i := range data {
		// compressible data with long-range repetition
		data[i] = byte(rnd.Intn(4))
	}
	c := WriterConfig{DictSize: MinDictSize}
	z := compress(t, c, data)
	if !bytes.Equal(decompress(t, z), data) {
		t.Fatal("decompressed data differs from input")
	}
}

func TestCompressionRatio(t *testing.T) {
	data := bytes.Repeat([]byte{'A'}, 300)
	z := compress(t, WriterConfig{}, data)
	if len(z) >= len(data) {
		t.Fatalf("compressed %d bytes into %d bytes",
			len(data), len(z))
	}
	if !bytes.Equal(decompress(t, z), data) {
		t.Fatal("decompressed data differs from input")
	}
}

func TestWriterDeterministic(t *testing.T) {
	data := []byte(strings.Repeat("abcdefgh", 500))
	for _, c := range []WriterConfig{{}, {Optimal: true}} {
		z1 := compress(t, c, data)
		z2 := compress(t, c, data)
		if !bytes.Equal(z1, z2) {
			t.Fatal("two runs produced different streams")
		}
	}
}

func TestSizeInHeader(t *testing.T) {
	data := []byte(strings.Repeat("size in header ", 100))
	c := WriterConfig{SizeInHeader: true, Size: int64(len(data))}
	z := compress(t, c, data)
	if binary.LittleEndian.Uint64(z[5:]) != uint64(len(data)) {
		t.Fatal("header doesn't contain the uncompressed size")
	}
	if !bytes.Equal(decompress(t, z), data) {
		t.Fatal("decompressed data differs from input")
	}
}

func TestWriterSizeLimit(t *testing.T) {
	var buf bytes.Buffer
	c := WriterConfig{SizeInHeader: true, Size: 5}
	w, err := c.NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter error %s", err)
	}
	n, err := w.Write([]byte("exceeds the limit"))
	if err == nil {
		t.Fatal("Write beyond the header size returned no error")
	}
	if n != 5 {
		t.Fatalf("Write consumed %d bytes; want 5", n)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
}

func TestWriterSizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	c := WriterConfig{SizeInHeader: true, Size: 10}
	w, err := c.NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter error %s", err)
	}
	if _, err = w.Write([]byte("short")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err = w.Close(); err == nil {
		t.Fatal("Close with missing data returned no error")
	}
}

func TestReaderUnexpectedEOS(t *testing.T) {
	data := []byte("stream cut short by a wrong header size")
	z := compress(t, WriterConfig{}, data)
	// announce one byte more than the stream contains
	binary.LittleEndian.PutUint64(z[5:], uint64(len(data))+1)
	r, err := NewReader(bytes.NewReader(z))
	if err != nil {
		t.Fatalf("NewReader error %s", err)
	}
	if _, err = io.ReadAll(r); err != ErrUnexpectedEOS {
		t.Fatalf("ReadAll error %v; want %v", err, ErrUnexpectedEOS)
	}
}

func TestReaderCorrupt(t *testing.T) {
	z := compress(t, WriterConfig{}, []byte("some corrupted data"))
	// the first byte of the range coder data must be zero
	z[headerLen] = 0xff
	if _, err := NewReader(bytes.NewReader(z)); err != ErrCorrupt {
		t.Fatalf("NewReader error %v; want %v", err, ErrCorrupt)
	}
}

func TestReaderTruncatedHeader(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0x5d, 0, 0}))
	if err != io.ErrUnexpectedEOF {
		t.Fatalf("NewReader error %v; want %v",
			err, io.ErrUnexpectedEOF)
	}
}

func TestReaderDictSizeLimit(t *testing.T) {
	z := compress(t, WriterConfig{}, []byte("abc"))
	c := ReaderConfig{DictSizeLimit: MinDictSize}
	if _, err := c.NewReader(bytes.NewReader(z)); err == nil {
		t.Fatal("NewReader accepts a dictionary exceeding the limit")
	}
}
