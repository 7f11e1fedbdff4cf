// Package lzma implements the LZMA and LZMA2 compressed data formats.
//
// The package supports the classic LZMA stream with its 13-byte header
// through Reader and Writer, the raw coder through the configuration
// structs, and the chunked LZMA2 format through Reader2 and Writer2. A
// single reader or writer owns its complete coder state (dictionary,
// probability model, rep distances); independent readers and writers can
// therefore be used concurrently, while a single instance must not.
//
// Streams produced by Writer and Writer2 are decodable by other
// implementations of the format family and vice versa.
package lzma
