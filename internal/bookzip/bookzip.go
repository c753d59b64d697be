// Package bookzip implements the compressor dispatch for the embedded
// source bundle supplement (see SPEC_FULL.md's "Embedded source bundle"
// supplemented feature). It is retargeted almost directly from
// logicossoftware-go-mdocx/compress.go: the same three-algorithm
// dispatch, the same "8-byte uncompressed length prefix then compressed
// bytes" payload framing, and the same decompression-bomb guard via
// io.LimitReader.
package bookzip

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm identifies a compressor for the embedded source payload.
type Algorithm uint8

// Algorithm constants. Mirrors mdocx's Compression enum, minus ZIP (see
// DESIGN.md for why the ZIP path was not carried over).
const (
	None Algorithm = 0
	ZSTD Algorithm = 1
	LZ4  Algorithm = 2
	Brotli Algorithm = 3
)

// Compress compresses in with algo, returning a payload framed with an
// 8-byte little-endian uncompressed-length prefix (omitted for None).
func Compress(algo Algorithm, in []byte) ([]byte, error) {
	if algo == None {
		return in, nil
	}
	var compressed []byte
	var err error
	switch algo {
	case ZSTD:
		compressed, err = zstdCompress(in)
	case LZ4:
		compressed, err = lz4Compress(in)
	case Brotli:
		compressed, err = brotliCompress(in)
	default:
		return nil, fmt.Errorf("bookzip: unknown algorithm %d", algo)
	}
	if err != nil {
		return nil, err
	}
	var prefix [8]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(len(in)))
	return append(prefix[:], compressed...), nil
}

// Decompress reverses Compress, enforcing maxUncompressed to guard
// against decompression bombs.
func Decompress(algo Algorithm, payload []byte, maxUncompressed uint64) ([]byte, error) {
	if algo == None {
		return payload, nil
	}
	if len(payload) < 8 {
		return nil, fmt.Errorf("bookzip: payload too short for length prefix")
	}
	uncompressedLen := binary.LittleEndian.Uint64(payload[:8])
	if uncompressedLen > maxUncompressed {
		return nil, fmt.Errorf("bookzip: uncompressed length %d exceeds limit", uncompressedLen)
	}
	body := payload[8:]

	var out []byte
	var err error
	switch algo {
	case ZSTD:
		out, err = zstdDecompress(body, uncompressedLen)
	case LZ4:
		out, err = lz4Decompress(body, uncompressedLen)
	case Brotli:
		out, err = brotliDecompress(body, uncompressedLen)
	default:
		return nil, fmt.Errorf("bookzip: unknown algorithm %d", algo)
	}
	if err != nil {
		return nil, err
	}
	if uint64(len(out)) != uncompressedLen {
		return nil, fmt.Errorf("bookzip: decompressed length %d != expected %d", len(out), uncompressedLen)
	}
	return out, nil
}

func zstdCompress(in []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(in, nil), nil
}

func zstdDecompress(in []byte, expected uint64) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(in, nil)
	if err != nil {
		return nil, err
	}
	if uint64(len(out)) > expected {
		return nil, fmt.Errorf("bookzip: zstd expanded beyond expected size")
	}
	return out, nil
}

func lz4Compress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(in); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lz4Decompress(in []byte, expected uint64) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(in))
	b, err := io.ReadAll(io.LimitReader(r, int64(expected)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(b)) > expected {
		return nil, fmt.Errorf("bookzip: lz4 expanded beyond expected size")
	}
	return b, nil
}

func brotliCompress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	if _, err := bw.Write(in); err != nil {
		_ = bw.Close()
		return nil, err
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func brotliDecompress(in []byte, expected uint64) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(in))
	b, err := io.ReadAll(io.LimitReader(r, int64(expected)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(b)) > expected {
		return nil, fmt.Errorf("bookzip: brotli expanded beyond expected size")
	}
	return b, nil
}
