package bookzip

import (
	"bytes"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200))

	for _, algo := range []Algorithm{None, ZSTD, LZ4, Brotli} {
		compressed, err := Compress(algo, payload)
		if err != nil {
			t.Fatalf("algo %d: Compress: %v", algo, err)
		}
		out, err := Decompress(algo, compressed, uint64(len(payload)))
		if err != nil {
			t.Fatalf("algo %d: Decompress: %v", algo, err)
		}
		if !bytes.Equal(out, payload) {
			t.Fatalf("algo %d: round trip mismatch", algo)
		}
	}
}

func TestCompressShrinksRepetitiveInput(t *testing.T) {
	payload := []byte(strings.Repeat("a", 10_000))
	for _, algo := range []Algorithm{ZSTD, LZ4, Brotli} {
		compressed, err := Compress(algo, payload)
		if err != nil {
			t.Fatalf("algo %d: %v", algo, err)
		}
		if len(compressed) >= len(payload) {
			t.Fatalf("algo %d: expected compression to shrink repetitive input, got %d >= %d", algo, len(compressed), len(payload))
		}
	}
}

func TestDecompressRejectsOversizedClaim(t *testing.T) {
	payload := []byte("small payload")
	compressed, err := Compress(ZSTD, payload)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if _, err := Decompress(ZSTD, compressed, 1); err == nil {
		t.Fatalf("expected Decompress to reject a length exceeding maxUncompressed")
	}
}

func TestDecompressRejectsShortPayload(t *testing.T) {
	if _, err := Decompress(ZSTD, []byte{1, 2, 3}, 1<<20); err == nil {
		t.Fatalf("expected error for payload shorter than the length prefix")
	}
}

func TestNoneIsIdentity(t *testing.T) {
	payload := []byte("pass through untouched")
	compressed, err := Compress(None, payload)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !bytes.Equal(compressed, payload) {
		t.Fatalf("None algorithm should not alter the payload")
	}
	out, err := Decompress(None, compressed, uint64(len(payload)))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Fatalf("None algorithm round trip mismatch")
	}
}
