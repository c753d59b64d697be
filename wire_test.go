package amb

import (
	"bytes"
	"testing"
)

func TestDirectoryEntryRoundTrip(t *testing.T) {
	e := directoryEntryV1{Offset: 1234, Length: 56, Checksum: 789}
	copy(e.Name[:], "FOO.AMA")

	var buf bytes.Buffer
	if err := writeDirectoryEntry(&buf, e); err != nil {
		t.Fatalf("writeDirectoryEntry: %v", err)
	}
	if buf.Len() != directoryEntrySize {
		t.Fatalf("expected %d bytes, got %d", directoryEntrySize, buf.Len())
	}

	got, err := readDirectoryEntry(&buf)
	if err != nil {
		t.Fatalf("readDirectoryEntry: %v", err)
	}
	if got != e {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, e)
	}
}

func TestNameFieldRoundTrip(t *testing.T) {
	field, err := nameToField("INDEX.AMA")
	if err != nil {
		t.Fatalf("nameToField: %v", err)
	}
	if got := nameFromField(field); got != "INDEX.AMA" {
		t.Fatalf("nameFromField() = %q, want INDEX.AMA", got)
	}
}

func TestNameToFieldRejectsOverlong(t *testing.T) {
	if _, err := nameToField("WAYTOOLONGNAME.AMA"); err == nil {
		t.Fatal("expected an error for a name exceeding the 12-byte field")
	}
}

func TestBSDChecksumKnownValue(t *testing.T) {
	if bsdChecksum(nil) != 0 {
		t.Fatalf("expected checksum 0 for empty input")
	}
	// 'a' (97) -> 97; rotate 97 right to 0x8030, add 'b' (98) -> 0x8092.
	if got := bsdChecksum([]byte("ab")); got != 0x8092 {
		t.Fatalf("bsdChecksum(\"ab\") = 0x%04X, want 0x8092", got)
	}
	a := bsdChecksum([]byte("hello world"))
	b := bsdChecksum([]byte("hello world"))
	if a != b {
		t.Fatalf("expected checksum to be deterministic")
	}
	if a == bsdChecksum([]byte("hello worle")) {
		t.Fatalf("expected different input to produce a different checksum")
	}
}

func TestParseArchiveRoundTrip(t *testing.T) {
	files := []ArchiveFile{
		{Name: "INDEX.AMA", Data: []byte("hello\n")},
		{Name: "OTHER.AMA", Data: []byte("world\n")},
	}
	archive, err := packArchive(files)
	if err != nil {
		t.Fatalf("packArchive: %v", err)
	}
	entries, err := ParseArchive(archive)
	if err != nil {
		t.Fatalf("ParseArchive: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "INDEX.AMA" || string(entries[0].Data) != "hello\n" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Name != "OTHER.AMA" || string(entries[1].Data) != "world\n" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestParseArchiveRejectsBadMagic(t *testing.T) {
	if _, err := ParseArchive([]byte("XXXX\x00\x00")); err == nil {
		t.Fatal("expected an error for bad magic")
	}
}

func TestParseArchiveRejectsCorruptChecksum(t *testing.T) {
	files := []ArchiveFile{{Name: "INDEX.AMA", Data: []byte("hello\n")}}
	archive, err := packArchive(files)
	if err != nil {
		t.Fatalf("packArchive: %v", err)
	}
	archive[len(archive)-1] ^= 0xFF
	if _, err := ParseArchive(archive); err == nil {
		t.Fatal("expected a checksum mismatch error")
	}
}
