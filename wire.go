package amb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// AMB1 wire format, per §4.F and §6: a 6-byte fixed header, a directory of
// 20-byte entries, then the concatenated payloads in directory order.
// Read/write functions are paired the way logicossoftware-go-mdocx/wire.go
// pairs readFixedHeader/writeFixedHeader.

// ambMagic is the 4-byte AMB1 archive signature.
var ambMagic = [4]byte{'A', 'M', 'B', '1'}

const directoryEntrySize = 20
const nameFieldSize = 12

// directoryEntryV1 is one 20-byte AMB1 directory entry.
type directoryEntryV1 struct {
	Name     [nameFieldSize]byte
	Offset   uint32
	Length   uint16
	Checksum uint16
}

// writeDirectoryEntry serializes and writes a 20-byte directory entry to w.
func writeDirectoryEntry(w io.Writer, e directoryEntryV1) error {
	var buf [directoryEntrySize]byte
	copy(buf[0:12], e.Name[:])
	binary.LittleEndian.PutUint32(buf[12:16], e.Offset)
	binary.LittleEndian.PutUint16(buf[16:18], e.Length)
	binary.LittleEndian.PutUint16(buf[18:20], e.Checksum)
	_, err := w.Write(buf[:])
	return err
}

// readDirectoryEntry reads and parses a 20-byte directory entry from r.
func readDirectoryEntry(r io.Reader) (directoryEntryV1, error) {
	var buf [directoryEntrySize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return directoryEntryV1{}, err
	}
	var e directoryEntryV1
	copy(e.Name[:], buf[0:12])
	e.Offset = binary.LittleEndian.Uint32(buf[12:16])
	e.Length = binary.LittleEndian.Uint16(buf[16:18])
	e.Checksum = binary.LittleEndian.Uint16(buf[18:20])
	return e, nil
}

// nameFromField trims the trailing NUL padding from a directory entry's name field.
func nameFromField(field [nameFieldSize]byte) string {
	n := 0
	for n < len(field) && field[n] != 0 {
		n++
	}
	return string(field[:n])
}

// nameToField encodes name (already validated canonical uppercase, ASCII,
// <=12 bytes) as a NUL-padded 12-byte field.
func nameToField(name string) ([nameFieldSize]byte, error) {
	var field [nameFieldSize]byte
	encoded := asciiIgnore(name)
	if len(encoded) > nameFieldSize {
		return field, fmt.Errorf("%w: %q does not fit 8.3 constraints", ErrInvalidFilename, name)
	}
	copy(field[:], encoded)
	return field, nil
}

// asciiIgnore encodes s as ASCII, dropping any byte that isn't in [0,127],
// mirroring Python's str.encode("ascii", "ignore").
func asciiIgnore(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x80 {
			out = append(out, byte(r))
		}
	}
	return out
}

// bsdChecksum computes the 16-bit BSD checksum of data per §4.F: initial
// value 0, and for each byte, rotate right by 1 within a 16-bit word (low
// bit becomes bit 15), then add the byte modulo 2^16.
func bsdChecksum(data []byte) uint16 {
	var checksum uint16
	for _, b := range data {
		checksum = (checksum >> 1) | ((checksum & 1) << 15)
		checksum += uint16(b)
	}
	return checksum
}

// ParsedEntry is a decoded directory entry paired with its payload, used
// by ParseArchive to verify the testable properties in §8.
type ParsedEntry struct {
	Name     string
	Offset   uint32
	Length   uint16
	Checksum uint16
	Data     []byte
}

// ParseArchive decodes an AMB1 archive back into its directory entries and
// payloads, verifying the magic, the header-size/offset relationship, and
// every stored checksum against the payload bytes actually found.
func ParseArchive(data []byte) ([]ParsedEntry, error) {
	if len(data) < 6 {
		return nil, fmt.Errorf("amb: archive too short")
	}
	var magic [4]byte
	copy(magic[:], data[0:4])
	if magic != ambMagic {
		return nil, fmt.Errorf("amb: bad magic")
	}
	count := binary.LittleEndian.Uint16(data[4:6])

	dirStart := 6
	firstPayload := dirStart + int(count)*directoryEntrySize
	if len(data) < firstPayload {
		return nil, fmt.Errorf("amb: archive truncated in directory")
	}

	entries := make([]ParsedEntry, count)
	expectedOffset := firstPayload
	for i := 0; i < int(count); i++ {
		off := dirStart + i*directoryEntrySize
		e, err := readDirectoryEntry(bytes.NewReader(data[off : off+directoryEntrySize]))
		if err != nil {
			return nil, err
		}
		if int(e.Offset) != expectedOffset {
			return nil, fmt.Errorf("amb: entry %d offset %d, want %d", i, e.Offset, expectedOffset)
		}
		expectedOffset += int(e.Length)
		if int(e.Offset)+int(e.Length) > len(data) {
			return nil, fmt.Errorf("amb: entry %d payload out of range", i)
		}
		payload := data[e.Offset : int(e.Offset)+int(e.Length)]
		if bsdChecksum(payload) != e.Checksum {
			return nil, fmt.Errorf("amb: entry %d checksum mismatch", i)
		}
		entries[i] = ParsedEntry{
			Name:     nameFromField(e.Name),
			Offset:   e.Offset,
			Length:   e.Length,
			Checksum: e.Checksum,
			Data:     payload,
		}
	}
	return entries, nil
}
