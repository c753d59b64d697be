package amb

import (
	"fmt"
	"sort"
)

// Component F: archive packer. Computes offsets, checksums, and writes
// the AMB1 header and directory, per §4.F. Orders files TITLE (optional),
// INDEX.AMA, the remaining AMA files ascending by name, UNICODE.MAP
// (when any payload byte is >=0x80), DICT.IDX (when §4.E's two-pass
// fixed point, run by BuildBook with archiveOffsets below, succeeds and
// produces a non-empty index).

const maxTitleBytes = 64

// encodeAMAPayload implements §4.F's per-article AMA encoding discipline:
// reject tabs, join with "\n", right-strip trailing newlines, append a
// single final newline, then encode through cp.
func encodeAMAPayload(name string, lines []string, cp *CodepageInfo) ([]byte, error) {
	for _, line := range lines {
		if containsTab(line) {
			return nil, fmt.Errorf("%w: %s", ErrTabInArticle, name)
		}
	}
	content := joinRStripNewlineAppend(lines)
	data, err := cp.Encode(content)
	if err != nil {
		return nil, fmt.Errorf("%w: article %s", err, name)
	}
	if len(data) > amaMaxBytes {
		return nil, fmt.Errorf("%w: article %s is %d bytes", ErrArticleTooLarge, name, len(data))
	}
	return data, nil
}

func containsTab(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\t' {
			return true
		}
	}
	return false
}

// buildArchiveFiles implements §4.F's file ordering and TITLE handling.
// amaContents must already contain "INDEX.AMA"; dictIDX may be nil.
func buildArchiveFiles(amaContents map[string][]byte, title string, unicodeMap []byte, dictIDX []byte) ([]ArchiveFile, error) {
	var files []ArchiveFile

	if title != "" {
		titleBytes := asciiIgnore(title)
		if len(titleBytes) > maxTitleBytes {
			titleBytes = titleBytes[:maxTitleBytes]
		}
		files = append(files, ArchiveFile{Name: "TITLE", Data: titleBytes})
	}

	indexData, ok := amaContents["INDEX.AMA"]
	if !ok {
		return nil, fmt.Errorf("amb: missing INDEX.AMA")
	}
	files = append(files, ArchiveFile{Name: "INDEX.AMA", Data: indexData})

	names := make([]string, 0, len(amaContents))
	for name := range amaContents {
		if name == "INDEX.AMA" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		files = append(files, ArchiveFile{Name: name, Data: amaContents[name]})
	}

	if unicodeMap != nil {
		files = append(files, ArchiveFile{Name: "UNICODE.MAP", Data: unicodeMap})
	}
	if len(dictIDX) > 0 {
		files = append(files, ArchiveFile{Name: "DICT.IDX", Data: dictIDX})
	}

	return files, nil
}

// anyHighBit reports whether any AMA payload (TITLE is excluded, per
// §9's open-question resolution) contains a byte >=0x80.
func anyHighBit(amaContents map[string][]byte) bool {
	for _, data := range amaContents {
		for _, b := range data {
			if b >= 0x80 {
				return true
			}
		}
	}
	return false
}

// packArchive computes directory offsets and checksums for files (already
// in final archive order) and serializes the complete AMB1 byte stream.
func packArchive(files []ArchiveFile) ([]byte, error) {
	entryCount := len(files)
	offset := 6 + directoryEntrySize*entryCount

	type entry struct {
		field    [nameFieldSize]byte
		offset   uint32
		length   uint16
		checksum uint16
	}
	entries := make([]entry, entryCount)
	for i, f := range files {
		canonical := canonicalUpper(f.Name)
		field, err := nameToField(canonical)
		if err != nil {
			return nil, err
		}
		if len(f.Data) > 0xFFFF {
			return nil, fmt.Errorf("%w: %s payload exceeds 65535 bytes", ErrArticleTooLarge, canonical)
		}
		entries[i] = entry{
			field:    field,
			offset:   uint32(offset),
			length:   uint16(len(f.Data)),
			checksum: bsdChecksum(f.Data),
		}
		offset += len(f.Data)
	}

	out := make([]byte, 0, offset)
	out = append(out, ambMagic[:]...)
	out = append(out, byte(entryCount), byte(entryCount>>8))

	for _, e := range entries {
		out = append(out, e.field[:]...)
		out = append(out, byte(e.offset), byte(e.offset>>8), byte(e.offset>>16), byte(e.offset>>24))
		out = append(out, byte(e.length), byte(e.length>>8))
		out = append(out, byte(e.checksum), byte(e.checksum>>8))
	}
	for _, f := range files {
		out = append(out, f.Data...)
	}
	return out, nil
}

func canonicalUpper(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// archiveOffsets computes each file's archive offset for a given ordered
// file list, without re-encoding payloads. Used by §4.E's two-pass
// fixed point to compute AMA offsets before DICT.IDX exists (pass 1) and
// again once its size is known (pass 2).
func archiveOffsets(files []ArchiveFile) map[string]uint32 {
	offsets := make(map[string]uint32, len(files))
	offset := uint32(6 + directoryEntrySize*len(files))
	for _, f := range files {
		offsets[f.Name] = offset
		offset += uint32(len(f.Data))
	}
	return offsets
}
