package amb

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/amblerbook/amb/internal/bookzip"
)

// SourceCompression selects the algorithm used to compress the embedded
// source bundle appended by appendEmbeddedSource. Callers outside this
// package select one of these to pass to WithEmbeddedSourceCompression,
// the way mdocx.Compression and its CompZSTD/CompLZ4/... constants let a
// caller name mdocx.WithMarkdownCompression(mdocx.CompZSTD).
type SourceCompression uint8

// SourceCompression constants, mirrored 1:1 onto bookzip.Algorithm.
const (
	CompNone   SourceCompression = SourceCompression(bookzip.None)
	CompZSTD   SourceCompression = SourceCompression(bookzip.ZSTD)
	CompLZ4    SourceCompression = SourceCompression(bookzip.LZ4)
	CompBrotli SourceCompression = SourceCompression(bookzip.Brotli)
)

// embeddedSourceTrailerMagic tags the trailer appended after a complete
// AMB1 archive so a reader can tell source bytes were embedded at all;
// AMB1 readers that don't know about the trailer simply never look past
// the last directory-referenced payload, so appending it is safe.
var embeddedSourceTrailerMagic = [8]byte{'A', 'M', 'B', 'S', 'R', 'C', '1', 0}

// maxEmbeddedSourceUncompressed bounds decompression of the embedded
// source bundle, guarding against a decompression bomb in a hostile or
// corrupt archive.
const maxEmbeddedSourceUncompressed = 1 << 30

// appendEmbeddedSource bundles every article's original Markdown source
// (keyed by its resolved filesystem path in articles) into a single
// payload, compresses it with comp, and appends it to archive behind an
// 8-byte magic, a 1-byte algorithm id and an 8-byte length field. This is the supplemented
// "embedded source bundle" feature: it lets a caller reconstruct the
// Markdown tree a given AMB1 archive was compiled from.
func appendEmbeddedSource(archive []byte, articles map[string]*Article, comp SourceCompression) ([]byte, error) {
	bundle, err := buildSourceBundle(articles)
	if err != nil {
		return nil, err
	}
	compressed, err := bookzip.Compress(bookzip.Algorithm(comp), bundle)
	if err != nil {
		return nil, fmt.Errorf("amb: compressing embedded source: %w", err)
	}

	out := make([]byte, 0, len(archive)+8+8+len(compressed))
	out = append(out, archive...)
	out = append(out, embeddedSourceTrailerMagic[:]...)
	out = append(out, byte(comp))
	var lenField [8]byte
	binary.LittleEndian.PutUint64(lenField[:], uint64(len(compressed)))
	out = append(out, lenField[:]...)
	out = append(out, compressed...)
	return out, nil
}

// ExtractEmbeddedSource reverses appendEmbeddedSource, returning the
// bundled source tree as a path -> contents map (slash-separated paths
// relative to the root article's folder). It returns
// (nil, 0, false, nil) when blob carries no embedded source trailer.
// blob is the concatenation of a plain AMB1 archive and the trailer
// appendEmbeddedSource appends; the inner archive's own directory (not a
// backward byte scan) tells us exactly where the archive ends and the
// trailer begins, since packArchive lays payloads out contiguously with
// no gaps.
func ExtractEmbeddedSource(blob []byte) (map[string][]byte, SourceCompression, bool, error) {
	archiveLen, err := archiveByteLength(blob)
	if err != nil {
		return nil, 0, false, nil
	}

	magicOff := archiveLen
	algoOff := magicOff + len(embeddedSourceTrailerMagic)
	lenOff := algoOff + 1
	compOff := lenOff + 8
	if len(blob) < compOff {
		return nil, 0, false, nil
	}
	var magic [8]byte
	copy(magic[:], blob[magicOff:algoOff])
	if magic != embeddedSourceTrailerMagic {
		return nil, 0, false, nil
	}
	comp := SourceCompression(blob[algoOff])
	compLen := binary.LittleEndian.Uint64(blob[lenOff:compOff])
	if compOff+int(compLen) != len(blob) {
		return nil, 0, false, fmt.Errorf("amb: embedded source trailer length mismatch")
	}
	compressed := blob[compOff:]

	bundle, err := bookzip.Decompress(bookzip.Algorithm(comp), compressed, maxEmbeddedSourceUncompressed)
	if err != nil {
		return nil, 0, false, fmt.Errorf("amb: decompressing embedded source: %w", err)
	}
	files, err := parseSourceBundle(bundle)
	if err != nil {
		return nil, 0, false, err
	}
	return files, comp, true, nil
}

// archiveByteLength returns the exact byte length of the AMB1 archive
// prefix of blob, computed from its header and directory entry lengths
// rather than assuming blob contains nothing else.
func archiveByteLength(blob []byte) (int, error) {
	if len(blob) < 6 {
		return 0, fmt.Errorf("amb: archive too short")
	}
	var magic [4]byte
	copy(magic[:], blob[0:4])
	if magic != ambMagic {
		return 0, fmt.Errorf("amb: bad magic")
	}
	count := int(binary.LittleEndian.Uint16(blob[4:6]))
	dirStart := 6
	dirEnd := dirStart + count*directoryEntrySize
	if len(blob) < dirEnd {
		return 0, fmt.Errorf("amb: archive truncated in directory")
	}
	total := dirEnd
	for i := 0; i < count; i++ {
		off := dirStart + i*directoryEntrySize
		length := int(binary.LittleEndian.Uint16(blob[off+16 : off+18]))
		total += length
	}
	return total, nil
}

// buildSourceBundle serializes articles' source files into a flat,
// deterministically ordered container: for each file, a 4-byte path
// length, the path bytes (relative to the root article's folder), a
// 4-byte content length, then the content.
func buildSourceBundle(articles map[string]*Article) ([]byte, error) {
	paths := make([]string, 0, len(articles))
	rootDir := ""
	for p, a := range articles {
		paths = append(paths, p)
		if a.AMAName == "INDEX.AMA" {
			rootDir = filepath.Dir(p)
		}
	}
	sort.Strings(paths)

	var out []byte
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrReferencedFileMissing, p)
		}
		rel, err := filepath.Rel(rootDir, p)
		if err != nil {
			rel = p
		}
		out = appendLenPrefixed(out, []byte(filepath.ToSlash(rel)))
		out = appendLenPrefixed(out, data)
	}
	return out, nil
}

func parseSourceBundle(bundle []byte) (map[string][]byte, error) {
	files := make(map[string][]byte)
	pos := 0
	for pos < len(bundle) {
		name, next, err := readLenPrefixed(bundle, pos)
		if err != nil {
			return nil, err
		}
		pos = next
		content, next, err := readLenPrefixed(bundle, pos)
		if err != nil {
			return nil, err
		}
		pos = next
		files[string(name)] = content
	}
	return files, nil
}

func appendLenPrefixed(out []byte, b []byte) []byte {
	var lenField [4]byte
	binary.LittleEndian.PutUint32(lenField[:], uint32(len(b)))
	out = append(out, lenField[:]...)
	out = append(out, b...)
	return out
}

func readLenPrefixed(data []byte, pos int) ([]byte, int, error) {
	if pos+4 > len(data) {
		return nil, 0, fmt.Errorf("amb: truncated embedded source bundle")
	}
	n := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
	pos += 4
	if pos+n > len(data) {
		return nil, 0, fmt.Errorf("amb: truncated embedded source bundle")
	}
	return data[pos : pos+n], pos + n, nil
}
