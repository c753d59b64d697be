package amb

import (
	"encoding/binary"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Component E: word extraction and dictionary index. Tokenizes
// post-split AMA lines, builds a per-article word set, inverts it into a
// word -> file-set map, and encodes the result as DICT.IDX's bucketed
// wire layout, per §4.E.

// amaControlRE strips "%l<target>:" link-open sequences before word
// extraction; the remaining bare control codes (%t, %!, %b, %h) and
// escaped "%%" are handled by stripControlCodes.
var amaControlRE = regexp.MustCompile(`%l[^:]+:`)

// extractWords returns the set of indexable words (lowercase, alphanumeric,
// 2..17 code units) occurring in lines, per §4.E.
func extractWords(lines []string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, line := range lines {
		stripped := stripControlCodes(line)
		var b strings.Builder
		flush := func() {
			if b.Len() == 0 {
				return
			}
			w := b.String()
			n := len([]rune(w))
			if n >= wordMin && n <= wordMax {
				words[w] = struct{}{}
			}
			b.Reset()
		}
		for _, r := range stripped {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToLower(r))
			} else {
				flush()
			}
		}
		flush()
	}
	return words
}

// stripControlCodes removes AMA control sequences per §4.E: "%l...:" link
// openers are consumed by amaControlRE; literal "%t", "%!", "%b", "%h" are
// removed; "%%" collapses to a literal "%".
func stripControlCodes(line string) string {
	s := amaControlRE.ReplaceAllString(line, "")
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		rest := s[i+1:]
		switch {
		case strings.HasPrefix(rest, "%"):
			b.WriteByte('%')
			i++
		case strings.HasPrefix(rest, "t"), strings.HasPrefix(rest, "!"), strings.HasPrefix(rest, "b"), strings.HasPrefix(rest, "h"):
			i++
		default:
			b.WriteByte('%')
		}
	}
	return b.String()
}

// buildWordIndex runs extractWords over every article's post-split AMA
// lines and inverts the per-article word sets into word -> filenames.
func buildWordIndex(articles map[string][]string) WordIndex {
	index := make(WordIndex)
	for name, lines := range articles {
		for word := range extractWords(lines) {
			index.addOccurrence(word, name)
		}
	}
	return index
}

// bucketID computes §4.E's hash: bucket = ((L-2)<<4) | XOR of low nybbles
// of every encoded byte, where L is the encoded byte length of the word.
func bucketID(encoded []byte) int {
	l := len(encoded)
	xor := byte(0)
	for _, b := range encoded {
		xor ^= b & 0x0F
	}
	return ((l - 2) << 4) | int(xor)
}

// dictEntry is one (word, file-offsets) pair destined for a bucket body.
type dictEntry struct {
	word    string
	encoded []byte
	offsets []uint32
}

// buildDictIndex encodes index into the DICT.IDX wire format, given the
// resolved archive offset of every AMA filename. Words whose encoded
// length falls outside [2,17], that fail to encode under cp, or that
// occur in more than 255 files are handled per §4.E: out-of-range/
// unencodable words are silently omitted; a word in more than 255 files
// is ErrTooManyFilesPerWord, caught by the caller (BuildBook) which omits
// DICT.IDX entirely rather than aborting the archive.
func buildDictIndex(index WordIndex, cp *CodepageInfo, offsets map[string]uint32) ([]byte, error) {
	buckets := make(map[int][]dictEntry)

	// deterministic iteration: sort words lexicographically first.
	words := make([]string, 0, len(index))
	for w := range index {
		words = append(words, w)
	}
	sort.Strings(words)

	for _, word := range words {
		encoded, err := cp.Encode(word)
		if err != nil {
			continue
		}
		if len(encoded) < wordMin || len(encoded) > wordMax {
			continue
		}
		fileSet := index[word]
		if len(fileSet) > 255 {
			return nil, fmt.Errorf("%w: word %q occurs in %d files", ErrTooManyFilesPerWord, word, len(fileSet))
		}
		names := make([]string, 0, len(fileSet))
		for name := range fileSet {
			names = append(names, name)
		}
		offList := make([]uint32, 0, len(names))
		seen := make(map[uint32]struct{}, len(names))
		for _, name := range names {
			off, ok := offsets[name]
			if !ok {
				continue
			}
			if _, dup := seen[off]; dup {
				continue
			}
			seen[off] = struct{}{}
			offList = append(offList, off)
		}
		sort.Slice(offList, func(i, j int) bool { return offList[i] < offList[j] })

		id := bucketID(encoded)
		buckets[id] = append(buckets[id], dictEntry{word: word, encoded: encoded, offsets: offList})
	}

	for id := range buckets {
		sort.Slice(buckets[id], func(i, j int) bool { return buckets[id][i].word < buckets[id][j].word })
	}

	var bodies [256][]byte
	var bodyOffsets [256]uint16
	var concatenated []byte

	for id := 0; id < 256; id++ {
		entries := buckets[id]
		var body []byte
		count := uint16(len(entries))
		countBuf := make([]byte, 2)
		binary.LittleEndian.PutUint16(countBuf, count)
		body = append(body, countBuf...)
		for _, e := range entries {
			body = append(body, e.encoded...)
			body = append(body, byte(len(e.offsets)))
			for _, off := range e.offsets {
				offBuf := make([]byte, 4)
				binary.LittleEndian.PutUint32(offBuf, off)
				body = append(body, offBuf...)
			}
		}
		bodies[id] = body
		bodyOffsets[id] = uint16(len(concatenated))
		concatenated = append(concatenated, body...)
	}

	if len(concatenated) >= 65_536 {
		return nil, fmt.Errorf("%w: body length %d", ErrDictionaryTooLarge, len(concatenated))
	}

	out := make([]byte, 0, len(concatenated)+512)
	out = append(out, concatenated...)
	for id := 0; id < 256; id++ {
		offBuf := make([]byte, 2)
		binary.LittleEndian.PutUint16(offBuf, bodyOffsets[id])
		out = append(out, offBuf...)
	}
	return out, nil
}
