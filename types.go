package amb

// AMA_MAX_BYTES is the hard per-article size ceiling imposed by the AMA
// payload format: legacy DOS-era readers mmap the archive and index into
// it with 16-bit lengths.
const amaMaxBytes = 65_535

// wordMin and wordMax bound indexable word length in code units. Words
// shorter than wordMin or longer than wordMax are discarded by the word
// extractor (§4.E). wordMax is kept explicit rather than left implicit in
// the bucket-hash formula, so the two constraints (bucket layout, word
// length) stay visibly consistent — see DESIGN.md's Open Question note.
const (
	wordMin = 2
	wordMax = 17
)

// continueLabel is the label text of the continuation hyperlink appended
// to every non-terminal split segment.
const continueLabel = "Continue"

// Article identifies one discovered Markdown source and the 8.3 AMA
// filename assigned to it. Articles are immutable once discovery assigns
// their name.
type Article struct {
	// Source is the resolved absolute filesystem path of the Markdown file.
	Source string
	// AMAName is the assigned uppercase 8.3 filename, e.g. "INDEX.AMA".
	AMAName string
}

// RenderedArticle is a finite ordered sequence of AMA presentation lines.
// Lines contain no embedded newlines and no tab characters. Joined by "\n"
// with a trailing "\n" appended, the serialized form must encode to at
// most AMA_MAX_BYTES bytes under the selected codepage.
type RenderedArticle struct {
	// Name is the AMA filename this content will be stored under.
	Name string
	// Lines is the ordered AMA line sequence.
	Lines []string
}

// CodepageInfo is a resolved single-byte codepage: a canonical name, a
// total-over-ASCII/strict-elsewhere encoder, and the 128-entry Unicode map
// for bytes 0x80..0xFF. Both directions are derived from the same 128
// entries so encode and UNICODE.MAP emission can never disagree (§9).
type CodepageInfo struct {
	// Name is the canonical, normalized codepage name (e.g. "cp437", "kam").
	Name string
	// HighTable holds the Unicode scalar value mapped to each byte 0x80+i, i in [0,128).
	HighTable [128]rune
	// highEncode is the inverse of HighTable: rune -> byte 0x80..0xFF. Built once at resolve time.
	highEncode map[rune]byte
}

// ArchiveFile is one payload destined for the AMB1 directory: a
// 12-byte-or-shorter uppercase filename paired with its encoded bytes.
type ArchiveFile struct {
	Name string
	Data []byte
}

// WordIndex maps a lowercase indexable word (2..17 Unicode code units,
// alphanumeric only) to the set of AMA filenames that contain it. Used in
// its transposed, encoded, bucketed form when serialized as DICT.IDX.
type WordIndex map[string]map[string]struct{}

// addOccurrence records that word occurs in the article named filename.
func (w WordIndex) addOccurrence(word, filename string) {
	set, ok := w[word]
	if !ok {
		set = make(map[string]struct{})
		w[word] = set
	}
	set[filename] = struct{}{}
}
