package amb

import "errors"

// Sentinel errors returned by this package's build functions.
// These can be checked with errors.Is for programmatic handling.
var (
	// ErrReferencedFileMissing indicates a linked Markdown file does not exist on disk.
	ErrReferencedFileMissing = errors.New("amb: referenced file missing")

	// ErrUnsupportedCodepage indicates the requested codepage name has no known encoder.
	ErrUnsupportedCodepage = errors.New("amb: unsupported codepage")

	// ErrNonSingleByteCodepage indicates a resolved codec is not a single-byte encoding.
	ErrNonSingleByteCodepage = errors.New("amb: codepage is not single-byte")

	// ErrUnencodableCharacter indicates a character has no representation under the active codepage.
	ErrUnencodableCharacter = errors.New("amb: unencodable character")

	// ErrLineTooLarge indicates a single AMA line alone exceeds AMA_MAX_BYTES.
	ErrLineTooLarge = errors.New("amb: line too large")

	// ErrArticleTooLarge indicates an encoded article exceeds AMA_MAX_BYTES.
	ErrArticleTooLarge = errors.New("amb: article too large")

	// ErrTabInArticle indicates an AMA payload contains a tab character.
	ErrTabInArticle = errors.New("amb: tab character in article")

	// ErrInvalidFilename indicates a canonical filename does not fit the 8.3 directory entry.
	ErrInvalidFilename = errors.New("amb: invalid filename")

	// ErrSplitInfeasible indicates the splitter could not fit a continuation segment within AMA_MAX_BYTES.
	ErrSplitInfeasible = errors.New("amb: split infeasible")

	// ErrTooManyFilesPerWord indicates a word occurs in more than 255 articles.
	ErrTooManyFilesPerWord = errors.New("amb: too many files for word")

	// ErrDictionaryTooLarge indicates the assembled DICT.IDX body would be >= 65536 bytes.
	ErrDictionaryTooLarge = errors.New("amb: dictionary index too large")
)
