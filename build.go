package amb

import (
	"fmt"
)

// BuildBook compiles the Markdown tree rooted at rootMarkdown into an
// AMB1 archive, wiring discovery (§4.B), rendering (§4.C), splitting
// (§4.D), word indexing (§4.E) and packing (§4.F) exactly as §2's data
// flow describes. renderer and parseFrontMatter are the external
// collaborators spec.md §1 scopes out of this package; pass
// mdrender.Render and mdrender.ParseFrontMatter for the default
// implementations.
func BuildBook(rootMarkdown string, renderer Renderer, parseFrontMatter FrontMatterParser, opts ...BuildOption) ([]byte, error) {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.resolved()

	cp, err := resolve(cfg.codepage)
	if err != nil {
		return nil, err
	}

	articles, order, err := discoverArticles(rootMarkdown, cfg.limits)
	if err != nil {
		return nil, err
	}

	// assignedNames tracks every AMA name claimed so far, across both
	// discovery (§4.B) and splitting (§4.D): continuation segments must
	// not collide with any name already present in the book.
	assignedNames := make(map[string]struct{}, len(articles))
	for _, a := range articles {
		assignedNames[a.AMAName] = struct{}{}
	}

	amaLines := make(map[string][]string) // final AMA filename -> rendered lines, post-split
	for _, article := range order {
		rendered, err := renderArticle(article, articles, renderer, parseFrontMatter)
		if err != nil {
			return nil, fmt.Errorf("amb: rendering %s: %w", article.AMAName, err)
		}
		segments, err := splitArticle(article.AMAName, rendered, cp, assignedNames)
		if err != nil {
			return nil, err
		}
		for _, seg := range segments {
			assignedNames[seg.Name] = struct{}{}
			amaLines[seg.Name] = seg.Lines
		}
	}

	amaPayloads := make(map[string][]byte, len(amaLines))
	for name, lines := range amaLines {
		data, err := encodeAMAPayload(name, lines, cp)
		if err != nil {
			return nil, err
		}
		amaPayloads[name] = data
	}

	var unicodeMap []byte
	if anyHighBit(amaPayloads) {
		unicodeMap = cp.MarshalUnicodeMap()
	}

	var wordIndex WordIndex
	if cfg.buildIndex {
		wordIndex = buildWordIndex(amaLines)
	}

	// Pass 1: file list and offsets assuming no DICT.IDX.
	filesPass1, err := buildArchiveFiles(amaPayloads, cfg.title, unicodeMap, nil)
	if err != nil {
		return nil, err
	}

	var dictIDX []byte
	if cfg.buildIndex && len(wordIndex) > 0 {
		offsets1 := archiveOffsets(filesPass1)
		idx, err := buildDictIndex(wordIndex, cp, offsets1)
		if err != nil {
			cfg.diagnostics(fmt.Sprintf("amb: dictionary index omitted: %v", err))
		} else {
			// Pass 2: recompute offsets assuming DICT.IDX is present, and
			// re-emit the index bytes against those offsets, per §4.E.
			filesPass2, err := buildArchiveFiles(amaPayloads, cfg.title, unicodeMap, idx)
			if err != nil {
				return nil, err
			}
			offsets2 := archiveOffsets(filesPass2)
			idx2, err := buildDictIndex(wordIndex, cp, offsets2)
			if err != nil {
				cfg.diagnostics(fmt.Sprintf("amb: dictionary index omitted: %v", err))
			} else {
				dictIDX = idx2
			}
		}
	}

	files, err := buildArchiveFiles(amaPayloads, cfg.title, unicodeMap, dictIDX)
	if err != nil {
		return nil, err
	}

	archive, err := packArchive(files)
	if err != nil {
		return nil, err
	}

	if cfg.embeddedSource {
		archive, err = appendEmbeddedSource(archive, articles, cfg.sourceComp)
		if err != nil {
			return nil, err
		}
	}

	return archive, nil
}
