package amb

import (
	"errors"
	"fmt"
	"testing"
)

func TestExtractWordsBasic(t *testing.T) {
	lines := []string{"The Quick brown fox, jumps over 2 lazy dogs!"}
	words := extractWords(lines)
	for _, w := range []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dogs"} {
		if _, ok := words[w]; !ok {
			t.Errorf("expected word %q to be extracted, got %v", w, words)
		}
	}
	if _, ok := words["2"]; ok {
		t.Errorf("expected single-digit token below wordMin to be dropped")
	}
}

func TestExtractWordsStripsControlCodes(t *testing.T) {
	lines := []string{"see %lOTHER.AMA:link text%t here"}
	words := extractWords(lines)
	if _, ok := words["lother"]; ok {
		t.Fatalf("link target leaked into extracted words: %v", words)
	}
	if _, ok := words["link"]; !ok {
		t.Fatalf("expected link label words extracted, got %v", words)
	}
	if _, ok := words["here"]; !ok {
		t.Fatalf("expected trailing words extracted, got %v", words)
	}
}

func TestStripControlCodesEscapedPercent(t *testing.T) {
	got := stripControlCodes("100%% done")
	if got != "100% done" {
		t.Fatalf("stripControlCodes() = %q, want %q", got, "100% done")
	}
}

func TestBuildWordIndexAcrossArticles(t *testing.T) {
	articles := map[string][]string{
		"A.AMA": {"shared word"},
		"B.AMA": {"shared topic"},
	}
	idx := buildWordIndex(articles)
	files := idx["shared"]
	if len(files) != 2 {
		t.Fatalf("expected 'shared' to occur in 2 articles, got %v", files)
	}
}

func TestBucketIDMatchesFormula(t *testing.T) {
	encoded := []byte("ab")
	got := bucketID(encoded)
	xor := (encoded[0] & 0x0F) ^ (encoded[1] & 0x0F)
	want := ((len(encoded) - 2) << 4) | int(xor)
	if got != want {
		t.Fatalf("bucketID() = %d, want %d", got, want)
	}
}

func TestBuildDictIndexIncludesHashTable(t *testing.T) {
	cp, err := resolve("437")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	index := WordIndex{}
	index.addOccurrence("hello", "A.AMA")
	index.addOccurrence("world", "A.AMA")
	offsets := map[string]uint32{"A.AMA": 1000}

	data, err := buildDictIndex(index, cp, offsets)
	if err != nil {
		t.Fatalf("buildDictIndex: %v", err)
	}
	if len(data) < 512 {
		t.Fatalf("expected at least the 256-entry offset table trailer, got %d bytes", len(data))
	}
}

func TestBuildDictIndexTooManyFiles(t *testing.T) {
	cp, err := resolve("437")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	index := WordIndex{}
	offsets := map[string]uint32{}
	for i := 0; i < 300; i++ {
		name := fmt.Sprintf("F%d.AMA", i)
		index.addOccurrence("common", name)
		offsets[name] = uint32(i)
	}
	_, err = buildDictIndex(index, cp, offsets)
	if !errors.Is(err, ErrTooManyFilesPerWord) {
		t.Fatalf("expected ErrTooManyFilesPerWord, got %v", err)
	}
}
