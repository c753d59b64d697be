package amb

import (
	"errors"
	"testing"
)

func TestEncodeAMAPayloadRejectsTab(t *testing.T) {
	cp, err := resolve("437")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	_, err = encodeAMAPayload("A.AMA", []string{"has\ta tab"}, cp)
	if !errors.Is(err, ErrTabInArticle) {
		t.Fatalf("expected ErrTabInArticle, got %v", err)
	}
}

func TestEncodeAMAPayloadAppendsSingleTrailingNewline(t *testing.T) {
	cp, err := resolve("437")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	data, err := encodeAMAPayload("A.AMA", []string{"line one", "line two"}, cp)
	if err != nil {
		t.Fatalf("encodeAMAPayload: %v", err)
	}
	if string(data) != "line one\nline two\n" {
		t.Fatalf("encodeAMAPayload() = %q", data)
	}
}

func TestBuildArchiveFilesOrdering(t *testing.T) {
	contents := map[string][]byte{
		"INDEX.AMA": []byte("index\n"),
		"ZEBRA.AMA": []byte("z\n"),
		"APPLE.AMA": []byte("a\n"),
	}
	files, err := buildArchiveFiles(contents, "My Book", []byte{1, 2, 3}, []byte{4, 5})
	if err != nil {
		t.Fatalf("buildArchiveFiles: %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	want := []string{"TITLE", "INDEX.AMA", "APPLE.AMA", "ZEBRA.AMA", "UNICODE.MAP", "DICT.IDX"}
	if len(names) != len(want) {
		t.Fatalf("buildArchiveFiles() order = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("buildArchiveFiles() order = %v, want %v", names, want)
		}
	}
}

func TestBuildArchiveFilesNoTitleNoExtras(t *testing.T) {
	contents := map[string][]byte{"INDEX.AMA": []byte("index\n")}
	files, err := buildArchiveFiles(contents, "", nil, nil)
	if err != nil {
		t.Fatalf("buildArchiveFiles: %v", err)
	}
	if len(files) != 1 || files[0].Name != "INDEX.AMA" {
		t.Fatalf("expected only INDEX.AMA, got %v", files)
	}
}

func TestBuildArchiveFilesMissingIndex(t *testing.T) {
	if _, err := buildArchiveFiles(map[string][]byte{}, "", nil, nil); err == nil {
		t.Fatal("expected an error when INDEX.AMA is absent")
	}
}

func TestAnyHighBit(t *testing.T) {
	if anyHighBit(map[string][]byte{"A.AMA": {0x41, 0x42}}) {
		t.Fatal("expected false for pure ASCII payloads")
	}
	if !anyHighBit(map[string][]byte{"A.AMA": {0x41, 0x80}}) {
		t.Fatal("expected true when a payload contains a high-bit byte")
	}
}

func TestArchiveOffsetsMatchPackedLayout(t *testing.T) {
	files := []ArchiveFile{
		{Name: "INDEX.AMA", Data: []byte("abc")},
		{Name: "OTHER.AMA", Data: []byte("de")},
	}
	offsets := archiveOffsets(files)
	archive, err := packArchive(files)
	if err != nil {
		t.Fatalf("packArchive: %v", err)
	}
	entries, err := ParseArchive(archive)
	if err != nil {
		t.Fatalf("ParseArchive: %v", err)
	}
	for _, e := range entries {
		if offsets[e.Name] != e.Offset {
			t.Fatalf("archiveOffsets()[%s] = %d, want %d", e.Name, offsets[e.Name], e.Offset)
		}
	}
}
