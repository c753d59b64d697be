package amb

import (
	"errors"
	"strings"
	"testing"
)

func TestSplitArticleNoSplitNeeded(t *testing.T) {
	cp, err := resolve("437")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	lines := []string{"a short article", "with a few lines"}
	segments, err := splitArticle("SHORT.AMA", lines, cp, map[string]struct{}{"SHORT.AMA": {}})
	if err != nil {
		t.Fatalf("splitArticle: %v", err)
	}
	if len(segments) != 1 || segments[0].Name != "SHORT.AMA" {
		t.Fatalf("expected a single untouched segment, got %v", segments)
	}
}

func TestSplitArticleOversize(t *testing.T) {
	cp, err := resolve("437")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var lines []string
	line := strings.Repeat("x", 500)
	for i := 0; i < 200; i++ {
		lines = append(lines, line)
	}
	existing := map[string]struct{}{"LONGART.AMA": {}}
	segments, err := splitArticle("LONGART.AMA", lines, cp, existing)
	if err != nil {
		t.Fatalf("splitArticle: %v", err)
	}
	if len(segments) < 2 {
		t.Fatalf("expected the article to split into multiple segments, got %d", len(segments))
	}
	if segments[0].Name != "LONGART.AMA" {
		t.Fatalf("expected the first segment to keep the original name, got %s", segments[0].Name)
	}
	seen := make(map[string]bool)
	for i, seg := range segments {
		if seen[seg.Name] {
			t.Fatalf("duplicate segment name %s", seg.Name)
		}
		seen[seg.Name] = true

		data, err := cp.Encode(joinRStripNewlineAppend(seg.Lines))
		if err != nil {
			t.Fatalf("segment %d: Encode: %v", i, err)
		}
		if len(data) > amaMaxBytes {
			t.Fatalf("segment %d: encoded size %d exceeds amaMaxBytes", i, len(data))
		}
		if i < len(segments)-1 {
			last := seg.Lines[len(seg.Lines)-1]
			if !strings.Contains(last, "%l"+segments[i+1].Name+":"+continueLabel+"%t") {
				t.Fatalf("segment %d: expected continuation trailer pointing at %s, got %q", i, segments[i+1].Name, last)
			}
		}
	}
}

func TestSplitArticleLineTooLarge(t *testing.T) {
	cp, err := resolve("437")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	lines := []string{strings.Repeat("x", amaMaxBytes+10)}
	_, err = splitArticle("BIG.AMA", lines, cp, map[string]struct{}{"BIG.AMA": {}})
	if !errors.Is(err, ErrLineTooLarge) {
		t.Fatalf("expected ErrLineTooLarge, got %v", err)
	}
}

func TestAssignContinuationNamesAvoidsCollisions(t *testing.T) {
	existing := map[string]struct{}{"LONGART.AMA": {}, "LONGAR01.AMA": {}}
	names := assignContinuationNames("LONGART.AMA", 3, existing)
	if len(names) != 3 {
		t.Fatalf("expected 3 names, got %d", len(names))
	}
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Fatalf("duplicate continuation name %q", n)
		}
		seen[n] = true
		if _, taken := existing[n]; taken && n != "LONGART.AMA" {
			t.Fatalf("continuation name %q collides with a pre-existing name", n)
		}
	}
}

func TestJoinRStripNewlineAppend(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{[]string{"a", "b"}, "a\nb\n"},
		{[]string{"a", ""}, "a\n"},
		{nil, "\n"},
	}
	for _, tc := range cases {
		if got := joinRStripNewlineAppend(tc.in); got != tc.want {
			t.Errorf("joinRStripNewlineAppend(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
