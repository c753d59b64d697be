package mdrender

import (
	"strings"
	"testing"
)

func TestRenderWrapsParagraphs(t *testing.T) {
	body := []string{"This is a short paragraph that should wrap across more than one output line once rendered at a narrow width."}
	out, err := Render(body, 20, nil, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(out) < 2 {
		t.Fatalf("expected wrapping to produce multiple lines, got %v", out)
	}
	for _, line := range out {
		if len(line) > 20 {
			t.Fatalf("line exceeds width 20: %q", line)
		}
	}
}

func TestRenderStripsInlineMarkup(t *testing.T) {
	body := []string{"Some **bold** and _italic_ and `code` text."}
	out, err := Render(body, 78, nil, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	joined := strings.Join(out, " ")
	for _, marker := range []string{"**", "`"} {
		if strings.Contains(joined, marker) {
			t.Fatalf("expected %q stripped, got %q", marker, joined)
		}
	}
}

func TestRenderKeepsCodeFenceVerbatim(t *testing.T) {
	body := []string{"```", "func main() {}", "```"}
	out, err := Render(body, 78, nil, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	found := false
	for _, l := range out {
		if l == "func main() {}" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected code fence contents preserved verbatim, got %v", out)
	}
}

func TestRenderBullets(t *testing.T) {
	body := []string{"- first", "* second"}
	out, err := Render(body, 78, nil, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(out) != 2 || out[0] != "- first" || out[1] != "- second" {
		t.Fatalf("unexpected bullet rendering: %v", out)
	}
}

func TestParseFrontMatterTOML(t *testing.T) {
	lines := []string{"+++", `title = "Hello"`, "+++", "body line"}
	fm, body, err := ParseFrontMatter(lines)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm["title"] != "Hello" {
		t.Fatalf("expected title=Hello, got %v", fm)
	}
	if len(body) != 1 || body[0] != "body line" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestParseFrontMatterYAMLish(t *testing.T) {
	lines := []string{"---", "title: Hello", "---", "body line"}
	fm, body, err := ParseFrontMatter(lines)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm["title"] != "Hello" {
		t.Fatalf("expected title=Hello, got %v", fm)
	}
	if len(body) != 1 || body[0] != "body line" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestParseFrontMatterNone(t *testing.T) {
	lines := []string{"just a plain article", "with no front matter"}
	fm, body, err := ParseFrontMatter(lines)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm != nil {
		t.Fatalf("expected nil front matter, got %v", fm)
	}
	if len(body) != 2 {
		t.Fatalf("expected body unchanged, got %v", body)
	}
}
