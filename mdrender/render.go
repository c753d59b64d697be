// Package mdrender provides default implementations of the amb.Renderer
// and amb.FrontMatterParser collaborator contracts. Neither is part of
// the archive format itself; callers are free to substitute their own
// Markdown renderer or front-matter dialect by implementing the same
// function signatures.
package mdrender

import (
	"strings"
	"unicode"
)

// bulletPrefixes are the list-item markers recognized at the start of a line.
var bulletPrefixes = []string{"- ", "* ", "+ "}

// Render is a deliberately modest default amb.Renderer: it strips common
// inline Markdown markup (emphasis, inline code, images), rewrites bullet
// markers to a plain dash, and hard-wraps paragraphs to width. It does
// not attempt tables, nested lists, or code fences beyond passing their
// contents through verbatim.
func Render(bodyLines []string, width int, frontmatter map[string]string, basePath string) ([]string, error) {
	var out []string
	var paragraph []string
	inCodeFence := false

	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		text := strings.Join(paragraph, " ")
		out = append(out, wrap(text, width)...)
		paragraph = paragraph[:0]
	}

	for _, raw := range bodyLines {
		line := strings.TrimRight(raw, " \t")

		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			flush()
			inCodeFence = !inCodeFence
			continue
		}
		if inCodeFence {
			out = append(out, line)
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			out = append(out, "")
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			flush()
			out = append(out, strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
			continue
		}

		if bullet, ok := stripBulletPrefix(trimmed); ok {
			flush()
			out = append(out, wrap("- "+stripInlineMarkup(bullet), width)...)
			continue
		}

		paragraph = append(paragraph, stripInlineMarkup(trimmed))
	}
	flush()

	return out, nil
}

func stripBulletPrefix(line string) (string, bool) {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return line[len(p):], true
		}
	}
	return "", false
}

// stripInlineMarkup removes emphasis/strong markers, inline code
// backticks, and image markup, while leaving amb's own %l...:...%t
// hyperlink syntax (already rewritten by the caller) untouched, along
// with plain "[text](target)" links whose brackets carry meaning there.
func stripInlineMarkup(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = stripRunesAroundWords(s, '*')
	s = stripRunesAroundWords(s, '_')
	s = strings.ReplaceAll(s, "`", "")
	s = stripImages(s)
	return s
}

// stripRunesAroundWords removes r when it appears adjacent to a
// non-space character, i.e. as an emphasis marker rather than literal
// punctuation floating in whitespace.
func stripRunesAroundWords(s string, r rune) string {
	runes := []rune(s)
	var out []rune
	for i, c := range runes {
		if c != r {
			out = append(out, c)
			continue
		}
		prevWord := i > 0 && !unicode.IsSpace(runes[i-1])
		nextWord := i+1 < len(runes) && !unicode.IsSpace(runes[i+1])
		if prevWord || nextWord {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// stripImages drops "![alt](src)" image syntax entirely, since AMA has
// no inline image concept.
func stripImages(s string) string {
	for {
		bang := strings.Index(s, "![")
		if bang < 0 {
			return s
		}
		close := strings.Index(s[bang:], ")")
		if close < 0 {
			return s
		}
		s = s[:bang] + s[bang+close+1:]
	}
}

// wrap hard-wraps text at width columns on word boundaries, matching the
// fixed-width presentation AMA readers expect.
func wrap(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() == 0 {
			cur.WriteString(w)
			continue
		}
		if cur.Len()+1+len(w) > width {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
			continue
		}
		cur.WriteByte(' ')
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
