package amb

import (
	"os"
	"path/filepath"
	"strings"
)

// Component C: article renderer wrapper. Invokes the external Markdown to
// AMA renderer per article, after rewriting inter-article links, per
// §4.C. The renderer and front-matter parser are treated as external
// collaborators per spec.md §1: this package only defines the contracts
// they satisfy. Default implementations live in the sibling mdrender
// package.

// renderWidth is the fixed rendering width passed to the external renderer, per §4.C.
const renderWidth = 78

// Renderer is the external Markdown-to-AMA textual renderer contract.
// Implementations receive the article's body lines (front matter already
// stripped), the fixed rendering width, the parsed front matter, and the
// article's parent directory as base path, and return AMA-formatted
// lines.
type Renderer func(bodyLines []string, width int, frontmatter map[string]string, basePath string) ([]string, error)

// FrontMatterParser is the external front-matter parsing contract. It
// receives the full file content (as lines, without their newlines) and
// returns the parsed front matter plus the remaining body lines.
type FrontMatterParser func(lines []string) (frontmatter map[string]string, body []string, err error)

// renderArticle implements §4.C for one article: read the Markdown
// source, rewrite local links whose resolved target is a known article,
// hand the body to the front-matter parser and then the renderer.
func renderArticle(article *Article, articles map[string]*Article, renderer Renderer, parseFrontMatter FrontMatterParser) ([]string, error) {
	data, err := os.ReadFile(article.Source)
	if err != nil {
		return nil, err
	}
	rewritten := rewriteLinks(string(data), filepath.Dir(article.Source), articles)

	lines := splitKeepingLineStructure(rewritten)
	frontmatter, body, err := parseFrontMatter(lines)
	if err != nil {
		return nil, err
	}

	return renderer(body, renderWidth, frontmatter, filepath.Dir(article.Source))
}

// rewriteLinks substitutes the target of every local Markdown link whose
// resolved path is a known article with that article's AMA filename,
// preserving the "[text](" and ")" bracketing literally. Links whose
// resolved target is not in the article set are left verbatim, per §4.C.
func rewriteLinks(markdown string, baseDir string, articles map[string]*Article) string {
	return markdownLinkRE.ReplaceAllStringFunc(markdown, func(match string) string {
		sub := markdownLinkRE.FindStringSubmatch(match)
		target := sub[1]
		cleaned := strings.TrimSpace(target)
		withoutFragment := cleaned
		if idx := strings.Index(withoutFragment, "#"); idx >= 0 {
			withoutFragment = withoutFragment[:idx]
		}
		resolved, err := resolvePath(filepath.Join(baseDir, withoutFragment))
		if err != nil {
			return match
		}
		article, ok := articles[resolved]
		if !ok {
			return match
		}
		prefixEnd := strings.LastIndex(match, target)
		if prefixEnd < 0 {
			return match
		}
		return match[:prefixEnd] + article.AMAName + match[prefixEnd+len(target):]
	})
}

// splitKeepingLineStructure splits text on "\n" the way Python's
// str.splitlines() does for "\n"-only text: each returned element
// excludes its newline, and a single final "\n" does not produce a
// trailing empty element (a blank line before it is kept).
func splitKeepingLineStructure(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
