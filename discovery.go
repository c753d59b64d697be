package amb

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Component B: link discovery. BFS over local Markdown links starting
// from the root path, resolving filesystem paths and assigning
// collision-free 8.3 AMA filenames, per §4.B.

// markdownLinkRE matches "[text](target)" Markdown link syntax.
var markdownLinkRE = regexp.MustCompile(`\[[^\]]*\]\(([^)]+)\)`)

var localLinkSchemeRE = regexp.MustCompile(`^(mailto|ftp|gopher|tel):`)

var markdownExtensions = map[string]struct{}{
	".md": {}, ".markdown": {}, ".mkd": {}, ".mkdn": {},
}

// discoverArticles runs the BFS described in §4.B, starting from root. It
// returns both the path-keyed article map and the articles in BFS visit
// order, since later stages (rendering, splitting) must process articles
// in a deterministic order for continuation-name collision handling to be
// reproducible across builds, per §5's determinism guarantee.
func discoverArticles(root string, limits Limits) (map[string]*Article, []*Article, error) {
	rootResolved, err := resolvePath(root)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrReferencedFileMissing, root)
	}

	type queued struct {
		path  string
		depth int
	}
	queue := []queued{{path: rootResolved, depth: 0}}
	visited := make(map[string]*Article)
	var order []*Article
	assignedNames := make(map[string]struct{})
	var totalSourceBytes int64

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		current, err := resolvePath(cur.path)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrReferencedFileMissing, cur.path)
		}
		if _, ok := visited[current]; ok {
			continue
		}
		info, err := os.Stat(current)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrReferencedFileMissing, current)
		}
		if len(visited) >= limits.MaxArticles {
			return nil, nil, fmt.Errorf("amb: discovery exceeded MaxArticles (%d)", limits.MaxArticles)
		}
		if cur.depth > limits.MaxDiscoveryDepth {
			return nil, nil, fmt.Errorf("amb: discovery exceeded MaxDiscoveryDepth (%d)", limits.MaxDiscoveryDepth)
		}
		totalSourceBytes += info.Size()
		if totalSourceBytes > limits.MaxTotalSourceBytes {
			return nil, nil, fmt.Errorf("amb: discovery exceeded MaxTotalSourceBytes (%d)", limits.MaxTotalSourceBytes)
		}

		var amaName string
		if current == rootResolved {
			amaName = "INDEX.AMA"
		} else {
			stem := strings.TrimSuffix(filepath.Base(current), filepath.Ext(current))
			amaName = assignAMAName(stem, assignedNames)
		}
		assignedNames[amaName] = struct{}{}
		article := &Article{Source: current, AMAName: amaName}
		visited[current] = article
		order = append(order, article)

		links, err := findLocalMarkdownLinks(current)
		if err != nil {
			return nil, nil, err
		}
		for _, l := range links {
			queue = append(queue, queued{path: l, depth: cur.depth + 1})
		}
	}

	return visited, order, nil
}

// resolvePath resolves p to an absolute, symlink-evaluated path.
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The target may not exist yet (discovered-but-not-visited); fall
		// back to the absolute, cleaned path so the missing-file check
		// happens on dequeue with full path context, per §4.B.
		return filepath.Clean(abs), nil
	}
	return resolved, nil
}

// findLocalMarkdownLinks scans markdownPath for local Markdown links per
// §4.B's target-filtering rules, returning resolved (but not yet
// existence-checked) target paths.
func findLocalMarkdownLinks(markdownPath string) ([]string, error) {
	data, err := os.ReadFile(markdownPath)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(markdownPath)

	var results []string
	for _, m := range markdownLinkRE.FindAllStringSubmatch(string(data), -1) {
		target := strings.TrimSpace(m[1])
		if target == "" || strings.HasPrefix(target, "#") {
			continue
		}
		if strings.Contains(target, "://") || localLinkSchemeRE.MatchString(target) {
			continue
		}
		withoutFragment := target
		if idx := strings.Index(withoutFragment, "#"); idx >= 0 {
			withoutFragment = withoutFragment[:idx]
		}
		resolved, err := resolvePath(filepath.Join(dir, withoutFragment))
		if err != nil {
			continue
		}
		if _, ok := markdownExtensions[strings.ToLower(filepath.Ext(resolved))]; ok {
			results = append(results, resolved)
		}
	}
	return results, nil
}

// assignAMAName implements §4.B's assign_ama_name: uppercase stem,
// non-alphanumeric -> '_', empty -> "ARTICLE", leading digit gets a '_'
// prefix, truncate to 8, append ".AMA", resolve collisions with a
// widening numeric suffix.
func assignAMAName(stem string, existing map[string]struct{}) string {
	base := sanitizeStem(stem)
	name := base + ".AMA"
	counter := 1
	for {
		if _, taken := existing[name]; !taken {
			return name
		}
		suffix := fmt.Sprintf("%02d", counter)
		trimLen := 8 - len(suffix)
		if trimLen < 1 {
			trimLen = 1
		}
		trimmed := base
		if len(trimmed) > trimLen {
			trimmed = trimmed[:trimLen]
		}
		name = trimmed + suffix + ".AMA"
		counter++
	}
}

func sanitizeStem(stem string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(stem) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	base := b.String()
	if base == "" {
		base = "ARTICLE"
	}
	if base[0] >= '0' && base[0] <= '9' {
		base = "_" + base
	}
	if len(base) > 8 {
		base = base[:8]
	}
	return base
}
