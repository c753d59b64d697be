package mdrender

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ParseFrontMatter is the default amb.FrontMatterParser: it recognizes
// TOML front matter delimited by "+++" lines (parsed with
// github.com/BurntSushi/toml) and a minimal "key: value" YAML-ish
// dialect delimited by "---" lines. Front-matter values are flattened to
// strings; nested TOML tables are not supported since amb.Renderer's
// contract only carries a flat map[string]string. Neither dialect is
// part of the archive format; this is provided purely as a convenient
// default collaborator.
func ParseFrontMatter(lines []string) (map[string]string, []string, error) {
	if len(lines) == 0 {
		return nil, nil, nil
	}
	first := strings.TrimSpace(lines[0])
	switch first {
	case "+++":
		return parseDelimited(lines, "+++", parseTOMLBlock)
	case "---":
		return parseDelimited(lines, "---", parseYAMLishBlock)
	default:
		return nil, lines, nil
	}
}

func parseDelimited(lines []string, delim string, parse func([]string) (map[string]string, error)) (map[string]string, []string, error) {
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delim {
			fm, err := parse(lines[1:i])
			if err != nil {
				return nil, nil, err
			}
			return fm, lines[i+1:], nil
		}
	}
	// No closing delimiter found: treat the whole file as body, no
	// front matter, rather than erroring on a merely malformed document.
	return nil, lines, nil
}

func parseTOMLBlock(block []string) (map[string]string, error) {
	var raw map[string]interface{}
	if _, err := toml.Decode(strings.Join(block, "\n"), &raw); err != nil {
		return nil, err
	}
	return flatten(raw), nil
}

func parseYAMLishBlock(block []string) (map[string]string, error) {
	out := make(map[string]string, len(block))
	for _, line := range block {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		idx := strings.Index(trimmed, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(trimmed[:idx])
		val := strings.TrimSpace(trimmed[idx+1:])
		val = strings.Trim(val, `"'`)
		out[key] = val
	}
	return out, nil
}

func flatten(raw map[string]interface{}) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			out[k] = t
		default:
			out[k] = toStringFallback(t)
		}
	}
	return out
}

func toStringFallback(v interface{}) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
