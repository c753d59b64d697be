package amb

import (
	"fmt"
	"strings"
)

// Component D: article splitter. Breaks oversize AMA articles into
// continuation-linked segments, per §4.D. The greedy pop-back-into-next-
// segment algorithm is carried over from original_source/mambler.py's
// split_article, re-expressed with explicit error returns and the active
// codepage's encoder standing in for mambler.py's fixed UTF-8 encode.

// continuationPlaceholder is the 12-char stand-in filename ("XXXXXXXX.XXX")
// used to size the worst-case continuation trailer overhead, per §4.D.
const continuationPlaceholder = "XXXXXXXX.XXX"

func continuationOverhead() int {
	// one blank separating line, plus the trailer line, plus their
	// terminating newlines: both are plain ASCII so byte length equals
	// rune count regardless of the active codepage.
	trailer := "%l" + continuationPlaceholder + ":" + continueLabel + "%t"
	return len("\n") + len(trailer+"\n")
}

// splitArticle implements §4.D. filename is the article's originally
// assigned AMA name; lines is its rendered (pre-split) AMA content.
// existingNames must contain every AMA name already assigned in the book
// (including filename itself) so continuation names avoid collisions.
// Returns the resulting segments in link order; the first always keeps
// filename.
func splitArticle(filename string, lines []string, cp *CodepageInfo, existingNames map[string]struct{}) ([]RenderedArticle, error) {
	encodedSize := func(candidate []string) (int, error) {
		joined := joinRStripNewlineAppend(candidate)
		b, err := cp.Encode(joined)
		if err != nil {
			return 0, fmt.Errorf("%w: article %s", err, filename)
		}
		return len(b), nil
	}

	total, err := encodedSize(lines)
	if err != nil {
		return nil, err
	}
	if total <= amaMaxBytes {
		return []RenderedArticle{{Name: filename, Lines: lines}}, nil
	}

	lineSize := func(line string) (int, error) {
		b, err := cp.Encode(line + "\n")
		if err != nil {
			return 0, fmt.Errorf("%w: article %s", err, filename)
		}
		return len(b), nil
	}

	var segments [][]string
	var segmentSizes []int
	var current []string
	currentSize := 0

	flush := func() {
		if len(current) > 0 {
			segments = append(segments, current)
			segmentSizes = append(segmentSizes, currentSize)
			current = nil
			currentSize = 0
		}
	}

	for lineNo, line := range lines {
		size, err := lineSize(line)
		if err != nil {
			return nil, err
		}
		if size > amaMaxBytes {
			return nil, fmt.Errorf("%w: article %s line %d", ErrLineTooLarge, filename, lineNo)
		}
		if currentSize+size > amaMaxBytes {
			flush()
		}
		if currentSize+size > amaMaxBytes {
			return nil, fmt.Errorf("%w: article %s line %d", ErrLineTooLarge, filename, lineNo)
		}
		current = append(current, line)
		currentSize += size
	}
	flush()

	if len(segments) == 0 {
		return []RenderedArticle{{Name: filename, Lines: lines}}, nil
	}

	softLimit := amaMaxBytes - continuationOverhead()

	popLast := func(idx int) string {
		n := len(segments[idx])
		line := segments[idx][n-1]
		segments[idx] = segments[idx][:n-1]
		return line
	}

	idx := 0
	for idx < len(segments)-1 {
		if len(segments[idx]) == 0 {
			segments = append(segments[:idx], segments[idx+1:]...)
			segmentSizes = append(segmentSizes[:idx], segmentSizes[idx+1:]...)
			if idx > 0 {
				idx--
			}
			continue
		}
		if segmentSizes[idx] <= softLimit {
			idx++
			continue
		}

		movedLine := popLast(idx)
		movedSize, err := lineSize(movedLine)
		if err != nil {
			return nil, err
		}
		segmentSizes[idx] -= movedSize
		segments[idx+1] = append([]string{movedLine}, segments[idx+1]...)
		segmentSizes[idx+1] += movedSize

		if len(segments[idx]) == 0 {
			segments = append(segments[:idx], segments[idx+1:]...)
			segmentSizes = append(segmentSizes[:idx], segmentSizes[idx+1:]...)
			if idx > 0 {
				idx--
			}
			continue
		}

		cascade := idx + 1
		for cascade < len(segments) && segmentSizes[cascade] > amaMaxBytes {
			overflowLine := popLast(cascade)
			overflowSize, err := lineSize(overflowLine)
			if err != nil {
				return nil, err
			}
			if overflowSize > amaMaxBytes {
				return nil, fmt.Errorf("%w: article %s", ErrLineTooLarge, filename)
			}
			segmentSizes[cascade] -= overflowSize
			if cascade+1 < len(segments) {
				segments[cascade+1] = append([]string{overflowLine}, segments[cascade+1]...)
				segmentSizes[cascade+1] += overflowSize
			} else {
				segments = append(segments, []string{overflowLine})
				segmentSizes = append(segmentSizes, overflowSize)
			}
			if len(segments[cascade]) == 0 {
				segments = append(segments[:cascade], segments[cascade+1:]...)
				segmentSizes = append(segmentSizes[:cascade], segmentSizes[cascade+1:]...)
				break
			}
		}
	}

	// recompute sizes after structural changes, mirroring mambler.py
	segmentSizes = make([]int, len(segments))
	for i, seg := range segments {
		size := 0
		for _, line := range seg {
			s, err := lineSize(line)
			if err != nil {
				return nil, err
			}
			size += s
		}
		segmentSizes[i] = size
	}

	if len(segments) == 1 {
		return []RenderedArticle{{Name: filename, Lines: segments[0]}}, nil
	}

	names := assignContinuationNames(filename, len(segments), existingNames)

	result := make([]RenderedArticle, len(segments))
	for i, name := range names {
		segLines := append([]string(nil), segments[i]...)
		if i < len(names)-1 {
			segLines = append(segLines, "", "%l"+names[i+1]+":"+continueLabel+"%t")
			size, err := encodedSize(segLines)
			if err != nil {
				return nil, err
			}
			if size > amaMaxBytes {
				return nil, fmt.Errorf("%w: article %s", ErrSplitInfeasible, name)
			}
		}
		result[i] = RenderedArticle{Name: name, Lines: segLines}
	}
	return result, nil
}

// assignContinuationNames names the first segment filename and each
// following segment by truncating filename's stem to make room for a
// 2-digit (widening as needed) counter, resolving collisions against
// existingNames with a widening sub-counter, per §4.D.
func assignContinuationNames(filename string, count int, existingNames map[string]struct{}) []string {
	stem := stemOf(filename)
	names := make([]string, count)
	names[0] = filename

	taken := make(map[string]struct{}, len(existingNames)+count)
	for n := range existingNames {
		taken[n] = struct{}{}
	}
	taken[filename] = struct{}{}

	for i := 1; i < count; i++ {
		suffix := fmt.Sprintf("%02d", i)
		name := truncatedName(stem, suffix)
		counter := 1
		for {
			if _, exists := taken[name]; !exists {
				break
			}
			suffix = fmt.Sprintf("%02d%d", i, counter)
			name = truncatedName(stem, suffix)
			counter++
		}
		names[i] = name
		taken[name] = struct{}{}
	}
	return names
}

func truncatedName(stem, suffix string) string {
	trimLen := 8 - len(suffix)
	if trimLen < 1 {
		trimLen = 1
	}
	trimmed := stem
	if len(trimmed) > trimLen {
		trimmed = trimmed[:trimLen]
	}
	return trimmed + suffix + ".AMA"
}

func stemOf(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}

// joinRStripNewlineAppend joins lines with "\n", strips trailing "\n"s,
// then appends exactly one, per §3's RenderedArticle serialization rule.
func joinRStripNewlineAppend(lines []string) string {
	s := strings.Join(lines, "\n")
	s = strings.TrimRight(s, "\n")
	return s + "\n"
}
