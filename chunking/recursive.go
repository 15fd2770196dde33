package chunking

import "strings"

// recursiveSeparators is ordered coarse to fine: paragraph break, line
// break, sentence boundary, word boundary.
var recursiveSeparators = []string{"\n\n", "\n", ". ", " "}

func (c *Chunker) recursive(text string) []span {
	pieces := c.splitRecursive(text, recursiveSeparators)
	return resolveSpans(text, pieces)
}

// splitRecursive splits text on the coarsest separator and greedily packs
// consecutive pieces while the running token total stays within the
// budget. A piece that alone exceeds the budget is split again on the
// remaining finer separators; when none remain it is returned as-is,
// which is the accepted degradation for a single irreducible span.
func (c *Chunker) splitRecursive(text string, separators []string) []string {
	if len(separators) == 0 || c.counter.Count(text) <= c.cfg.ChunkSize {
		return []string{text}
	}

	separator := separators[0]
	remaining := separators[1:]

	splits := strings.Split(text, separator)
	var result []string
	var group []string
	groupTokens := 0

	flush := func() {
		if len(group) > 0 {
			result = append(result, strings.Join(group, separator))
			group = nil
			groupTokens = 0
		}
	}

	for _, piece := range splits {
		pieceTokens := c.counter.Count(piece)

		if pieceTokens > c.cfg.ChunkSize {
			// The open group is emitted first so order is preserved, then
			// the oversized piece is reduced on finer separators.
			flush()
			result = append(result, c.splitRecursive(piece, remaining)...)
			continue
		}

		if groupTokens+pieceTokens > c.cfg.ChunkSize {
			flush()
			group = []string{piece}
			groupTokens = pieceTokens
		} else {
			group = append(group, piece)
			groupTokens += pieceTokens
		}
	}

	flush()
	return result
}
