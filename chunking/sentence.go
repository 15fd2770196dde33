package chunking

import "strings"

func (c *Chunker) sentence(text string) []span {
	pieces := c.packSentences(splitSentences(text))
	return resolveSpans(text, pieces)
}

// splitSentences cuts text after sentence-terminal punctuation followed
// by whitespace. The punctuation stays with its sentence; the whitespace
// run is dropped.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	i := 0
	for i < len(text) {
		if isSentenceEnd(text[i]) && i+1 < len(text) && isSpaceByte(text[i+1]) {
			sentences = append(sentences, text[start:i+1])
			i++
			for i < len(text) && isSpaceByte(text[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// packSentences joins consecutive sentences with single spaces while the
// running token total stays within the budget. A sentence that alone
// exceeds the budget is broken into word groups; its trailing partial
// group keeps accumulating with the sentences that follow.
func (c *Chunker) packSentences(sentences []string) []string {
	var pieces []string
	var group []string
	groupTokens := 0

	flush := func() {
		if len(group) > 0 {
			pieces = append(pieces, strings.Join(group, " "))
			group = nil
			groupTokens = 0
		}
	}

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		tokens := c.counter.Count(sentence)

		if tokens > c.cfg.ChunkSize {
			flush()

			words := strings.Fields(sentence)
			var wordGroup []string
			wordTokens := 0
			for _, word := range words {
				wt := c.counter.Count(word)
				if wordTokens+wt > c.cfg.ChunkSize {
					if len(wordGroup) > 0 {
						pieces = append(pieces, strings.Join(wordGroup, " "))
					}
					wordGroup = []string{word}
					wordTokens = wt
				} else {
					wordGroup = append(wordGroup, word)
					wordTokens += wt
				}
			}
			if len(wordGroup) > 0 {
				group = wordGroup
				groupTokens = wordTokens
			}
			continue
		}

		if groupTokens+tokens > c.cfg.ChunkSize {
			flush()
			group = []string{sentence}
			groupTokens = tokens
		} else {
			group = append(group, sentence)
			groupTokens += tokens
		}
	}

	flush()
	return pieces
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
