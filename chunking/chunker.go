// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunking

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/indexit/core"
)

// Strategy selects the splitting algorithm.
type Strategy string

const (
	// StrategyFixedSize slides a character window with overlap, pulling
	// each cut back to the preceding space.
	StrategyFixedSize Strategy = "fixed_size"

	// StrategyRecursive splits on progressively finer separators under a
	// token budget.
	StrategyRecursive Strategy = "recursive"

	// StrategySentence accumulates whole sentences under a token budget.
	StrategySentence Strategy = "sentence"

	// StrategySemantic is an alias of StrategyRecursive. There is no
	// independent semantic-clustering algorithm; chunks produced under
	// this selector carry the recursive strategy tag.
	StrategySemantic Strategy = "semantic"
)

// ParseStrategy maps a configuration string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyFixedSize, StrategyRecursive, StrategySentence, StrategySemantic:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// span is a strategy's raw output before chunk assembly.
type span struct {
	text  string
	start int
	end   int
}

// Chunker splits document text into ordered, bounded chunks.
type Chunker struct {
	cfg      Config
	counter  TokenCounter
	strategy Strategy
	logger   *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithStrategy sets the default strategy used by Chunk.
// Default is StrategyRecursive.
func WithStrategy(strategy Strategy) Option {
	return func(c *Chunker) error {
		if _, err := ParseStrategy(string(strategy)); err != nil {
			return err
		}
		c.strategy = strategy
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a Chunker.
func New(counter TokenCounter, cfg Config, opts ...Option) (*Chunker, error) {
	if counter == nil {
		return nil, ErrTokenCounterRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Chunker{
		cfg:      cfg,
		counter:  counter,
		strategy: StrategyRecursive,
		logger:   slog.Default().With("component", "chunker"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Chunk splits text into an ordered chunk sequence using the default
// strategy. Metadata is copied into every chunk along with a "strategy"
// tag naming the algorithm that produced it.
func (c *Chunker) Chunk(text, docID string, metadata map[string]any) ([]core.Chunk, error) {
	return c.ChunkWithStrategy(text, docID, metadata, c.strategy)
}

// ChunkWithStrategy is Chunk with an explicit strategy selector.
func (c *Chunker) ChunkWithStrategy(text, docID string, metadata map[string]any, strategy Strategy) ([]core.Chunk, error) {
	var spans []span
	tag := strategy

	switch strategy {
	case StrategyFixedSize:
		spans = c.fixedSize(text)
	case StrategyRecursive:
		spans = c.recursive(text)
	case StrategySemantic:
		// Alias: the recursive splitter does the work and the chunks are
		// tagged accordingly.
		c.logger.Warn("semantic strategy falls back to recursive splitting")
		spans = c.recursive(text)
		tag = StrategyRecursive
	case StrategySentence:
		spans = c.sentence(text)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	chunks := c.assemble(spans, docID, metadata, tag)
	c.logger.Info("document chunked",
		"doc_id", docID, "strategy", string(strategy), "chunks", len(chunks))
	return chunks, nil
}

// assemble turns raw spans into chunks. Indices follow emission order,
// zero-based and contiguous; whitespace-only spans never reach here.
func (c *Chunker) assemble(spans []span, docID string, metadata map[string]any, tag Strategy) []core.Chunk {
	chunks := make([]core.Chunk, 0, len(spans))
	for _, s := range spans {
		md := make(map[string]any, len(metadata)+1)
		for k, v := range metadata {
			md[k] = v
		}
		md["strategy"] = string(tag)

		chunks = append(chunks, core.Chunk{
			Text:       s.text,
			ChunkIndex: len(chunks),
			DocID:      docID,
			StartChar:  s.start,
			EndChar:    s.end,
			TokenCount: c.counter.Count(s.text),
			Metadata:   md,
		})
	}
	return chunks
}

// fixedSize slides a ChunkSize-character window over the text. Interior
// cuts are pulled back to the last space in the window so words stay
// whole; the next window starts overlap characters before the previous
// end, but never at or before the previous start.
func (c *Chunker) fixedSize(text string) []span {
	var spans []span
	size := c.cfg.ChunkSize
	overlap := c.cfg.ChunkOverlap

	start := 0
	for start < len(text) {
		end := start + size
		if end < len(text) {
			if idx := strings.LastIndex(text[start:end], " "); idx > 0 {
				end = start + idx
			}
			// Never cut mid-rune; extend to the next boundary.
			for end < len(text) && !utf8.RuneStart(text[end]) {
				end++
			}
		} else {
			end = len(text)
		}

		if trimmed := strings.TrimSpace(text[start:end]); trimmed != "" {
			spans = append(spans, span{text: trimmed, start: start, end: end})
		}

		if next := end - overlap; next > start {
			start = next
			for start < len(text) && !utf8.RuneStart(text[start]) {
				start++
			}
		} else {
			start = end
		}
	}
	return spans
}

// resolveSpans recovers byte offsets for strategy output by searching
// forward from where the previous chunk ended. Offsets are approximate
// when chunk text recurs verbatim earlier in the document, but remain
// monotonic.
func resolveSpans(text string, pieces []string) []span {
	spans := make([]span, 0, len(pieces))
	pos := 0
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		start := pos
		if idx := strings.Index(text[pos:], piece); idx >= 0 {
			start = pos + idx
		}
		end := start + len(piece)

		spans = append(spans, span{text: piece, start: start, end: end})
		pos = end
	}
	return spans
}
