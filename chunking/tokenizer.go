package chunking

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used when none is configured.
// cl100k_base matches the OpenAI embedding and chat models this pipeline
// targets.
const DefaultEncoding = "cl100k_base"

// TokenCounter counts tokens in a text span. Every chunking strategy
// sizes its output through one, so budgets are model-accurate rather
// than character approximations.
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts tokens using a tiktoken BPE encoding.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter returns a counter for a named encoding such as
// cl100k_base.
func NewTiktokenCounter(encodingName string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encodingName, err)
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

// NewTiktokenCounterForModel returns a counter using the encoding
// registered for the given model name.
func NewTiktokenCounterForModel(model string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("load encoding for model %q: %w", model, err)
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

// Count returns the number of tokens in text.
func (t *TiktokenCounter) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}
