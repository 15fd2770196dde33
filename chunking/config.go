package chunking

import "fmt"

// Config bounds chunk sizes.
//
// ChunkSize is the budget per chunk: a token budget for the recursive and
// sentence strategies, a character count for the fixed-size strategy.
// ChunkOverlap is the character overlap between consecutive fixed-size
// windows; the token strategies ignore it.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	MaxChunkSize int
}

// DefaultConfig returns the standard chunking configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		MaxChunkSize: 2000,
	}
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeOverlap, c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap %d, size %d", ErrOverlapTooLarge, c.ChunkOverlap, c.ChunkSize)
	}
	if c.MaxChunkSize > 0 && c.ChunkSize > c.MaxChunkSize {
		return fmt.Errorf("%w: size %d, max %d", ErrChunkSizeExceedsMax, c.ChunkSize, c.MaxChunkSize)
	}
	return nil
}
