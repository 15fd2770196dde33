package core

import (
	"errors"
	"testing"
)

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &Chunk{
				Text:       "Hello world",
				ChunkIndex: 0,
				DocID:      "doc-1",
				StartChar:  0,
				EndChar:    11,
				TokenCount: 2,
			},
			wantErr: nil,
		},
		{
			name: "valid chunk without metadata",
			chunk: &Chunk{
				Text:       "Another span",
				ChunkIndex: 3,
				StartChar:  40,
				EndChar:    52,
				TokenCount: 2,
			},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name: "empty text",
			chunk: &Chunk{
				Text:      "",
				StartChar: 0,
				EndChar:   1,
			},
			wantErr: ErrEmptyChunkText,
		},
		{
			name: "whitespace-only text",
			chunk: &Chunk{
				Text:      "   \n\t  ",
				StartChar: 0,
				EndChar:   7,
			},
			wantErr: ErrEmptyChunkText,
		},
		{
			name: "negative index",
			chunk: &Chunk{
				Text:       "text",
				ChunkIndex: -1,
				StartChar:  0,
				EndChar:    4,
			},
			wantErr: ErrNegativeChunkIndex,
		},
		{
			name: "start equals end",
			chunk: &Chunk{
				Text:      "text",
				StartChar: 5,
				EndChar:   5,
			},
			wantErr: ErrInvalidOffsets,
		},
		{
			name: "start after end",
			chunk: &Chunk{
				Text:      "text",
				StartChar: 10,
				EndChar:   4,
			},
			wantErr: ErrInvalidOffsets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateVectorRecord(t *testing.T) {
	tests := []struct {
		name      string
		record    *VectorRecord
		dimension int
		wantErr   error
	}{
		{
			name: "valid record",
			record: &VectorRecord{
				ID:     "doc-1_0",
				Values: []float32{0.1, 0.2, 0.3},
			},
			dimension: 3,
			wantErr:   nil,
		},
		{
			name: "zero vector of correct dimension is valid",
			record: &VectorRecord{
				ID:     "doc-1_1",
				Values: []float32{0, 0, 0},
			},
			dimension: 3,
			wantErr:   nil,
		},
		{
			name:      "nil record",
			record:    nil,
			dimension: 3,
			wantErr:   ErrInvalidVectorRecord,
		},
		{
			name: "empty id",
			record: &VectorRecord{
				ID:     "",
				Values: []float32{0.1, 0.2, 0.3},
			},
			dimension: 3,
			wantErr:   ErrEmptyVectorID,
		},
		{
			name: "vector too short",
			record: &VectorRecord{
				ID:     "doc-1_2",
				Values: []float32{0.1, 0.2},
			},
			dimension: 3,
			wantErr:   ErrDimensionMismatch,
		},
		{
			name: "vector too long",
			record: &VectorRecord{
				ID:     "doc-1_3",
				Values: []float32{0.1, 0.2, 0.3, 0.4},
			},
			dimension: 3,
			wantErr:   ErrDimensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVectorRecord(tt.record, tt.dimension)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateVectorRecord() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateVectorRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
