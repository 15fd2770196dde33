package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordText(t *testing.T) {
	record := Record{
		ID: "42",
		Fields: map[string]any{
			"content": "document body",
			"blob":    []byte("raw bytes"),
			"views":   17,
			"empty":   nil,
		},
	}

	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"string field", "content", "document body"},
		{"byte slice field", "blob", "raw bytes"},
		{"numeric field formatted", "views", "17"},
		{"nil field", "empty", ""},
		{"missing field", "title", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, record.Text(tt.field))
		})
	}
}
