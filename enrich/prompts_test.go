package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Template
		wantErr bool
	}{
		{name: "default", input: "default", want: TemplateDefault},
		{name: "detailed", input: "detailed", want: TemplateDetailed},
		{name: "technical", input: "technical", want: TemplateTechnical},
		{name: "empty", input: "", wantErr: true},
		{name: "uppercase", input: "DEFAULT", wantErr: true},
		{name: "unknown", input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTemplate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownTemplate)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderPrompt(t *testing.T) {
	t.Run("default embeds the text", func(t *testing.T) {
		prompt := renderPrompt(TemplateDefault, "the excerpt", "ignored")

		assert.Contains(t, prompt, "TEXT:\nthe excerpt")
		assert.NotContains(t, prompt, "DOCUMENT CONTEXT")
		assert.Contains(t, prompt, `"contextual_summary"`)
	})

	t.Run("detailed embeds the document context", func(t *testing.T) {
		prompt := renderPrompt(TemplateDetailed, "the excerpt", "a manual about pumps")

		assert.Contains(t, prompt, "TEXT:\nthe excerpt")
		assert.Contains(t, prompt, "DOCUMENT CONTEXT: a manual about pumps")
	})

	t.Run("detailed without context uses marker", func(t *testing.T) {
		prompt := renderPrompt(TemplateDetailed, "the excerpt", "")

		assert.Contains(t, prompt, "DOCUMENT CONTEXT: not specified")
	})

	t.Run("technical embeds the text", func(t *testing.T) {
		prompt := renderPrompt(TemplateTechnical, "the excerpt", "")

		assert.Contains(t, prompt, "TEXT:\nthe excerpt")
		assert.Contains(t, prompt, "terminology")
	})

	t.Run("unknown falls back to default", func(t *testing.T) {
		prompt := renderPrompt(Template("bogus"), "the excerpt", "")

		assert.Equal(t, renderPrompt(TemplateDefault, "the excerpt", ""), prompt)
	})
}
