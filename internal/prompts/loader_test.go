package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get("technical.json", "followup")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "follow-up question")
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get("technical.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		expected string
	}{
		{
			name:     "single placeholder",
			template: "Ask a question for the role of {{.Role}}.",
			data:     map[string]string{"Role": "SDE"},
			expected: "Ask a question for the role of SDE.",
		},
		{
			name:     "multiple placeholders",
			template: "Q: {{.Question}} A: {{.Answer}}",
			data:     map[string]string{"Question": "why", "Answer": "because"},
			expected: "Q: why A: because",
		},
		{
			name:     "missing key leaves placeholder",
			template: "Hello {{.Name}}",
			data:     map[string]string{},
			expected: "Hello {{.Name}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.template, tt.data))
		})
	}
}

func TestAllPromptFilesParse(t *testing.T) {
	files := []string{
		"technical.json", "behavioral.json", "sales.json",
		"coding.json", "closing.json", "feedback.json",
	}
	for _, f := range files {
		_, err := loadFile(f)
		require.NoError(t, err, f)
	}
}
