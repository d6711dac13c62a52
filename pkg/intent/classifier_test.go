package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"opsmith/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected types.Intent
	}{
		{
			name:     "create with file token",
			input:    "create a styles.css file",
			expected: types.IntentWrite,
		},
		{
			name:     "write new file phrasing",
			input:    "write a new config file",
			expected: types.IntentWrite,
		},
		{
			name:     "edit with path",
			input:    "edit src/main.go to add logging",
			expected: types.IntentEdit,
		},
		{
			name:     "modify phrasing",
			input:    "modify index.html",
			expected: types.IntentEdit,
		},
		{
			name:     "move with source and destination",
			input:    "move notes.txt to docs/notes.txt",
			expected: types.IntentMove,
		},
		{
			name:     "rename",
			input:    "rename old.go to new.go",
			expected: types.IntentMove,
		},
		{
			name:     "plan request",
			input:    "plan out the new authentication flow",
			expected: types.IntentPlan,
		},
		{
			name:     "question defaults to ask",
			input:    "what does the resolver do",
			expected: types.IntentAsk,
		},
		{
			name:     "explain is ask",
			input:    "explain how the caching layer works",
			expected: types.IntentAsk,
		},
		{
			name:     "no match defaults to ask",
			input:    "lorem ipsum dolor",
			expected: types.IntentAsk,
		},
		{
			name:     "empty input is ask",
			input:    "   ",
			expected: types.IntentAsk,
		},
	}

	classifier := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.input))
		})
	}
}

func TestClassifyPatternBeatsKeyword(t *testing.T) {
	classifier := NewClassifier()

	// "fix" is an edit keyword, but the structural move pattern is more
	// specific and must win.
	result := classifier.Classify("move broken.go to fixed/broken.go")
	assert.Equal(t, types.IntentMove, result)
}

func TestClassifyIsPure(t *testing.T) {
	classifier := NewClassifier()
	input := "create a css file and modify index.html to link it"

	first := classifier.Classify(input)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, classifier.Classify(input))
	}
}
