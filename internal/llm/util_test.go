package llm

import "testing"

func TestCleanCodeBlock(t *testing.T) {
	doc := "\\documentclass{article}\n\\begin{document}\nHi\n\\end{document}"
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "latex fence", input: "```latex\n" + doc + "\n```", expected: doc},
		{name: "tex fence", input: "```tex\n" + doc + "\n```\n", expected: doc},
		{name: "bare fence", input: "```\n" + doc + "\n```", expected: doc},
		{name: "fence opening on the content line", input: "```\\documentclass{article}\n```", expected: "\\documentclass{article}"},
		{name: "no fence", input: "  " + doc + "\n", expected: doc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanCodeBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanCodeBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}
