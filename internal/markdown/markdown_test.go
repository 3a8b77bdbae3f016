package markdown

import "testing"

func TestFlatten(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text",
			input:    "Seorang pria berlari di bawah hujan.",
			expected: "Seorang pria berlari di bawah hujan.",
		},
		{
			name:     "bold and italic",
			input:    "**Raka** berlari *cepat* menembus hujan.",
			expected: "Raka berlari cepat menembus hujan.",
		},
		{
			name:     "quoted dialogue survives",
			input:    `Dia berteriak, "Tunggu aku!", menuju hutan.`,
			expected: `Dia berteriak, "Tunggu aku!", menuju hutan.`,
		},
		{
			name:     "ampersand decoded",
			input:    "Hujan & guntur",
			expected: "Hujan & guntur",
		},
		{
			name:     "heading dropped to text",
			input:    "# Adegan",
			expected: "Adegan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Flatten(tt.input); got != tt.expected {
				t.Errorf("Flatten(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStripHTMLTags(t *testing.T) {
	got := StripHTMLTags("<p>Hello <b>world</b></p>")
	if got != "Hello world" {
		t.Errorf("expected 'Hello world', got %q", got)
	}
}
