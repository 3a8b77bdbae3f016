// Package relay builds the translation request for a generated scene
// paragraph. The dialogue line is wrapped in sentinel markers ([StartMarker]
// and [EndMarker]) that the model is told to copy through untouched; Strip
// removes them from the model's answer.
//
// Matching is a plain first-occurrence substring search. If the dialogue no
// longer appears verbatim (for example after the paragraph was edited by
// hand) nothing is wrapped and the whole paragraph is translated.
package relay

import (
	"fmt"
	"html"
	"strings"
)

const (
	StartMarker = "<<<DIALOGUE>>>"
	EndMarker   = "<<<END_DIALOGUE>>>"

	// NegativeLabel prefixes the translated exclusion list in the answer.
	NegativeLabel = "Negative prompt: "
)

// Mark wraps the first occurrence of dialogue in primary with the sentinel
// markers. It reports whether a span was wrapped; an empty or missing
// dialogue leaves primary unchanged.
func Mark(primary, dialogue string) (string, bool) {
	if dialogue == "" || !strings.Contains(primary, dialogue) {
		return primary, false
	}
	return strings.Replace(primary, dialogue, StartMarker+dialogue+EndMarker, 1), true
}

// BuildRequest returns the translation request for primary, with dialogue
// protected by Mark and the negative list appended for translation.
func BuildRequest(primary, dialogue, negative string) string {
	marked, _ := Mark(primary, dialogue)

	return fmt.Sprintf(`
Translate the following Indonesian video prompt and its associated negative prompt into fluent, cinematic English.

The final output must be a single text block. First, provide the translated main prompt. Then, on a new line, add "%s" followed by the translated negative prompt terms.

%s

Indonesian Prompt:
"""
%s
"""

Indonesian Negative Prompt:
"""
%s
"""

Return ONLY the final English text containing the translated main prompt and the negative prompt as specified.
`, NegativeLabel, InstructionHint(), marked, negative)
}

// InstructionHint is the sentence telling the model to leave the marked
// span alone.
func InstructionHint() string {
	return fmt.Sprintf(`It is absolutely critical that you DO NOT translate the specific quote intended for dialogue in the main prompt.
The dialogue is marked with %s and %s. Keep the text between these markers exactly as it is in the final English output.`,
		StartMarker, EndMarker)
}

// Strip removes the first occurrence of each marker and trims surrounding
// whitespace. Calling it again on its own output is a no-op.
func Strip(text string) string {
	text = strings.Replace(text, StartMarker, "", 1)
	text = strings.Replace(text, EndMarker, "", 1)
	return strings.TrimSpace(text)
}

// Validate reports whether dialogue survived verbatim in the translated
// text. An empty dialogue always passes.
func Validate(translated, dialogue string) bool {
	return dialogue == "" || strings.Contains(translated, dialogue)
}

const (
	htmlOpen  = `<span translate="no">`
	htmlClose = `</span>`
)

// MarkHTML is the machine-translation counterpart of Mark: it HTML-escapes
// primary and wraps the first occurrence of dialogue in a span carrying
// translate="no", which HTML-aware translation APIs leave untouched.
func MarkHTML(primary, dialogue string) string {
	i := -1
	if dialogue != "" {
		i = strings.Index(primary, dialogue)
	}
	if i < 0 {
		return html.EscapeString(primary)
	}

	var sb strings.Builder
	sb.WriteString(html.EscapeString(primary[:i]))
	sb.WriteString(htmlOpen)
	sb.WriteString(html.EscapeString(dialogue))
	sb.WriteString(htmlClose)
	sb.WriteString(html.EscapeString(primary[i+len(dialogue):]))
	return sb.String()
}

// StripHTML reverses MarkHTML on translated output.
func StripHTML(text string) string {
	text = strings.Replace(text, htmlOpen, "", 1)
	text = strings.Replace(text, htmlClose, "", 1)
	return strings.TrimSpace(html.UnescapeString(text))
}
