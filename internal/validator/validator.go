// Package validator checks that generated text is in the expected language.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/veoprompt/internal"
	"github.com/valpere/veoprompt/internal/detector"
	"github.com/valpere/veoprompt/internal/relay"
)

// minValidationLength is the minimum rune count required to attempt language detection.
// Shorter texts produce unreliable results and are accepted without validation.
const minValidationLength = 20

// Validator checks that a text is written in the expected language.
// The underlying language detector is expensive to build; reuse the instance.
type Validator struct {
	det *detector.Detector
}

// New creates a Validator backed by the lingua-go language detector.
func New() *Validator {
	return &Validator{det: detector.New()}
}

// IsValid returns true when text appears to be written in lang.
//
// Short texts (fewer than minValidationLength runes) and texts whose language
// cannot be determined pass without error. When the detected language differs
// from lang the returned error names both codes.
func (v *Validator) IsValid(text, lang string) (bool, error) {
	if lang == "" {
		return true, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return false, fmt.Errorf("text is empty")
	}

	if len([]rune(text)) < minValidationLength {
		return true, nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return true, nil
	}

	if !strings.EqualFold(detected, lang) {
		return false, fmt.Errorf("expected %s but detected %s", lang, detected)
	}

	return true, nil
}

// CheckPrimary validates the generated paragraph.
func (v *Validator) CheckPrimary(text string) (bool, error) {
	return v.IsValid(text, internal.PrimaryLang)
}

// CheckSecondary validates the translated paragraph. The preserved dialogue
// and everything from the negative prompt label on are left out, since
// they are expected to stay in the source language or be too short to judge.
func (v *Validator) CheckSecondary(text, dialogue string) (bool, error) {
	body := text
	if i := strings.Index(body, relay.NegativeLabel); i >= 0 {
		body = body[:i]
	}
	if dialogue != "" {
		body = strings.Replace(body, dialogue, "", 1)
	}
	return v.IsValid(body, internal.SecondaryLang)
}
