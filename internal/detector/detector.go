// Package detector identifies the language of generated text.
package detector

import (
	lingua "github.com/pemistahl/lingua-go"
)

// DefaultLanguages is the candidate set used when New is called without
// arguments. Malay is left out on purpose: it is too close to Indonesian for
// short paragraphs and would produce false mismatches.
var DefaultLanguages = []lingua.Language{
	lingua.Indonesian,
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Dutch,
}

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over languages, or DefaultLanguages when none are
// given. At least two languages are required.
func New(languages ...lingua.Language) *Detector {
	if len(languages) < 2 {
		languages = DefaultLanguages
	}
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.IsoCode639_1().String(), true
}
