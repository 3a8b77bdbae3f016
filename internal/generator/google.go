package generator

import (
	"context"
	"fmt"
	"html"
	"strings"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/valpere/veoprompt/internal"
	"github.com/valpere/veoprompt/internal/relay"
)

// GoogleTranslator translates the generated paragraph with Google Cloud
// Translation instead of a second model call. Dialogue is protected with a
// translate="no" span rather than the text sentinels.
type GoogleTranslator struct {
	credentials string
}

func NewGoogleTranslator(credentials string) *GoogleTranslator {
	return &GoogleTranslator{credentials: credentials}
}

func (s *GoogleTranslator) Name() string {
	return "google"
}

func (s *GoogleTranslator) Translate(ctx context.Context, primary, dialogue, negative string) (string, error) {
	source, err := language.Parse(internal.PrimaryLang)
	if err != nil {
		return "", fmt.Errorf("invalid source language: %w", err)
	}
	target, err := language.Parse(internal.SecondaryLang)
	if err != nil {
		return "", fmt.Errorf("invalid target language: %w", err)
	}

	opts := []option.ClientOption{}
	if s.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentials))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	inputs := []string{relay.MarkHTML(primary, dialogue)}
	if negative != "" {
		inputs = append(inputs, html.EscapeString(negative))
	}

	translations, err := client.Translate(ctx, inputs, target, &translate.Options{
		Source: source,
		Format: translate.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) != len(inputs) {
		return "", fmt.Errorf("expected %d translations, got %d", len(inputs), len(translations))
	}

	var sb strings.Builder
	sb.WriteString(relay.StripHTML(translations[0].Text))
	if negative != "" {
		sb.WriteString("\n")
		sb.WriteString(relay.NegativeLabel)
		sb.WriteString(strings.TrimSpace(html.UnescapeString(translations[1].Text)))
	}

	return sb.String(), nil
}
