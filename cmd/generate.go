/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/valpere/veoprompt/internal/pipeline"
)

var (
	outputFile   string
	outputFormat string
	dryRun       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the Indonesian scene prompt and its English translation",
	Long: `Compile the scene into a generation request, send it to the backend, then
translate the answer to English with the dialogue line protected.

The scene starts from the form defaults and is overridden, in order, by
--example, --scene and the individual field flags:

  veoprompt generate --example 1
  veoprompt generate -f scene.yaml --dialogue "Kita harus pergi sekarang!"
  veoprompt generate --name Raka --action "berlari di tengah hujan" --format json

Translators:
  - llm      Same backend, dialogue wrapped in sentinel markers (default)
  - google   Google Cloud Translation (requires credentials)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := sceneFromFlags(cmd)
		if err != nil {
			return err
		}

		if dryRun {
			return writeOutput(cmd.OutOrStdout(), compileOutput(sc))
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		st := pipeline.NewState(sc)
		genErr := st.Generate(ctx, a.pipeline)
		if genErr != nil && !errors.Is(genErr, pipeline.ErrTranslation) {
			return genErr
		}

		if err := writeOutput(cmd.OutOrStdout(), formatResult(st.Result())); err != nil {
			return err
		}
		return genErr
	},
}

func formatResult(res pipeline.Result) string {
	if outputFormat == "json" {
		data, _ := json.MarshalIndent(res, "", "  ")
		return string(data) + "\n"
	}
	out := "=== Prompt (Bahasa Indonesia) ===\n" + res.Primary + "\n"
	if res.Secondary != "" {
		out += "\n=== Prompt (English) ===\n" + res.Secondary + "\n"
	}
	return out
}

// writeOutput prints s and, with --output, also writes it to the file.
func writeOutput(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	if outputFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputFile, []byte(s), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Also write the result to this file")
	cmd.Flags().StringVar(&outputFormat, "format", "text", "Output format: text, json")
}

func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("translator", "t", "llm", "Translator: llm, google")
	cmd.Flags().StringP("credentials", "c", "", "Path to Google Cloud credentials (google translator)")
	cmd.Flags().Bool("plain", false, "Strip markdown from the generated paragraph")
	cmd.Flags().Bool("skip-validation", false, "Skip language detection of the results")
}

func init() {
	rootCmd.AddCommand(generateCmd)

	addSceneFlags(generateCmd)
	addPipelineFlags(generateCmd)
	addOutputFlags(generateCmd)
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the compiled request without sending it")
}
