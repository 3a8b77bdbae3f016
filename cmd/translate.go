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
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/veoprompt/internal/pipeline"
	"github.com/valpere/veoprompt/internal/scene"
)

var (
	inputFile      string
	fromGeneration string
	dialogue       string
	negativePrompt string
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate an (edited) Indonesian prompt to English",
	Long: `Run only the translation step, for a primary text edited by hand.

The dialogue line is protected only if it still appears verbatim in the text.

  veoprompt translate -i edited.txt --dialogue "Ayo!" --negative-prompt "buram, teks"
  veoprompt translate --from <history-id> -i edited.txt
  cat edited.txt | veoprompt translate -i -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		primary, err := readPrimary(cmd, args)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		dl, neg := dialogue, negativePrompt
		if fromGeneration != "" {
			if a.store == nil {
				return fmt.Errorf("--from needs the history database (remove --no-history)")
			}
			g, err := a.store.GetGeneration(ctx, fromGeneration)
			if err != nil {
				return err
			}
			var sc scene.Scene
			if err := json.Unmarshal([]byte(g.SceneJSON), &sc); err != nil {
				return fmt.Errorf("failed to decode stored scene: %w", err)
			}
			if !cmd.Flags().Changed("dialogue") {
				dl = sc.Dialogue
			}
			if !cmd.Flags().Changed("negative-prompt") {
				neg = sc.NegativePrompt
			}
			if primary == "" {
				primary = g.Primary
			}
		}

		if strings.TrimSpace(primary) == "" {
			return fmt.Errorf("nothing to translate: pass text, --input or --from")
		}

		base := scene.Default()
		base.Dialogue, base.NegativePrompt = dl, neg
		st := pipeline.NewState(base)
		st.EditPrimary(primary)
		if err := st.Retranslate(ctx, a.pipeline); err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), st.Result().Secondary+"\n")
	},
}

func readPrimary(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	switch inputFile {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "File with the Indonesian text ('-' for stdin)")
	translateCmd.Flags().StringVar(&fromGeneration, "from", "", "History id to take dialogue, negative prompt and (by default) text from")
	translateCmd.Flags().StringVarP(&dialogue, "dialogue", "d", "", "Dialogue line to keep untranslated")
	translateCmd.Flags().StringVarP(&negativePrompt, "negative-prompt", "n", scene.DefaultNegativePrompt, "Exclusion list to translate")
	addPipelineFlags(translateCmd)
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Also write the result to this file")
}
