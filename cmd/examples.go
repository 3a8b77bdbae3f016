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
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/veoprompt/internal/examples"
)

var unlockKey string

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List the built-in tense action example scenes",
	Long: `List the built-in example scenes. Only the first one is shown until the
keyword is given with --unlock-key. Use an example with:

  veoprompt generate --example 2 --unlock-key <keyword>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gate := examples.NewGate("")
		if unlockKey != "" {
			if err := gate.Unlock(unlockKey); err != nil {
				return fmt.Errorf("%w, coba lagi", err)
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tTITLE\tAKSI\tTEMPAT")
		for i, ex := range gate.Visible() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, ex.Title, snippet(ex.Action, 50), snippet(ex.Location, 40))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if !gate.Unlocked() {
			hidden := len(examples.All()) - len(gate.Visible())
			fmt.Printf("\nHanya %d contoh yang ditampilkan (%d terkunci). Gunakan --unlock-key untuk membuka semua contoh.\n",
				len(gate.Visible()), hidden)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(examplesCmd)

	examplesCmd.Flags().StringVar(&unlockKey, "unlock-key", "", "Keyword that unlocks all examples")
}
