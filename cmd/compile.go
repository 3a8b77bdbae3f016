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
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/veoprompt/internal/compiler"
	"github.com/valpere/veoprompt/internal/scene"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Print the generation request for a scene without sending it",
	Long: `Build the Indonesian generation request from the scene exactly as
'generate' would, and print it. No backend or API key is needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := sceneFromFlags(cmd)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), compileOutput(sc))
	},
}

func compileOutput(sc scene.Scene) string {
	prompt := compiler.Compile(sc)
	if outputFormat == "json" {
		data, _ := json.MarshalIndent(map[string]string{"prompt": prompt}, "", "  ")
		return string(data) + "\n"
	}
	return strings.TrimSpace(prompt) + "\n"
}

func init() {
	rootCmd.AddCommand(compileCmd)

	addSceneFlags(compileCmd)
	addOutputFlags(compileCmd)
}
