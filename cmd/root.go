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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/veoprompt/internal/config"
)

var version = "0.1.0"

var (
	cfgFile string
	v       *viper.Viper
	appCfg  *config.Config
)

// flagKeys maps config keys to the flag names that may override them.
var flagKeys = map[string]string{
	"backend":         "backend",
	"model":           "model",
	"base_url":        "base-url",
	"api_key":         "api-key",
	"timeout":         "timeout",
	"translator":      "translator",
	"credentials":     "credentials",
	"plain":           "plain",
	"skip_validation": "skip-validation",
	"db_path":         "db",
	"no_history":      "no-history",
	"log_level":       "log-level",
	"log_format":      "log-format",
	"log_file":        "log-file",
	"listen":          "listen",
	"cors_origins":    "cors-origins",
}

var rootCmd = &cobra.Command{
	Use:   "veoprompt",
	Short: "Cinematic video prompt generator for Veo 3",
	Long: `Turns a structured scene description into a detailed Indonesian video prompt
with a text-generation model, then translates it to English while keeping the
spoken dialogue line untouched.

Supported backends: Gemini, OpenRouter, Ollama

Use "veoprompt generate --help" for generation options.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		v, err = config.New(cfgFile)
		if err != nil {
			return err
		}
		for key, name := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}
		appCfg, err = config.Load(v)
		return err
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ./veoprompt.yaml)")
	pf.StringP("backend", "b", "gemini", "Generation backend: gemini, openrouter, ollama")
	pf.StringP("model", "m", "", "Model name (backend default if empty)")
	pf.String("base-url", "", "Backend base URL (backend default if empty)")
	pf.String("api-key", "", "Backend API key (default from GEMINI_API_KEY / OPENROUTER_API_KEY)")
	pf.Duration("timeout", 0, "Timeout per backend request (default 2m)")
	pf.String("db", "veoprompt.db", "SQLite database for history and translation memory")
	pf.Bool("no-history", false, "Do not record generations or use translation memory")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "console", "Log format: console, json")
	pf.String("log-file", "", "Log file (default stderr)")
}
