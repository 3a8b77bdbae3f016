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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/veoprompt/internal/examples"
	"github.com/valpere/veoprompt/internal/generator"
	"github.com/valpere/veoprompt/internal/logger"
	"github.com/valpere/veoprompt/internal/pipeline"
	"github.com/valpere/veoprompt/internal/scene"
	"github.com/valpere/veoprompt/internal/store"
	"github.com/valpere/veoprompt/internal/validator"
)

// app holds what a dispatching command needs.
type app struct {
	logger   *zap.Logger
	store    *store.Store
	pipeline *pipeline.Pipeline
}

// newApp validates the configuration and builds the pipeline. A missing API
// key fails here, before any request is made.
func newApp() (*app, error) {
	if err := appCfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(appCfg.LoggerConfig())
	if err != nil {
		return nil, err
	}

	gen, err := generator.New(appCfg.ServiceConfig())
	if err != nil {
		return nil, err
	}

	var tr generator.Translator
	if appCfg.Translator == "google" {
		tr = generator.NewGoogleTranslator(appCfg.Credentials)
	}

	opts := []pipeline.Option{pipeline.WithLogger(log)}

	a := &app{logger: log}
	if !appCfg.NoHistory && appCfg.DBPath != "" {
		st, err := openStore(appCfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.store = st
		opts = append(opts, pipeline.WithStore(st))
	}

	if !appCfg.SkipValidation {
		opts = append(opts, pipeline.WithValidator(validator.New()))
	}

	a.pipeline = pipeline.New(gen, tr, pipeline.Config{
		Model:   appCfg.Model,
		Timeout: appCfg.Timeout,
		Plain:   appCfg.Plain,
	}, opts...)

	log.Debug("pipeline ready",
		zap.String("backend", a.pipeline.Backend()),
		zap.String("model", a.pipeline.Model()),
		zap.String("translator", appCfg.Translator))

	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}

func openStore(path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

// addSceneFlags registers --scene, --example, --unlock-key and one flag per
// scene field (underscores become dashes, e.g. --skin-color).
func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("scene", "f", "", "Scene file (YAML, JSON or TOML)")
	cmd.Flags().Int("example", 0, "Start from built-in example N (see 'veoprompt examples')")
	cmd.Flags().String("unlock-key", "", "Keyword that unlocks all built-in examples")
	cmd.Flags().String("title", "", "Scene title")
	for _, f := range scene.Default().Fields() {
		cmd.Flags().String(flagName(f.Key), "", f.Label)
	}
}

// sceneFromFlags builds the scene: defaults, then the example, then the
// scene file, then individual field flags. Each layer only replaces the
// fields it sets.
func sceneFromFlags(cmd *cobra.Command) (scene.Scene, error) {
	sc := scene.Default()

	if n, _ := cmd.Flags().GetInt("example"); n > 0 {
		gate := examples.NewGate("")
		if key, _ := cmd.Flags().GetString("unlock-key"); key != "" {
			if err := gate.Unlock(key); err != nil {
				return sc, err
			}
		}
		ex, err := gate.Example(n - 1)
		if err != nil {
			return sc, err
		}
		sc = ex
	}

	if path, _ := cmd.Flags().GetString("scene"); path != "" {
		loaded, err := scene.LoadOnto(path, sc)
		if err != nil {
			return sc, err
		}
		sc = loaded
	}

	keys := []string{"title"}
	for _, f := range sc.Fields() {
		keys = append(keys, f.Key)
	}
	for _, key := range keys {
		fl := cmd.Flags().Lookup(flagName(key))
		if fl == nil || !fl.Changed {
			continue
		}
		if err := sc.Set(key, fl.Value.String()); err != nil {
			return sc, err
		}
	}

	return sc, nil
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
