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
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/veoprompt/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generator over HTTP",
	Long: `Start the HTTP API used by the browser form:

  POST /api/compile     scene -> generation request
  POST /api/generate    scene -> {primary, secondary}
  POST /api/translate   {primary, dialogue, negative_prompt} -> {secondary}
  GET  /api/examples    built-in scenes (X-Unlock-Key header unlocks all)
  GET  /api/history     recent generations
  GET  /readyz          generation backend availability
  GET  /metrics         Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		gin.SetMode(gin.ReleaseMode)
		if appCfg.LogLevel == "debug" {
			gin.SetMode(gin.DebugMode)
		}

		var history api.History
		if a.store != nil {
			history = a.store
		}
		server := api.New(a.pipeline, history, api.Config{CORSOrigins: appCfg.CORSOrigins}, a.logger)

		readyCtx, readyCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.pipeline.Ready(readyCtx); err != nil {
			a.logger.Warn("Generation backend not ready", zap.String("backend", a.pipeline.Backend()), zap.Error(err))
		}
		readyCancel()

		srv := &http.Server{
			Addr:              appCfg.Listen,
			Handler:           server.Router(),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.logger.Info("Starting HTTP server", zap.String("addr", appCfg.Listen))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			a.logger.Info("Shutting down HTTP server", zap.String("signal", sig.String()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", ":8080", "Listen address")
	serveCmd.Flags().StringSlice("cors-origins", []string{"*"}, "Allowed CORS origins")
	addPipelineFlags(serveCmd)
}
