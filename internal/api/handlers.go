package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/valpere/veoprompt/internal/examples"
	"github.com/valpere/veoprompt/internal/pipeline"
	"github.com/valpere/veoprompt/internal/scene"
	"github.com/valpere/veoprompt/internal/store"
)

const unlockHeader = "X-Unlock-Key"

// User-facing messages. Failure details go to the log only.
const (
	msgGenerateFailed  = "Gagal menghasilkan prompt. Silakan coba lagi. Pastikan API Key Anda sudah benar."
	msgTranslateFailed = "Gagal menerjemahkan prompt. Silakan coba lagi."
	msgWrongKey        = "Kata kunci salah. Coba lagi."
	msgBadRequest      = "Permintaan tidak valid."
)

const (
	defaultHistoryLimit = 20
	readyTimeout        = 5 * time.Second
)

type translateRequest struct {
	Primary        string `json:"primary" binding:"required"`
	Dialogue       string `json:"dialogue"`
	NegativePrompt string `json:"negative_prompt"`
}

// bindScene decodes the request body on top of the form defaults.
func bindScene(c *gin.Context) (scene.Scene, bool) {
	sc := scene.Default()
	if err := c.ShouldBindJSON(&sc); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return sc, false
	}
	return sc, true
}

// ready answers 503 while the generation backend is unusable (missing key,
// Ollama not running).
func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := s.pipeline.Ready(ctx); err != nil {
		c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "backend": s.pipeline.Backend()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": s.pipeline.Backend()})
}

func (s *Server) compile(c *gin.Context) {
	sc, ok := bindScene(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompt": s.pipeline.Compile(sc)})
}

func (s *Server) generate(c *gin.Context) {
	sc, ok := bindScene(c)
	if !ok {
		return
	}

	res, err := s.pipeline.Generate(c.Request.Context(), sc)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, res)
	case errors.Is(err, pipeline.ErrTranslation):
		c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": msgGenerateFailed, "primary": res.Primary})
	default:
		c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": msgGenerateFailed})
	}
}

func (s *Server) translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}

	secondary, err := s.pipeline.Translate(c.Request.Context(), req.Primary, req.Dialogue, req.NegativePrompt)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": msgTranslateFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"secondary": secondary})
}

func (s *Server) examples(c *gin.Context) {
	gate := examples.NewGate(s.config.UnlockKey)
	if key := c.GetHeader(unlockHeader); key != "" {
		if err := gate.Unlock(key); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": msgWrongKey})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"examples": gate.Visible(),
		"locked":   !gate.Unlocked(),
		"total":    len(examples.All()),
	})
}

func (s *Server) listHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is disabled"})
		return
	}

	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
			return
		}
		limit = n
	}

	items, err := s.history.ListGenerations(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"generations": items})
}

func (s *Server) getHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is disabled"})
		return
	}

	g, err := s.history.GetGeneration(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "generation not found"})
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, g)
}
