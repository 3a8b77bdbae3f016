package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/valpere/veoprompt/internal/scene"
)

// ErrBusy is returned when a generation is already running for the state.
var ErrBusy = errors.New("generation already in progress")

// State is the caller-owned form and result of one editing session.
type State struct {
	mu      sync.Mutex
	scene   scene.Scene
	result  Result
	loading bool
	err     error
}

func NewState(sc scene.Scene) *State {
	return &State{scene: sc}
}

func (s *State) Scene() scene.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene
}

func (s *State) SetScene(sc scene.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene = sc
}

func (s *State) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err is the failure of the last Generate or Retranslate, or nil.
func (s *State) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Generate runs p over the current scene. A generation failure keeps the
// previous result; a translation failure keeps the new primary text and
// clears the secondary one.
func (s *State) Generate(ctx context.Context, p *Pipeline) error {
	sc, err := s.begin()
	if err != nil {
		return err
	}

	res, err := p.Generate(ctx, sc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = err
	switch {
	case err == nil:
		s.result = res
	case errors.Is(err, ErrTranslation):
		s.result = Result{Primary: res.Primary}
	}
	return err
}

// EditPrimary replaces the primary text. The secondary text is left as is
// until Retranslate.
func (s *State) EditPrimary(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.Primary = text
}

// Retranslate translates the current (possibly edited) primary text. On
// failure the secondary text is cleared.
func (s *State) Retranslate(ctx context.Context, p *Pipeline) error {
	sc, err := s.begin()
	if err != nil {
		return err
	}

	s.mu.Lock()
	primary := s.result.Primary
	s.mu.Unlock()

	secondary, err := p.Translate(ctx, primary, sc.Dialogue, sc.NegativePrompt)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = err
	if err != nil {
		s.result.Secondary = ""
		return err
	}
	s.result.Secondary = secondary
	return nil
}

func (s *State) begin() (scene.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return scene.Scene{}, ErrBusy
	}
	s.loading = true
	s.err = nil
	return s.scene, nil
}
