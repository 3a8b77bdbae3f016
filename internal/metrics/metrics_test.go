package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDispatch(t *testing.T) {
	before := testutil.ToFloat64(dispatchTotal.WithLabelValues("gemini", StageGenerate, "success"))
	beforeErr := testutil.ToFloat64(dispatchTotal.WithLabelValues("gemini", StageGenerate, "error"))

	ObserveDispatch("gemini", StageGenerate, 150*time.Millisecond, nil)
	ObserveDispatch("gemini", StageGenerate, time.Second, errors.New("boom"))

	assert.Equal(t, before+1, testutil.ToFloat64(dispatchTotal.WithLabelValues("gemini", StageGenerate, "success")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(dispatchTotal.WithLabelValues("gemini", StageGenerate, "error")))
}

func TestDialogueProtected(t *testing.T) {
	before := testutil.ToFloat64(dialogueProtected.WithLabelValues("wrapped"))
	DialogueProtected("wrapped")
	assert.Equal(t, before+1, testutil.ToFloat64(dialogueProtected.WithLabelValues("wrapped")))
}

func TestCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))

	CacheLookup(true)
	CacheLookup(false)
	CacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheLookups.WithLabelValues("miss")))
}

func TestRegistryGathers(t *testing.T) {
	ObserveDispatch("ollama", StageTranslate, time.Millisecond, nil)

	families, err := Registry.Gather()
	assert.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["veoprompt_dispatch_total"])
	assert.True(t, names["veoprompt_dispatch_duration_seconds"])
}
