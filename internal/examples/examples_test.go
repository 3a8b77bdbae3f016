package examples

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	for _, ex := range all {
		assert.NotEmpty(t, ex.Title)
		assert.NotEmpty(t, ex.Dialogue)
		assert.NotEmpty(t, ex.NegativePrompt)
	}

	all[0].Title = "changed"
	assert.NotEqual(t, "changed", All()[0].Title, "All must return a copy")
}

func TestGate_LockedShowsFirstOnly(t *testing.T) {
	g := NewGate("")

	assert.False(t, g.Unlocked())
	visible := g.Visible()
	require.Len(t, visible, LockedVisible)
	assert.Equal(t, All()[0].Title, visible[0].Title)
}

func TestGate_WrongKey(t *testing.T) {
	g := NewGate("")

	assert.ErrorIs(t, g.Unlock("LANEXA@25"), ErrWrongKey)
	assert.ErrorIs(t, g.Unlock(""), ErrWrongKey)
	assert.False(t, g.Unlocked())
}

func TestGate_Unlock(t *testing.T) {
	g := NewGate("")

	require.NoError(t, g.Unlock(UnlockKey))
	assert.True(t, g.Unlocked())
	assert.Len(t, g.Visible(), len(All()))
}

func TestGate_CustomKey(t *testing.T) {
	g := NewGate("open-sesame")

	assert.ErrorIs(t, g.Unlock(UnlockKey), ErrWrongKey)
	assert.NoError(t, g.Unlock("open-sesame"))
}

func TestGate_Example(t *testing.T) {
	g := NewGate("")

	first, err := g.Example(0)
	require.NoError(t, err)
	assert.Equal(t, All()[0].Title, first.Title)

	_, err = g.Example(1)
	assert.ErrorIs(t, err, ErrLocked)

	_, err = g.Example(len(All()))
	assert.Error(t, err)
	_, err = g.Example(-1)
	assert.Error(t, err)

	require.NoError(t, g.Unlock(UnlockKey))
	second, err := g.Example(1)
	require.NoError(t, err)
	assert.Equal(t, All()[1].Title, second.Title)
}
