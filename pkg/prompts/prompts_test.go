package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// Empty slot reads as empty string
	got, err := s.Last()
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.SetLast("solar system"))
	got, err = s.Last()
	require.NoError(t, err)
	assert.Equal(t, "solar system", got)

	// Overwrite
	require.NoError(t, s.SetLast("nine planets"))
	got, _ = s.Last()
	assert.Equal(t, "nine planets", got)

	// Blank prompts never clobber the slot
	require.NoError(t, s.SetLast("   "))
	got, _ = s.Last()
	assert.Equal(t, "nine planets", got, "blank SetLast should be ignored")
}

func TestStoreClear(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, s.Clear(), "clearing an empty slot should not fail")

	require.NoError(t, s.SetLast("x"))
	require.NoError(t, s.Clear())

	got, _ := s.Last()
	assert.Empty(t, got)
}
