package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmDefaultsToNo(t *testing.T) {
	u := newTestUI("\n", 18, 6)
	v, err := u.Confirm("delete the move?", "")
	require.NoError(t, err)
	assert.False(t, v)
}

func TestConfirmArrowTogglesToYes(t *testing.T) {
	u := newTestUI(":KEY_UP\n\n", 18, 6)
	v, err := u.Confirm("delete the move?", "")
	require.NoError(t, err)
	assert.True(t, v)
}

func TestConfirmArrowTwiceTogglesBack(t *testing.T) {
	u := newTestUI(":KEY_LEFT\n:KEY_RIGHT\n\n", 18, 6)
	v, err := u.Confirm("delete the move?", "")
	require.NoError(t, err)
	assert.False(t, v)
}

func TestConfirmShortcutKeys(t *testing.T) {
	for script, want := range map[string]bool{
		"y\n": true,
		"o\n": true,
		"n\n": false,
	} {
		u := newTestUI(script, 18, 6)
		v, err := u.Confirm("delete the move?", "")
		require.NoError(t, err)
		assert.Equal(t, want, v, "script %q", script)
	}
}

func TestConfirmClickPicksHalf(t *testing.T) {
	u := newEventUI(18, 6, click(2, 5), click(2, 5))
	v, err := u.Confirm("delete the move?", "")
	require.NoError(t, err)
	assert.True(t, v)

	u = newEventUI(18, 6, click(15, 5), click(15, 5))
	v, err = u.Confirm("delete the move?", "")
	require.NoError(t, err)
	assert.False(t, v)
}

func TestConfirmEscapeIsStepBack(t *testing.T) {
	u := newTestUI("\x1b", 18, 6)
	_, err := u.Confirm("delete the move?", "")
	assert.ErrorIs(t, err, ErrBack)
}
