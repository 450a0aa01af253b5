package ui

import (
	"fmt"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("entry %d", i)
	}
	return labels
}

func TestMenuDigitsAutoConfirm(t *testing.T) {
	// Twelve entries need two digits; "11" fills the digit width and
	// confirms without Enter.
	u := newTestUI("11", 18, 6)
	idx, err := u.Menu(menuLabels(12), "")
	require.NoError(t, err)
	assert.Equal(t, 11, idx)
}

func TestMenuSingleDigitAutoConfirm(t *testing.T) {
	// Two entries need one digit: "1" directly confirms the second.
	u := newTestUI("1", 18, 6)
	idx, err := u.Menu(menuLabels(2), "")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestMenuUpWrapsToLastEntry(t *testing.T) {
	u := newTestUI(":KEY_UP\n\n", 18, 6)
	idx, err := u.Menu(menuLabels(3), "")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestMenuDownWrapsToFirstEntry(t *testing.T) {
	u := newTestUI(":KEY_DOWN\n:KEY_DOWN\n:KEY_DOWN\n\n", 18, 6)
	idx, err := u.Menu(menuLabels(3), "")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestMenuBackspaceDropsAccumulatedDigit(t *testing.T) {
	// Twenty entries: "1" accumulates, backspace divides it away,
	// Enter confirms entry 0.
	u := newTestUI("1:KEY_BACKSPACE\n\n", 18, 6)
	idx, err := u.Menu(menuLabels(20), "")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestMenuEnterConfirmsHighlight(t *testing.T) {
	u := newTestUI(":KEY_DOWN\n\n", 18, 6)
	idx, err := u.Menu(menuLabels(5), "")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestMenuMouseClickSelectsRow(t *testing.T) {
	u := newEventUI(18, 6, click(2, 2), key(tcell.KeyEnter))
	idx, err := u.Menu(menuLabels(4), "")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestMenuDoubleClickConfirms(t *testing.T) {
	u := newEventUI(18, 6, click(2, 3), click(2, 3))
	idx, err := u.Menu(menuLabels(4), "")
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
}

func TestMenuEscapeIsStepBack(t *testing.T) {
	u := newTestUI("\x1b", 18, 6)
	_, err := u.Menu(menuLabels(3), "")
	assert.ErrorIs(t, err, ErrBack)
}

func TestMenuPanRightKeepsHighlight(t *testing.T) {
	u := newTestUI(":KEY_RIGHT\n:KEY_LEFT\n\n", 18, 6)
	idx, err := u.Menu([]string{"a very long label that overflows", "b"}, "")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}
