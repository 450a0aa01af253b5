package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityFirstDigitReplacesDefault(t *testing.T) {
	u := newTestUI("3\n", 18, 6)
	v, err := u.Quantity("how many?", "10", false, "")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestQuantitySubsequentDigitsAppend(t *testing.T) {
	u := newTestUI("42\n", 18, 6)
	v, err := u.Quantity("how many?", "10", false, "")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
}

func TestQuantityIncrementFiveTimes(t *testing.T) {
	u := newTestUI(strings.Repeat(":KEY_UP\n", 5)+"\n", 18, 6)
	v, err := u.Quantity("how many?", "0", false, "")
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestQuantityDecrementGoesNegative(t *testing.T) {
	u := newTestUI(":KEY_DOWN\n:KEY_DOWN\n\n", 18, 6)
	v, err := u.Quantity("how many?", "1", false, "")
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)
}

func TestQuantityDecimalPointOnce(t *testing.T) {
	u := newTestUI("1.5.5\n", 18, 6)
	v, err := u.Quantity("how many?", "0", false, "")
	require.NoError(t, err)
	assert.Equal(t, 1.55, v)
}

func TestQuantityIntegerModeIgnoresDecimalPoint(t *testing.T) {
	u := newTestUI(".\n", 18, 6)
	v, err := u.Quantity("how many?", "2", true, "")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestQuantityBackspaceEmptiesToZero(t *testing.T) {
	u := newTestUI("7:KEY_BACKSPACE\n\n", 18, 6)
	v, err := u.Quantity("how many?", "0", false, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestQuantityCommaAndStarAreDecimalPoints(t *testing.T) {
	u := newTestUI("2,5\n", 18, 6)
	v, err := u.Quantity("how many?", "0", false, "")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestQuantityEscapeIsStepBack(t *testing.T) {
	u := newTestUI("\x1b", 18, 6)
	_, err := u.Quantity("how many?", "0", false, "")
	assert.ErrorIs(t, err, ErrBack)
}
