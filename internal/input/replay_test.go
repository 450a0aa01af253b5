package input

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextKey(t *testing.T, s Source) *tcell.EventKey {
	t.Helper()
	ev, err := s.Next()
	require.NoError(t, err)
	key, ok := ev.(*tcell.EventKey)
	require.True(t, ok)
	return key
}

func TestReplayPlainBytesAreRunes(t *testing.T) {
	s := NewReplay(strings.NewReader("a7"))
	key := nextKey(t, s)
	assert.Equal(t, tcell.KeyRune, key.Key())
	assert.Equal(t, 'a', key.Rune())

	key = nextKey(t, s)
	assert.Equal(t, '7', key.Rune())
}

func TestReplayNamedTokens(t *testing.T) {
	s := NewReplay(strings.NewReader(":KEY_UP\n:KEY_BACKSPACE\n:KEY_ENTER\n"))
	assert.Equal(t, tcell.KeyUp, nextKey(t, s).Key())
	assert.Equal(t, tcell.KeyBackspace2, nextKey(t, s).Key())
	assert.Equal(t, tcell.KeyEnter, nextKey(t, s).Key())
}

func TestReplayControlBytes(t *testing.T) {
	s := NewReplay(strings.NewReader("\n\x1b\x7f\x08"))
	assert.Equal(t, tcell.KeyEnter, nextKey(t, s).Key())
	assert.Equal(t, tcell.KeyEscape, nextKey(t, s).Key())
	assert.Equal(t, tcell.KeyBackspace2, nextKey(t, s).Key())
	assert.Equal(t, tcell.KeyBackspace2, nextKey(t, s).Key())
}

func TestReplayUnknownTokenIsError(t *testing.T) {
	s := NewReplay(strings.NewReader(":KEY_BOGUS\n"))
	_, err := s.Next()
	assert.Error(t, err)
}

func TestReplayExhaustion(t *testing.T) {
	s := NewReplay(strings.NewReader("x"))
	_, err := s.Next()
	require.NoError(t, err)
	_, err = s.Next()
	assert.ErrorIs(t, err, ErrScriptDone)
}

func TestQueuePushedEventsComeFirst(t *testing.T) {
	q := NewQueue(NewReplay(strings.NewReader("a")))
	q.Push(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	assert.Equal(t, tcell.KeyEnter, nextKey(t, q).Key())
	assert.Equal(t, 'a', nextKey(t, q).Rune())

	_, err := q.Next()
	assert.ErrorIs(t, err, ErrScriptDone)
}
