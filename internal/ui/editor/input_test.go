package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/whisprhq/keybind/internal/capture"
)

func TestRawFromKeyMsg_PlainRune(t *testing.T) {
	raw, ok := RawFromKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	require.True(t, ok)
	require.Equal(t, capture.RawKey{Key: "s"}, raw)
}

func TestRawFromKeyMsg_UppercaseRuneImpliesShift(t *testing.T) {
	raw, ok := RawFromKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'S'}})
	require.True(t, ok)
	require.True(t, raw.Shift)
	require.Equal(t, "S", raw.Key)
}

func TestRawFromKeyMsg_CtrlCombination(t *testing.T) {
	raw, ok := RawFromKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlT})
	require.True(t, ok)
	require.True(t, raw.Ctrl)
	require.Equal(t, "t", raw.Key)
}

func TestRawFromKeyMsg_AltCombination(t *testing.T) {
	raw, ok := RawFromKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true})
	require.True(t, ok)
	require.True(t, raw.Alt)
	require.Equal(t, "x", raw.Key)
}

func TestRawFromKeyMsg_NamedKeys(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyEnter}, "Enter"},
		{tea.KeyMsg{Type: tea.KeyUp}, "ArrowUp"},
		{tea.KeyMsg{Type: tea.KeyDown}, "ArrowDown"},
		{tea.KeyMsg{Type: tea.KeyLeft}, "ArrowLeft"},
		{tea.KeyMsg{Type: tea.KeyRight}, "ArrowRight"},
		{tea.KeyMsg{Type: tea.KeyTab}, "Tab"},
		{tea.KeyMsg{Type: tea.KeyEscape}, "Escape"},
	}
	for _, tt := range tests {
		raw, ok := RawFromKeyMsg(tt.msg)
		require.True(t, ok)
		require.Equal(t, tt.want, raw.Key, "key %q", tt.msg.String())
	}
}

func TestRawFromKeyMsg_ShiftedArrow(t *testing.T) {
	raw, ok := RawFromKeyMsg(tea.KeyMsg{Type: tea.KeyShiftUp})
	require.True(t, ok)
	require.True(t, raw.Shift)
	require.Equal(t, "ArrowUp", raw.Key)
}

func TestRawFromKeyMsg_FeedsCaptureNormalizer(t *testing.T) {
	// ctrl+shift+up all the way through Freeze.
	raw, ok := RawFromKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlShiftUp})
	require.True(t, ok)

	combo := capture.Freeze(raw)
	require.Equal(t, capture.Combination{Ctrl: true, Shift: true, Key: "↑"}, combo)
}
