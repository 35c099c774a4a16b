package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/beka-birhanu/vinom-bot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("rejects missing writer", func(t *testing.T) {
		_, err := New("APP", "", nil)
		assert.ErrorIs(t, err, ErrNilWriter)
	})

	t.Run("rejects empty prefix", func(t *testing.T) {
		_, err := New("", "", &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrEmptyPrefix)
	})

	t.Run("writes prefix and level", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("BOT", "", &buf)
		require.NoError(t, err)

		l.Info("joined")
		l.Warning("motd")
		l.Error("broken")

		out := buf.String()
		assert.Contains(t, out, "[BOT]")
		assert.Contains(t, out, "[INFO]")
		assert.Contains(t, out, "joined")
		assert.Contains(t, out, "[WARNING]")
		assert.Contains(t, out, "[ERROR]")
	})

	t.Run("debug is off by default", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("BOT", "", &buf)
		require.NoError(t, err)

		l.Debug("hidden")
		assert.Empty(t, buf.String())

		l.SetDebug(true)
		l.Debug("shown")
		assert.Contains(t, buf.String(), "[DEBUG]")
		assert.Contains(t, buf.String(), "shown")

		buf.Reset()
		l.SetDebug(false)
		l.Debug("hidden again")
		assert.Empty(t, buf.String())
	})

	t.Run("one line per entry with colored prefix", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("PLAYER", config.ColorCyan, &buf)
		require.NoError(t, err)

		l.Info("first")
		l.Warning("second")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], config.ColorCyan+"[PLAYER]"+config.ColorReset)
		assert.True(t, strings.HasSuffix(lines[0], "first"))
		assert.Contains(t, lines[1], config.LogWarningColor+"[WARNING]")
	})

	t.Run("discard drops everything", func(t *testing.T) {
		l := Discard()
		l.SetDebug(true)
		assert.NotPanics(t, func() {
			l.Debug("nothing")
			l.Error("nothing")
		})
	})
}
