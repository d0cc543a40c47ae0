package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	t.Run("should truncate the log file when preserve is false", func(t *testing.T) {
		err := os.WriteFile(logPath, []byte("old session\n"), 0644)
		require.NoError(t, err)

		l, err := New(LevelInfo, logPath, false)
		require.NoError(t, err)
		l.Info("fresh start")
		require.NoError(t, l.Close())

		content, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "fresh start")
		assert.NotContains(t, string(content), "old session")
	})

	t.Run("should append when preserve is true", func(t *testing.T) {
		err := os.WriteFile(logPath, []byte("old session\n"), 0644)
		require.NoError(t, err)

		l, err := New(LevelInfo, logPath, true)
		require.NoError(t, err)
		l.Info("continued")
		require.NoError(t, l.Close())

		content, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "old session")
		assert.Contains(t, string(content), "continued")
	})

	t.Run("should create missing parent directories", func(t *testing.T) {
		nested := filepath.Join(tmpDir, "deep", "nested", "test.log")
		l, err := New(LevelDebug, nested, false)
		require.NoError(t, err)
		require.NoError(t, l.Close())

		_, err = os.Stat(nested)
		assert.NoError(t, err)
	})
}

func TestLevelFiltering(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "levels.log")

	l, err := New(LevelWarn, logPath, false)
	require.NoError(t, err)

	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line")
	l.Error("error line")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	text := string(content)
	assert.NotContains(t, text, "debug line")
	assert.NotContains(t, text, "info line")
	assert.Contains(t, text, "[WARN] warn line")
	assert.Contains(t, text, "[ERROR] error line")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, parseLevel("debug"))
	assert.Equal(t, LevelWarn, parseLevel("warning"))
	assert.Equal(t, LevelError, parseLevel("error"))

	// Unknown strings fall back to info
	assert.Equal(t, LevelInfo, parseLevel("chatty"))
}

func TestPackageLevelNoopBeforeInit(t *testing.T) {
	saved := defaultLogger
	defaultLogger = nil
	defer func() { defaultLogger = saved }()

	// Must not panic with no logger configured
	Debug("ignored")
	Info("ignored")
	Warn("ignored")
	Error("ignored")
	assert.NoError(t, Close())
}

func TestSetOutput(t *testing.T) {
	tmpDir := t.TempDir()

	l, err := New(LevelInfo, filepath.Join(tmpDir, "redirect.log"), false)
	require.NoError(t, err)
	defer l.Close()

	saved := defaultLogger
	defaultLogger = l
	defer func() { defaultLogger = saved }()

	var sb strings.Builder
	SetOutput(&sb)
	Info("captured")

	assert.Contains(t, sb.String(), "captured")
}
