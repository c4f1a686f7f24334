package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestInit_Levels(t *testing.T) {
	var buf bytes.Buffer

	Init(false, &buf, false)
	require.Equal(t, zerolog.InfoLevel, Log.GetLevel())

	Debug().Msg("hidden")
	require.NotContains(t, buf.String(), "hidden")

	Init(true, &buf, false)
	require.Equal(t, zerolog.DebugLevel, Log.GetLevel())

	Debug().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestSetTestbed(t *testing.T) {
	var buf bytes.Buffer
	Init(false, &buf, false)
	t.Cleanup(func() { SetTestbed("") })

	SetTestbed("autopkgtest-0a1b2c3d")
	Info().Msg("provisioning")

	require.Contains(t, buf.String(), "testbed=autopkgtest-0a1b2c3d")
}

func TestInitWithFile(t *testing.T) {
	tmpDir := t.TempDir()
	var console bytes.Buffer

	err := InitWithFile(false, &console, false, tmpDir, &LoggingConfig{FileEnabled: true, MaxSizeMB: 1})
	require.NoError(t, err)
	t.Cleanup(func() { CloseFileWriter() })

	Info().Str("image", "sha256:abc").Msg("image resolved")

	logPath := GetLogFilePath()
	require.Equal(t, filepath.Join(tmpDir, LogFileName), logPath)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), `"message":"image resolved"`)
	require.True(t, strings.Contains(console.String(), "image resolved"))
}

func TestInitWithFile_Disabled(t *testing.T) {
	var console bytes.Buffer

	err := InitWithFile(false, &console, false, t.TempDir(), &LoggingConfig{FileEnabled: false})
	require.NoError(t, err)
	require.Empty(t, GetLogFilePath())
}

func TestLoggingConfigDefaults(t *testing.T) {
	cfg := &LoggingConfig{}
	require.Equal(t, 10, cfg.GetMaxSizeMB())
	require.Equal(t, 7, cfg.GetMaxAgeDays())
	require.Equal(t, 3, cfg.GetMaxBackups())

	cfg = &LoggingConfig{MaxSizeMB: 20, MaxAgeDays: 14, MaxBackups: 5}
	require.Equal(t, 20, cfg.GetMaxSizeMB())
	require.Equal(t, 14, cfg.GetMaxAgeDays())
	require.Equal(t, 5, cfg.GetMaxBackups())
}

func TestCloseFileWriter_NoFile(t *testing.T) {
	Init(false, &bytes.Buffer{}, false)
	require.NoError(t, CloseFileWriter())
}
