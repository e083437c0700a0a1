package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "gdp collisions",
		Data:    logrus.Fields{"n": 2, "b": "x"},
	}

	out, err := (&Formatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2024-03-01 09:30:00] [WARN] [] gdp collisions b=x n=2\n", string(out))
}

func TestInitWritesFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "logs", "macroscene.log")
	require.NoError(t, Init("debug", path))
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	Log.Debug("hello")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBU]")
	assert.Contains(t, string(data), "logger_test.go:")
	assert.Contains(t, string(data), "hello")
}

func TestInitUnknownLevel(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	require.NoError(t, Init("loud", ""))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}

func TestRunTagsEntries(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	var buf bytes.Buffer
	Log = newLogger(&buf, logrus.InfoLevel)

	Run("render").Info("done")
	assert.Contains(t, buf.String(), "cmd=render")
	assert.Regexp(t, `run=[0-9a-f]{8}`, buf.String())
}
