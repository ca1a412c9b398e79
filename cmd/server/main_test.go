package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	require.Equal(t, slog.LevelError, parseLogLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestLogFileWriter_TrimsToNewest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cadence.log")
	w, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	chunk := strings.Repeat("a", 1024*1024)
	for range 6 {
		_, err := w.Write([]byte(chunk))
		require.NoError(t, err)
	}
	_, err = w.Write([]byte("tail"))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.LessOrEqual(t, info.Size(), int64(keepLogSizeBytes))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "tail"))
}

func TestRun_RejectsBadInvocation(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "events.db")
	t.Setenv("CADENCE_CONFIG_PATH", "")
	t.Setenv("CADENCE_STORE_PATH", storePath)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown flag", args: []string{"--verbose"}, wantErr: "unknown flag"},
		{name: "bad transport", args: []string{"--transport", "carrier-pigeon"}, wantErr: "config"},
		{name: "missing config file", args: []string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, wantErr: "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := os.Stat(storePath)
	require.True(t, os.IsNotExist(err), "store opened despite invalid invocation")
}

func TestRun_Help(t *testing.T) {
	require.NoError(t, run([]string{"--help"}))
}
