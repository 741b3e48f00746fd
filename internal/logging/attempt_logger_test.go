package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, maxSize int64) (*AttemptLogger, string) {
	t.Helper()
	dir := t.TempDir()
	template := filepath.Join(dir, "attempts-%s.jsonl")

	logger, err := NewAttemptLogger(template, maxSize, 3, 64, 10*time.Millisecond)
	require.NoError(t, err)
	return logger, dir
}

func readEntries(t *testing.T, dir string) []AttemptLog {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(dir, "attempts-*.jsonl"))
	require.NoError(t, err)

	var entries []AttemptLog
	for _, file := range files {
		f, err := os.Open(file)
		require.NoError(t, err)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			var entry AttemptLog
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
			entries = append(entries, entry)
		}
		f.Close()
	}
	return entries
}

func TestAttemptLogger_WritesEntries(t *testing.T) {
	logger, dir := newTestLogger(t, 1<<20)

	logger.Log(AttemptLog{
		RequestID:    "req-1",
		UserID:       "u1",
		Model:        "claude-3-haiku-20240307",
		Provider:     "anthropic",
		InputTokens:  10,
		OutputTokens: 20,
		Cost:         0.0000075,
		Status:       200,
		LatencyMS:    42,
	})
	logger.Log(AttemptLog{
		RequestID: "req-2",
		Model:     "gpt-4o",
		Provider:  "openai",
		Status:    500,
		Error:     "provider error",
	})

	logger.Shutdown()

	entries := readEntries(t, dir)
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.Equal(t, "claude-3-haiku-20240307", entries[0].Model)
	assert.Equal(t, 200, entries[0].Status)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.Equal(t, "provider error", entries[1].Error)
}

func TestAttemptLogger_ShutdownIsIdempotent(t *testing.T) {
	logger, _ := newTestLogger(t, 1<<20)
	logger.Shutdown()
	logger.Shutdown()
}

func TestAttemptLogger_Rotation(t *testing.T) {
	// A tiny max size forces a rotation on nearly every write.
	logger, dir := newTestLogger(t, 256)

	for i := 0; i < 10; i++ {
		logger.Log(AttemptLog{
			RequestID: "req",
			Model:     "claude-3-5-sonnet-20241022",
			Provider:  "anthropic",
			Status:    200,
		})
		// Rotated file names carry a second-granularity timestamp.
		time.Sleep(5 * time.Millisecond)
	}
	logger.Shutdown()

	files, err := filepath.Glob(filepath.Join(dir, "attempts-*.jsonl"))
	require.NoError(t, err)
	assert.NotEmpty(t, files)
	// Cleanup keeps at most maxFiles around.
	assert.LessOrEqual(t, len(files), 3)
}
