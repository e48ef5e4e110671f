package logger

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedFileWriter_Write(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "test.log")
	writer, err := NewBufferedFileWriter(logPath, WithFlushInterval(0))
	require.NoError(t, err)
	defer func() { _ = writer.Close() }()

	testData := "Hello, buffered world!\n"
	n, err := writer.Write([]byte(testData))
	require.NoError(t, err)
	assert.Equal(t, len(testData), n)
	assert.Positive(t, writer.Buffered())

	require.NoError(t, writer.Flush())
	assert.Equal(t, 0, writer.Buffered())

	content, err := os.ReadFile(logPath) //nolint:gosec // test path from t.TempDir()
	require.NoError(t, err)
	assert.Equal(t, testData, string(content))
}

func TestBufferedFileWriter_AutoFlush(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "autoflush.log")
	writer, err := NewBufferedFileWriter(logPath, WithFlushInterval(20*time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = writer.Close() }()

	_, err = writer.Write([]byte("auto\n"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		content, err := os.ReadFile(logPath) //nolint:gosec // test path from t.TempDir()
		return err == nil && string(content) == "auto\n"
	}, time.Second, 10*time.Millisecond)
}

func TestBufferedFileWriter_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "close.log")
	writer, err := NewBufferedFileWriter(logPath)
	require.NoError(t, err)

	_, err = writer.Write([]byte("last words\n"))
	require.NoError(t, err)

	require.NoError(t, writer.Close())
	require.NoError(t, writer.Close())

	_, err = writer.Write([]byte("too late"))
	require.ErrorIs(t, err, errWriterClosed)

	content, err := os.ReadFile(logPath) //nolint:gosec // test path from t.TempDir()
	require.NoError(t, err)
	assert.Equal(t, "last words\n", string(content))
	assert.Equal(t, logPath, writer.FilePath())
}

func TestBufferedFileWriter_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "concurrent.log")
	writer, err := NewBufferedFileWriter(logPath, WithBufferSize(64))
	require.NoError(t, err)

	const goroutines, writes = 8, 50
	line := []byte("0123456789\n")

	var wg sync.WaitGroup
	for range goroutines {
		wg.Go(func() {
			for range writes {
				_, _ = writer.Write(line)
			}
		})
	}
	wg.Wait()
	require.NoError(t, writer.Close())

	info, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.Equal(t, int64(goroutines*writes*len(line)), info.Size())
}
