package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alqudimi/deepdoc"
	"github.com/alqudimi/deepdoc/mock"
	docslog "github.com/alqudimi/deepdoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingScanner_Scan(t *testing.T) {
	t.Parallel()

	t.Run("logs scan with counts and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Scanner{
			ScanFn: func(ctx context.Context, root string) (*deepdoc.ScanResult, error) {
				return &deepdoc.ScanResult{TotalFiles: 12, TotalLines: 340}, nil
			},
		}

		scanner := docslog.NewLoggingScanner(inner, logger)
		result, err := scanner.Scan(context.Background(), "/src/demo")

		require.NoError(t, err)
		assert.Equal(t, 12, result.TotalFiles)
		output := buf.String()
		assert.Contains(t, output, "msg=scan")
		assert.Contains(t, output, "path=/src/demo")
		assert.Contains(t, output, "files=12")
		assert.Contains(t, output, "lines=340")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Scanner{
			ScanFn: func(ctx context.Context, root string) (*deepdoc.ScanResult, error) {
				return nil, errors.New("permission denied")
			},
		}

		scanner := docslog.NewLoggingScanner(inner, logger)
		_, err := scanner.Scan(context.Background(), "/src/demo")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "files=0")
		assert.Contains(t, output, "err=\"permission denied\"")
	})
}

func TestLoggingBackend_Generate(t *testing.T) {
	t.Parallel()

	t.Run("logs sizes but not the prompt", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ModelBackend{
			GenerateFn: func(ctx context.Context, prompt string, cfg deepdoc.ModelConfig) (string, error) {
				return "# Title\n", nil
			},
		}

		backend := docslog.NewLoggingBackend(inner, debugLogger(&buf))
		text, err := backend.Generate(context.Background(), "secret prompt", deepdoc.ModelConfig{Model: "llama3.2"})

		require.NoError(t, err)
		assert.Equal(t, "# Title\n", text)
		output := buf.String()
		assert.Contains(t, output, "model call")
		assert.Contains(t, output, "model=llama3.2")
		assert.Contains(t, output, "promptChars=13")
		assert.Contains(t, output, "responseChars=8")
		assert.NotContains(t, output, "secret prompt")
	})

	t.Run("is silent above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ModelBackend{
			GenerateFn: func(ctx context.Context, prompt string, cfg deepdoc.ModelConfig) (string, error) {
				return "", deepdoc.Errorf(deepdoc.ECONNECTION, "refused")
			},
		}

		backend := docslog.NewLoggingBackend(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := backend.Generate(context.Background(), "p", deepdoc.ModelConfig{Model: "llama3.2"})

		assert.Equal(t, deepdoc.ECONNECTION, deepdoc.ErrorCode(err))
		assert.Empty(t, buf.String())
	})
}

func TestLoggingCache(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.ResponseCache{
		GetFn: func(ctx context.Context, fp string) (string, bool, error) {
			return "cached", true, nil
		},
		PutFn: func(ctx context.Context, fp, value string, ttl time.Duration) error {
			return errors.New("disk full")
		},
	}
	cache := docslog.NewLoggingCache(inner, debugLogger(&buf))

	value, ok, err := cache.Get(context.Background(), "readme-00ff")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cached", value)

	err = cache.Put(context.Background(), "readme-00ff", "text", time.Hour)
	require.Error(t, err)

	output := buf.String()
	assert.Contains(t, output, "cache get")
	assert.Contains(t, output, "fingerprint=readme-00ff")
	assert.Contains(t, output, "hit=true")
	assert.Contains(t, output, "cache put")
	assert.Contains(t, output, "bytes=4")
	assert.Contains(t, output, "ttl=1h0m0s")
	assert.Contains(t, output, "err=\"disk full\"")
}

func TestLoggingWriter_WriteDocuments(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.DocumentWriter{
		WriteDocumentsFn: func(ctx context.Context, set *deepdoc.DocumentSet) (*deepdoc.WriteResult, error) {
			return &deepdoc.WriteResult{Written: []string{"README.md", "INDEX.md"}, Skipped: []string{"API.md"}}, nil
		},
	}

	writer := docslog.NewLoggingWriter(inner, slog.New(slog.NewTextHandler(&buf, nil)))
	result, err := writer.WriteDocuments(context.Background(), &deepdoc.DocumentSet{})

	require.NoError(t, err)
	assert.Len(t, result.Written, 2)
	output := buf.String()
	assert.Contains(t, output, "write documents")
	assert.Contains(t, output, "written=2")
	assert.Contains(t, output, "skipped=1")
}
