package voice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mutabayinat/internal/problem"
)

// script writes an executable shell script and returns its path.
func script(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "stt.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestUnavailable(t *testing.T) {
	var r Recognizer = Unavailable{}
	assert.False(t, r.Available())
	_, err := r.Transcribe(context.Background(), problem.LangEN)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("MUTABAYINAT_STT_CMD", "")
	assert.IsType(t, Unavailable{}, FromEnv())

	t.Setenv("MUTABAYINAT_STT_CMD", "whisper-cli --model small")
	t.Setenv("MUTABAYINAT_STT_TIMEOUT", "3s")
	r, ok := FromEnv().(*CommandRecognizer)
	require.True(t, ok)
	assert.Equal(t, "whisper-cli", r.name)
	assert.Equal(t, []string{"--model", "small"}, r.args)
	assert.Equal(t, 3*time.Second, r.timeout)
}

func TestCommandRecognizer_MissingProgram(t *testing.T) {
	r := NewCommandRecognizer("definitely-not-an-stt-program-42", 0)
	assert.False(t, r.Available())
	_, err := r.Transcribe(context.Background(), problem.LangEN)
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.False(t, NewCommandRecognizer("  ", 0).Available())
}

func TestCommandRecognizer_Transcribes(t *testing.T) {
	path := script(t, `echo "  x   is greater than $MUTABAYINAT_STT_LANG "`)
	r := NewCommandRecognizer(path, time.Second)
	require.True(t, r.Available())

	text, err := r.Transcribe(context.Background(), problem.LangAR)
	require.NoError(t, err)
	assert.Equal(t, "x is greater than ar-SA", text)
}

func TestCommandRecognizer_Errors(t *testing.T) {
	silent := NewCommandRecognizer(script(t, "exit 0"), time.Second)
	_, err := silent.Transcribe(context.Background(), problem.LangEN)
	assert.ErrorIs(t, err, ErrNoSpeech)

	failing := NewCommandRecognizer(script(t, "echo 'no microphone' >&2; exit 3"), time.Second)
	_, err = failing.Transcribe(context.Background(), problem.LangEN)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no microphone")

	slow := NewCommandRecognizer(script(t, "exec sleep 5"), 50*time.Millisecond)
	_, err = slow.Transcribe(context.Background(), problem.LangEN)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestLocale(t *testing.T) {
	assert.Equal(t, "ar-SA", Locale(problem.LangAR))
	assert.Equal(t, "en-US", Locale(problem.LangEN))
}
