// Package voice captures spoken answers. Recognition itself is done by an
// external speech-to-text program; this package only runs it and reads the
// transcript.
package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/abhisek/mutabayinat/internal/problem"
)

var (
	// ErrUnavailable means no speech-to-text program is configured or
	// installed. Typing and the keyboard panel keep working.
	ErrUnavailable = errors.New("voice input is not available")

	// ErrNoSpeech means the program ran but heard nothing.
	ErrNoSpeech = errors.New("no speech recognized")
)

// DefaultTimeout bounds one recording.
const DefaultTimeout = 15 * time.Second

// Recognizer turns speech into text.
type Recognizer interface {
	Available() bool
	Transcribe(ctx context.Context, lang problem.Lang) (string, error)
}

// Unavailable is the Recognizer used when voice input is not set up.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Transcribe(context.Context, problem.Lang) (string, error) {
	return "", ErrUnavailable
}

// CommandRecognizer runs a speech-to-text command and reads the transcript
// from its stdout. The language is passed as a BCP 47 tag in
// MUTABAYINAT_STT_LANG.
type CommandRecognizer struct {
	name    string
	args    []string
	timeout time.Duration

	lookPath func(string) (string, error)
}

// NewCommandRecognizer parses cmdline into a program and its arguments.
func NewCommandRecognizer(cmdline string, timeout time.Duration) *CommandRecognizer {
	fields := strings.Fields(cmdline)
	r := &CommandRecognizer{timeout: timeout, lookPath: exec.LookPath}
	if len(fields) > 0 {
		r.name, r.args = fields[0], fields[1:]
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	return r
}

// FromEnv returns a CommandRecognizer for MUTABAYINAT_STT_CMD, or
// Unavailable when it is unset.
func FromEnv() Recognizer {
	cmdline := os.Getenv("MUTABAYINAT_STT_CMD")
	if strings.TrimSpace(cmdline) == "" {
		return Unavailable{}
	}
	timeout := DefaultTimeout
	if v := os.Getenv("MUTABAYINAT_STT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}
	return NewCommandRecognizer(cmdline, timeout)
}

// Available reports whether the program can be found.
func (r *CommandRecognizer) Available() bool {
	if r.name == "" {
		return false
	}
	_, err := r.lookPath(r.name)
	return err == nil
}

func (r *CommandRecognizer) Transcribe(ctx context.Context, lang problem.Lang) (string, error) {
	if !r.Available() {
		return "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.name, r.args...)
	cmd.Env = append(os.Environ(), "MUTABAYINAT_STT_LANG="+Locale(lang))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("speech-to-text: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("speech-to-text: %w", err)
		}
		return "", fmt.Errorf("speech-to-text: %w: %s", err, msg)
	}

	text := strings.Join(strings.Fields(stdout.String()), " ")
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// Locale returns the recognition locale for lang.
func Locale(lang problem.Lang) string {
	if lang == problem.LangAR {
		return "ar-SA"
	}
	return "en-US"
}
