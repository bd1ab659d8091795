package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mutabayinat/internal/store"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

func TestMockProvider(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: json.RawMessage(explanationJSON), Usage: Usage{TotalTokens: 9}})

	resp, err := m.Generate(context.Background(), tutorRequest())
	require.NoError(t, err)
	assert.Equal(t, "mock", resp.Model)
	assert.Equal(t, 9, resp.Usage.TotalTokens)

	last, ok := m.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "You explain inequality mistakes.", last.System)

	_, err = m.Generate(context.Background(), Request{})
	var un *ErrProviderUnavailable
	assert.ErrorAs(t, err, &un, "empty queue")
	assert.Equal(t, 2, m.CallCount())
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: json.RawMessage(`{"steps":[]}`)})
	_, err := m.Generate(context.Background(), tutorRequest())
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestRetry(t *testing.T) {
	down := func() MockResponse { return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}} }
	bad := func() MockResponse { return MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}} }
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}

	cases := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first try", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{down(), ok}, false, 2},
		{"gives up", []MockResponse{down(), down(), down(), ok}, true, 3},
		{"invalid retried once", []MockResponse{bad(), bad(), ok}, true, 2},
		{"truncation not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, true, 1},
		{"rate limit honours retry-after", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, ok}, false, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMockProvider(tc.responses...)
			_, err := WithRetry(m, fastRetry()).Generate(context.Background(), Request{})
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantCalls, m.CallCount())
		})
	}
}

func TestRetry_Cancelled(t *testing.T) {
	m := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}}, MockResponse{Content: json.RawMessage(`{}`)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := fastRetry()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour
	_, err := WithRetry(m, cfg).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, m.CallCount())
}

func TestValidateResponse(t *testing.T) {
	s := explanationTestSchema()
	assert.NoError(t, validateResponse(s, json.RawMessage(explanationJSON)))
	assert.NoError(t, validateResponse(nil, json.RawMessage(`not even json`)))

	for name, raw := range map[string]string{
		"missing required": `{"summary":"x"}`,
		"wrong type":       `{"summary":"x","steps":"one"}`,
		"malformed":        `{summary}`,
		"empty":            ``,
	} {
		t.Run(name, func(t *testing.T) {
			var inv *ErrInvalidResponse
			assert.ErrorAs(t, validateResponse(s, json.RawMessage(raw)), &inv)
		})
	}
}

func TestTags(t *testing.T) {
	assert.Equal(t, "unknown", TagsFrom(context.Background()).Purpose)

	ctx := WithTags(context.Background(), Tags{Purpose: "explain", ProblemID: "s1_prep"})
	got := TagsFrom(ctx)
	assert.Equal(t, "explain", got.Purpose)
	assert.Equal(t, "s1_prep", got.ProblemID)
}

func TestConfig(t *testing.T) {
	t.Setenv("MUTABAYINAT_TUTOR_PROVIDER", "gemini")
	t.Setenv("MUTABAYINAT_GEMINI_API_KEY", "g-key")
	t.Setenv("MUTABAYINAT_GEMINI_MODEL", "gemini-pro")
	t.Setenv("MUTABAYINAT_TUTOR_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-pro", cfg.Gemini.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())

	assert.Error(t, Config{Provider: ProviderOpenRouter}.Validate())
	assert.Error(t, Config{Provider: "llama"}.Validate())
	assert.NoError(t, Config{Provider: ProviderMock}.Validate())
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{
		"MUTABAYINAT_TUTOR_PROVIDER", "MUTABAYINAT_ANTHROPIC_API_KEY",
		"ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)

	t.Setenv("OPENAI_API_KEY", "")
	_, ok = DiscoverConfig()
	assert.False(t, ok)
}

type memJournal struct {
	entries []store.Entry
	err     error
}

func (m *memJournal) Append(_ context.Context, e *store.Entry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memJournal) List(context.Context, store.QueryOpts) ([]store.Entry, error) {
	return m.entries, nil
}

func TestJournalProvider(t *testing.T) {
	j := &memJournal{}
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(explanationJSON), Usage: Usage{InputTokens: 12, OutputTokens: 7}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithJournal(m, j)
	ctx := WithTags(context.Background(), Tags{Purpose: "explain", SessionID: "sess-1", Username: "layla", ProblemID: "s1_assessment"})

	_, err := p.Generate(ctx, tutorRequest())
	require.NoError(t, err)
	_, err = p.Generate(ctx, tutorRequest())
	require.Error(t, err)

	require.Len(t, j.entries, 2)
	first := j.entries[0]
	assert.Equal(t, store.KindTutor, first.Kind)
	assert.Equal(t, "explain", first.Stage)
	assert.Equal(t, "layla", first.Username)
	assert.Equal(t, "ok", first.Verdict)
	assert.Contains(t, first.Detail, "input_tokens=12")
	assert.Equal(t, "error", j.entries[1].Verdict)
	assert.Contains(t, j.entries[1].Detail, "down")
}

func TestJournalProvider_JournalFailureIgnored(t *testing.T) {
	j := &memJournal{err: errors.New("disk full")}
	p := WithJournal(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), j)
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock, Retry: fastRetry()}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: ProviderAnthropic}, nil)
	assert.Error(t, err)
}
