package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/mutabayinat/internal/store"
)

// JournalProvider records every request in the local journal.
type JournalProvider struct {
	inner   Provider
	journal store.Journal
	now     func() time.Time
}

// WithJournal wraps p so each request is appended to journal as a
// store.KindTutor entry.
func WithJournal(p Provider, journal store.Journal) Provider {
	return &JournalProvider{inner: p, journal: journal, now: time.Now}
}

func (j *JournalProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := j.now()
	resp, err := j.inner.Generate(ctx, req)
	elapsed := j.now().Sub(start)

	tags := TagsFrom(ctx)
	e := &store.Entry{
		Kind:      store.KindTutor,
		SessionID: tags.SessionID,
		Username:  tags.Username,
		ProblemID: tags.ProblemID,
		Stage:     tags.Purpose,
		Verdict:   "ok",
	}

	model := j.inner.ModelID()
	var in, out int
	if resp != nil {
		model = resp.Model
		in, out = resp.Usage.InputTokens, resp.Usage.OutputTokens
	}
	e.Detail = fmt.Sprintf("model=%s latency_ms=%d input_tokens=%d output_tokens=%d",
		model, elapsed.Milliseconds(), in, out)
	if err != nil {
		e.Verdict = "error"
		e.Detail += " error=" + err.Error()
	}

	// A failed journal write never fails the request.
	if jerr := j.journal.Append(context.WithoutCancel(ctx), e); jerr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to journal tutor request: %v\n", jerr)
	}
	return resp, err
}

func (j *JournalProvider) ModelID() string {
	return j.inner.ModelID()
}
