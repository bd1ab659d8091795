package llm

import "context"

// Tags label a request for the journal.
type Tags struct {
	Purpose   string
	SessionID string
	Username  string
	ProblemID string
}

type tagsKey struct{}

// WithTags attaches t to ctx.
func WithTags(ctx context.Context, t Tags) context.Context {
	return context.WithValue(ctx, tagsKey{}, t)
}

// TagsFrom returns the tags attached to ctx. Purpose defaults to "unknown".
func TagsFrom(ctx context.Context) Tags {
	t, _ := ctx.Value(tagsKey{}).(Tags)
	if t.Purpose == "" {
		t.Purpose = "unknown"
	}
	return t
}
