package store

import (
	"context"
	"time"

	"github.com/abhisek/mutabayinat/internal/problem"
)

// Preference keys.
const (
	KeyCurrentUser = "current_user"
	KeyLanguage    = "language"
	KeyLastSection = "last_section"
	KeyLastProblem = "last_problem"
)

// Prefs is a small persistent key-value store for client state.
type Prefs interface {
	// Get returns the value for key and whether it is set.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Journal entry kinds.
const (
	KindEvaluation = "evaluation"
	KindSubmission = "submission"
	KindSaveFailed = "save_failed"
	KindTutor      = "tutor"
)

// Entry is one journal record. The journal is local and append-only; it
// records what the student did even when the backend is unreachable.
type Entry struct {
	Sequence  int64
	Timestamp time.Time
	Kind      string
	SessionID string
	Username  string
	SectionID string
	ProblemID string
	Stage     string
	Input     string
	Verdict   string
	Attempts  int
	Score     int
	HintsUsed int

	// Detail is free-form context, such as an error message or the
	// model that served a tutor request.
	Detail string
}

// QueryOpts configures journal queries with filtering and pagination.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	After     int64  // sequence > After
	ProblemID string // exact match when set
	Kind      string // exact match when set
}

// Journal appends and lists entries.
type Journal interface {
	// Append assigns the next sequence and timestamp to e and stores it.
	Append(ctx context.Context, e *Entry) error

	// List returns entries newest first.
	List(ctx context.Context, opts QueryOpts) ([]Entry, error)
}

// Snapshot is the last progress envelope fetched for a user, kept so the
// CLI can show progress when the backend is unreachable.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Username  string
	Data      problem.StudentProgress
}

// SnapshotRepo manages progress snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot for username, or nil if none
	// exist.
	Latest(ctx context.Context, username string) (*Snapshot, error)

	// Prune deletes all but the keep most recent snapshots of username.
	Prune(ctx context.Context, username string, keep int) error
}
