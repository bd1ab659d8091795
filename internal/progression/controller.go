// Package progression drives a student through problems: it opens a
// session on a problem, evaluates submissions, records completed attempts
// with the backend and walks the curriculum.
//
// The Controller is safe for concurrent use. Backend and tutor calls run
// without holding its lock and are tagged with the session id that started
// them; a result that returns after the session was left or replaced is
// dropped and reported as ErrSessionClosed.
package progression

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mutabayinat/internal/access"
	"github.com/abhisek/mutabayinat/internal/curriculum"
	"github.com/abhisek/mutabayinat/internal/evaluate"
	"github.com/abhisek/mutabayinat/internal/inputbuf"
	"github.com/abhisek/mutabayinat/internal/llm"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/session"
	"github.com/abhisek/mutabayinat/internal/stage"
	"github.com/abhisek/mutabayinat/internal/store"
	"github.com/abhisek/mutabayinat/internal/tutor"
)

// Backend is the part of the backend API the controller uses.
type Backend interface {
	Problem(ctx context.Context, problemID string) (*problem.Problem, error)
	Progress(ctx context.Context, username string) (*problem.StudentProgress, error)
	SubmitAttempt(ctx context.Context, username string, a problem.Attempt) (*problem.AttemptResult, error)
}

// Explainer explains repeated mistakes.
type Explainer interface {
	Explain(ctx context.Context, in tutor.Input) (*tutor.Explanation, error)
}

// Options holds the controller's collaborators. Only Backend is required.
type Options struct {
	Backend   Backend
	Prefs     store.Prefs
	Journal   store.Journal
	Snapshots store.SnapshotRepo
	Explainer Explainer
	Config    Config

	Username string
	Lang     problem.Lang

	// Warnf reports failures of best-effort local writes. Defaults to
	// stderr.
	Warnf func(format string, args ...any)
}

// Outcome is the result of a submission.
type Outcome struct {
	Result evaluate.Result

	// Saved is set when the attempt was recorded with the backend.
	Saved bool

	// SaveErr is the recording failure. The answer itself still counts;
	// the student may retry with RetrySave.
	SaveErr error

	Recorded *problem.AttemptResult

	State session.State
}

// Step is where Next leads.
type Step struct {
	SectionID string
	ProblemID string

	// SectionComplete is set past the last stage of a section.
	// NextSection is then the following section, if any.
	SectionComplete bool
	NextSection     string
}

// Controller owns the session state of the open problem.
type Controller struct {
	backend   Backend
	prefs     store.Prefs
	entries   store.Journal
	snapshots store.SnapshotRepo
	explainer Explainer
	gate      *access.Gate
	cfg       Config
	warnf     func(format string, args ...any)

	mu       sync.Mutex
	user     string
	lang     problem.Lang
	progress problem.Progress
	prob     *problem.Problem
	eval     evaluate.Evaluator
	state    *session.State
	open     bool
	pending  bool

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	newID func() string
}

// New creates a Controller.
func New(opts Options) *Controller {
	lang := opts.Lang
	if lang == "" {
		lang = problem.LangEN
	}
	warnf := opts.Warnf
	if warnf == nil {
		warnf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
		}
	}
	st := session.New("")
	st.Lang = lang
	return &Controller{
		backend:   opts.Backend,
		prefs:     opts.Prefs,
		entries:   opts.Journal,
		snapshots: opts.Snapshots,
		explainer: opts.Explainer,
		gate:      access.NewGate(curriculum.Catalog{}),
		cfg:       opts.Config,
		warnf:     warnf,
		user:      opts.Username,
		lang:      lang,
		state:     st,
		now:       time.Now,
		sleep:     sleepCtx,
		newID:     uuid.NewString,
	}
}

// Enter opens problemID in a fresh session. Whatever was open before is
// discarded along with any of its in-flight calls.
func (c *Controller) Enter(ctx context.Context, problemID string) (session.State, error) {
	c.mu.Lock()
	if c.user == "" {
		c.mu.Unlock()
		return session.State{}, ErrNotLoggedIn
	}
	id := c.newID()
	c.state.Reset(id)
	c.state.Lang = c.lang
	c.prob, c.eval = nil, nil
	c.open = true
	c.pending = false
	user := c.user
	c.mu.Unlock()

	p, err := c.backend.Problem(ctx, problemID)
	if err != nil {
		return session.State{}, fmt.Errorf("load problem %s: %w", problemID, err)
	}
	// Without progress the gate sees an untouched section, which is open.
	fresh, err := c.fetchProgress(ctx, user)
	if err != nil {
		c.warnf("load progress for %s: %v", problemID, err)
	}

	c.mu.Lock()
	if !c.current(id) {
		c.mu.Unlock()
		return session.State{}, ErrSessionClosed
	}
	c.progress = c.progress.Merge(fresh)

	if p.SectionID == "" {
		p.SectionID, _ = curriculum.SectionOf(p.ID)
	}
	if d := c.gate.Check(p.SectionID, p.ID, c.progress); !d.Allowed {
		c.open = false
		snap := c.state.Snapshot()
		c.mu.Unlock()
		return snap, &LockedError{ProblemID: p.ID, Decision: d}
	}

	kind := stage.Classify(p.Type, p.ID)
	c.state.Load(p, kind, stage.IsExamPrep(p.Type, p.ID), c.lang)
	c.prob = p
	c.eval = evaluate.For(kind)
	snap := c.state.Snapshot()
	c.mu.Unlock()

	c.remember(ctx, p.SectionID, p.ID)
	return snap, nil
}

// Leave closes the open problem. Responses still in flight are dropped.
func (c *Controller) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.pending = false
	c.prob, c.eval = nil, nil
	c.state.Reset("")
	c.state.Lang = c.lang
}

// Submit evaluates the current input. While a previous submission is still
// resolving it returns ErrBusy without evaluating anything.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if !c.open || c.prob == nil {
		c.mu.Unlock()
		return Outcome{}, ErrNoProblem
	}
	if c.pending {
		c.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	if c.state.Correct {
		out := Outcome{State: c.state.Snapshot()}
		c.mu.Unlock()
		return out, nil
	}
	c.pending = true
	id := c.state.SessionID
	c.mu.Unlock()

	if err := c.sleep(ctx, c.cfg.EvalDelay); err != nil {
		c.release(id)
		return Outcome{}, err
	}

	c.mu.Lock()
	if !c.current(id) {
		c.mu.Unlock()
		return Outcome{}, ErrSessionClosed
	}
	st := c.state
	input := st.Input.Current()
	r := c.eval.Evaluate(c.prob, st, input)
	if !r.Locked && r.Verdict != evaluate.VerdictIncomplete {
		st.LastInput = input
	}
	if !r.Locked && r.Verdict == evaluate.VerdictIncorrect {
		st.WrongAnswers = append(st.WrongAnswers, input)
	}
	evaluate.Apply(st, r, c.now())

	e := c.entry(store.KindEvaluation, r.Verdict.String())
	e.Input = input

	if !r.Submit {
		c.pending = false
		out := Outcome{Result: r, State: st.Snapshot()}
		c.mu.Unlock()
		c.appendEntry(ctx, e)
		return out, nil
	}

	a := c.attempt()
	user := c.user
	c.mu.Unlock()
	c.appendEntry(ctx, e)

	out, err := c.record(ctx, id, user, a)
	out.Result = r
	return out, err
}

// RetrySave records a completed problem whose earlier recording failed.
func (c *Controller) RetrySave(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if !c.open || c.prob == nil {
		c.mu.Unlock()
		return Outcome{}, ErrNoProblem
	}
	if c.pending {
		c.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	if !c.state.SaveFailed {
		c.mu.Unlock()
		return Outcome{}, ErrNothingToSave
	}
	c.pending = true
	id := c.state.SessionID
	a := c.attempt()
	user := c.user
	c.mu.Unlock()

	return c.record(ctx, id, user, a)
}

// record sends one attempt and folds the reply into the session. It is
// entered with pending set and always clears it.
func (c *Controller) record(ctx context.Context, id, user string, a problem.Attempt) (Outcome, error) {
	res, err := c.backend.SubmitAttempt(ctx, user, a)

	var fresh *problem.StudentProgress
	if err == nil {
		var perr error
		fresh, perr = c.backend.Progress(ctx, user)
		if perr != nil {
			c.warnf("refresh progress after saving %s: %v", a.ProblemID, perr)
		}
	}

	c.mu.Lock()
	if !c.current(id) {
		c.mu.Unlock()
		return Outcome{}, ErrSessionClosed
	}
	c.pending = false
	st := c.state

	if err != nil {
		st.SaveFailed = true
		st.SetMessage(evaluate.Message(st.Lang, evaluate.MsgSaveFailed), 0, c.now())
		e := c.entry(store.KindSaveFailed, "error")
		e.Input = a.Answer
		e.Detail = err.Error()
		out := Outcome{SaveErr: err, State: st.Snapshot()}
		c.mu.Unlock()
		c.appendEntry(ctx, e)
		return out, nil
	}

	if st.SaveFailed {
		st.SaveFailed = false
		st.SetMessage(evaluate.Message(st.Lang, evaluate.MsgSaved), evaluate.NoticeTTL, c.now())
	}
	st.Submitted = true

	local := problem.Progress{st.SectionID: problem.SectionProgress{
		a.ProblemID: {Completed: true, Score: res.Score, Attempts: res.Attempts},
	}}
	c.progress = c.progress.Merge(local)
	if fresh != nil {
		c.progress = c.progress.Merge(fresh.Progress)
	}

	e := c.entry(store.KindSubmission, "saved")
	e.Input = a.Answer
	e.Attempts = res.Attempts
	e.Score = res.Score
	out := Outcome{Saved: true, Recorded: res, State: st.Snapshot()}
	c.mu.Unlock()

	c.appendEntry(ctx, e)
	if fresh != nil {
		c.saveSnapshot(ctx, user, *fresh)
	}
	return out, nil
}

// attempt builds the submission body from the student's own input. Called
// with mu held.
func (c *Controller) attempt() problem.Attempt {
	st := c.state
	a := problem.Attempt{
		ProblemID: st.ProblemID,
		Answer:    st.LastInput,
		HintsUsed: st.HintsUsed(),
	}
	if st.Kind == stage.KindAssessment {
		a.Score = st.Score
	}
	return a
}

// RevealHint shows the next hint of a final-answer stage.
func (c *Controller) RevealHint() (session.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open || c.prob == nil {
		return session.State{}, ErrNoProblem
	}
	st := c.state
	if !st.Active() || !st.Kind.FinalAnswerOnly() {
		return st.Snapshot(), nil
	}
	if st.HintsRevealed >= len(c.prob.Hints) {
		st.SetMessage(evaluate.Message(st.Lang, evaluate.MsgNoMoreHints), evaluate.NoticeTTL, c.now())
		return st.Snapshot(), nil
	}
	hint := c.prob.Hint(st.HintsRevealed, st.Lang)
	st.HintsRevealed++
	st.SetMessage(hint, 0, c.now())
	return st.Snapshot(), nil
}

// EditInput applies fn to the input buffer of the open problem. Edits are
// ignored once the problem stops accepting input.
func (c *Controller) EditInput(fn func(b *inputbuf.Buffer)) session.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open && c.prob != nil && c.state.Active() {
		fn(c.state.Input)
	}
	return c.state.Snapshot()
}

// Next returns the stage that follows the open problem.
func (c *Controller) Next() (Step, error) {
	c.mu.Lock()
	sec, id := c.state.SectionID, c.state.ProblemID
	ok := c.open && c.prob != nil
	c.mu.Unlock()
	if !ok {
		return Step{}, ErrNoProblem
	}
	return NextAfter(sec, id), nil
}

// NextAfter walks the curriculum from problemID.
func NextAfter(sectionID, problemID string) Step {
	if next, ok := curriculum.Next(sectionID, problemID); ok {
		return Step{SectionID: sectionID, ProblemID: next}
	}
	ns, _ := curriculum.NextSection(sectionID)
	return Step{SectionID: sectionID, SectionComplete: true, NextSection: ns}
}

// Explain asks the tutor about the student's wrong answers. It is offered
// only once the redirect to the Explanation stage is showing. A tutor
// failure still returns the offline explanation together with the error.
func (c *Controller) Explain(ctx context.Context) (*tutor.Explanation, error) {
	c.mu.Lock()
	if !c.open || c.prob == nil {
		c.mu.Unlock()
		return nil, ErrNoProblem
	}
	if c.explainer == nil {
		c.mu.Unlock()
		return nil, ErrNoTutor
	}
	st := c.state
	if !st.AwaitingRedirect {
		c.mu.Unlock()
		return nil, ErrNotRedirect
	}
	in := tutor.Input{
		Problem:      c.prob,
		Kind:         st.Kind,
		Lang:         st.Lang,
		WrongAnswers: append([]string(nil), st.WrongAnswers...),
		HintsUsed:    st.HintsUsed(),
	}
	id := st.SessionID
	tags := llm.Tags{Purpose: "explain", SessionID: id, Username: c.user, ProblemID: st.ProblemID}
	c.mu.Unlock()

	ex, err := c.explainer.Explain(llm.WithTags(ctx, tags), in)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(id) {
		return nil, ErrSessionClosed
	}
	if ex != nil {
		c.state.Explanation = ex.Summary
	}
	return ex, err
}

// RefreshProgress fetches the student's progress and merges it into the
// cache. When the backend is unreachable the last saved snapshot is used.
func (c *Controller) RefreshProgress(ctx context.Context) (problem.Progress, error) {
	c.mu.Lock()
	user := c.user
	c.mu.Unlock()
	if user == "" {
		return nil, ErrNotLoggedIn
	}

	fresh, err := c.fetchProgress(ctx, user)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user != user {
		return nil, ErrSessionClosed
	}
	c.progress = c.progress.Merge(fresh)
	return c.progress.Clone(), nil
}

func (c *Controller) fetchProgress(ctx context.Context, user string) (problem.Progress, error) {
	sp, err := c.backend.Progress(ctx, user)
	if err == nil {
		c.saveSnapshot(ctx, user, *sp)
		return sp.Progress, nil
	}
	if c.snapshots == nil {
		return nil, err
	}
	snap, serr := c.snapshots.Latest(ctx, user)
	if serr != nil || snap == nil {
		return nil, err
	}
	c.warnf("backend unreachable, using progress saved %s: %v", snap.Timestamp.Format(time.RFC3339), err)
	return snap.Data.Progress, nil
}

// Access reports whether problemID may be entered with the cached progress.
func (c *Controller) Access(sectionID, problemID string) access.Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gate.Check(sectionID, problemID, c.progress)
}

// SetUser switches the logged-in student and drops the cached progress.
func (c *Controller) SetUser(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if username != c.user {
		c.user = username
		c.progress = nil
	}
}

// SignIn switches to username and remembers it as the current student.
func (c *Controller) SignIn(ctx context.Context, username string) error {
	c.SetUser(username)
	if c.prefs == nil {
		return nil
	}
	if err := c.prefs.Set(ctx, store.KeyCurrentUser, username); err != nil {
		return fmt.Errorf("save current user: %w", err)
	}
	return nil
}

// SignOut closes the open problem and forgets the current student.
func (c *Controller) SignOut(ctx context.Context) error {
	c.Leave()
	c.SetUser("")
	if c.prefs == nil {
		return nil
	}
	if err := c.prefs.Remove(ctx, store.KeyCurrentUser); err != nil {
		return fmt.Errorf("forget current user: %w", err)
	}
	return nil
}

// SetLang switches the feedback language and remembers the choice.
func (c *Controller) SetLang(ctx context.Context, lang problem.Lang) {
	c.mu.Lock()
	c.lang = lang
	c.state.Lang = lang
	c.mu.Unlock()

	if c.prefs != nil {
		if err := c.prefs.Set(ctx, store.KeyLanguage, string(lang)); err != nil {
			c.warnf("save language: %v", err)
		}
	}
}

// State returns a copy of the session state.
func (c *Controller) State() session.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// Problem returns the open problem, or nil.
func (c *Controller) Problem() *problem.Problem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prob
}

// Progress returns a copy of the cached progress.
func (c *Controller) Progress() problem.Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress.Clone()
}

func (c *Controller) User() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Controller) Lang() problem.Lang {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

// current reports whether id is still the open session. Called with mu held.
func (c *Controller) current(id string) bool {
	return c.open && c.state.SessionID == id
}

func (c *Controller) release(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current(id) {
		c.pending = false
	}
}

// entry starts a journal entry for the open problem. Called with mu held.
func (c *Controller) entry(kind, verdict string) *store.Entry {
	st := c.state
	return &store.Entry{
		Kind:      kind,
		SessionID: st.SessionID,
		Username:  c.user,
		SectionID: st.SectionID,
		ProblemID: st.ProblemID,
		Stage:     st.Kind.String(),
		Verdict:   verdict,
		Attempts:  st.Attempts,
		Score:     st.Score,
		HintsUsed: st.HintsUsed(),
	}
}

func (c *Controller) appendEntry(ctx context.Context, e *store.Entry) {
	if c.entries == nil {
		return
	}
	if err := c.entries.Append(context.WithoutCancel(ctx), e); err != nil {
		c.warnf("journal %s: %v", e.Kind, err)
	}
}

func (c *Controller) saveSnapshot(ctx context.Context, user string, sp problem.StudentProgress) {
	if c.snapshots == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := c.snapshots.Save(ctx, &store.Snapshot{Username: user, Data: sp}); err != nil {
		c.warnf("save progress snapshot: %v", err)
		return
	}
	if c.cfg.SnapshotKeep > 0 {
		if err := c.snapshots.Prune(ctx, user, c.cfg.SnapshotKeep); err != nil {
			c.warnf("prune progress snapshots: %v", err)
		}
	}
}

func (c *Controller) remember(ctx context.Context, sectionID, problemID string) {
	if c.prefs == nil {
		return
	}
	if err := c.prefs.Set(ctx, store.KeyLastSection, sectionID); err != nil {
		c.warnf("save last section: %v", err)
	}
	if err := c.prefs.Set(ctx, store.KeyLastProblem, problemID); err != nil {
		c.warnf("save last problem: %v", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
