package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/abhisek/mutabayinat/internal/backend"
	"github.com/abhisek/mutabayinat/internal/llm"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/progression"
	"github.com/abhisek/mutabayinat/internal/screens"
	"github.com/abhisek/mutabayinat/internal/store"
	"github.com/abhisek/mutabayinat/internal/tutor"
	"github.com/abhisek/mutabayinat/internal/voice"
)

// env bundles what the commands share: the local store, the backend client
// and a controller for the remembered student.
type env struct {
	store      *store.Store
	client     *backend.Client
	controller *progression.Controller

	user        string
	lang        problem.Lang
	lastSection string

	// Warnings raised while the TUI owns the terminal are held back and
	// printed on exit.
	mu       sync.Mutex
	deferred []string
}

// openEnv opens the store and builds the backend client and controller.
// The caller must call close.
func openEnv(cmd *cobra.Command) (*env, error) {
	return loadEnv(cmd, false)
}

// openTUIEnv is openEnv for the TUI: controller warnings are deferred.
func openTUIEnv(cmd *cobra.Command) (*env, error) {
	return loadEnv(cmd, true)
}

func loadEnv(cmd *cobra.Command, deferWarnings bool) (*env, error) {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	e := &env{store: st, client: backend.New(backendConfig(cmd))}
	prefs := st.Prefs()

	e.user, _, err = prefs.Get(ctx, store.KeyCurrentUser)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("read current user: %w", err)
	}
	warn := stderrWarnf
	if deferWarnings {
		warn = e.warnf
	}
	e.lastSection = optionalPref(ctx, prefs, store.KeyLastSection, warn)
	e.lang = resolveLang(ctx, cmd, prefs, warn)

	cfg, err := progression.ConfigFromEnv()
	if err != nil {
		st.Close()
		return nil, err
	}

	opts := progression.Options{
		Backend:   e.client,
		Prefs:     prefs,
		Journal:   st.Journal(),
		Snapshots: st.SnapshotRepo(),
		Explainer: newTutor(ctx, st.Journal()),
		Config:    cfg,
		Username:  e.user,
		Lang:      e.lang,
	}
	if deferWarnings {
		opts.Warnf = warn
	}
	e.controller = progression.New(opts)
	return e, nil
}

func stderrWarnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

func (e *env) warnf(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deferred = append(e.deferred, fmt.Sprintf(format, args...))
}

func (e *env) close() {
	e.mu.Lock()
	for _, w := range e.deferred {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	e.deferred = nil
	e.mu.Unlock()
	e.store.Close()
}

// deps builds the screen dependencies for the TUI.
func (e *env) deps() screens.Deps {
	return screens.Deps{
		Controller:  e.controller,
		Sections:    e.client,
		Auth:        e.client,
		Voice:       voice.FromEnv(),
		CallTimeout: screens.DefaultCallTimeout,
	}
}

// requireUser fails when nobody is logged in.
func (e *env) requireUser() error {
	if e.user == "" {
		return fmt.Errorf("not logged in; run `mutabayinat login <username> --class <class>`")
	}
	return nil
}

// newTutor builds the mistake explainer. Without an LLM key it still
// explains, from the offline diagnosis only.
func newTutor(ctx context.Context, journal store.Journal) *tutor.Service {
	cfg, ok := llm.DiscoverConfig()
	if !ok {
		return tutor.NewService(nil, tutor.DefaultConfig())
	}
	provider, err := llm.NewProvider(ctx, cfg, journal)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Tutor provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Explanations will use the offline diagnosis.")
		return tutor.NewService(nil, tutor.DefaultConfig())
	}
	return tutor.NewService(provider, tutor.DefaultConfig())
}

// resolveLang picks the language from --lang, then MUTABAYINAT_LANG, then
// the saved preference.
func resolveLang(ctx context.Context, cmd *cobra.Command, prefs store.Prefs, warn func(string, ...any)) problem.Lang {
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		return problem.ParseLang(v)
	}
	if v := os.Getenv("MUTABAYINAT_LANG"); v != "" {
		return problem.ParseLang(v)
	}
	if v := optionalPref(ctx, prefs, store.KeyLanguage, warn); v != "" {
		return problem.ParseLang(v)
	}
	return problem.LangEN
}

// optionalPref reads a preference the commands can do without. A read
// error is reported through warn and treated as unset.
func optionalPref(ctx context.Context, prefs store.Prefs, key string, warn func(string, ...any)) string {
	v, _, err := prefs.Get(ctx, key)
	if err != nil {
		warn("read %s: %v", key, err)
		return ""
	}
	return v
}

func backendConfig(cmd *cobra.Command) backend.Config {
	cfg := backend.ConfigFromEnv()
	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.BaseURL = v
	}
	return cfg
}
