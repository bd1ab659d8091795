package progression

import (
	"fmt"
	"os"
	"time"
)

// Config tunes the controller.
type Config struct {
	// EvalDelay is the pause before an answer is evaluated, so the
	// "checking" state is visible and double presses collapse into one.
	EvalDelay time.Duration

	// SnapshotKeep is how many progress snapshots are kept per student.
	SnapshotKeep int
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		EvalDelay:    600 * time.Millisecond,
		SnapshotKeep: 10,
	}
}

// ConfigFromEnv applies MUTABAYINAT_EVAL_DELAY over the defaults.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("MUTABAYINAT_EVAL_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return cfg, fmt.Errorf("MUTABAYINAT_EVAL_DELAY: invalid duration %q", v)
		}
		cfg.EvalDelay = d
	}
	return cfg, nil
}
