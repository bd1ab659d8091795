package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("MUTABAYINAT_EVAL_DELAY", "")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 600*time.Millisecond, cfg.EvalDelay)

	t.Setenv("MUTABAYINAT_EVAL_DELAY", "0s")
	cfg, err = ConfigFromEnv()
	require.NoError(t, err)
	assert.Zero(t, cfg.EvalDelay)

	t.Setenv("MUTABAYINAT_EVAL_DELAY", "soon")
	_, err = ConfigFromEnv()
	assert.Error(t, err)
}
