package exec

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sup/internal/env"
	"github.com/rileyhilliard/sup/internal/errors"
	"github.com/rileyhilliard/sup/internal/logger"
)

// newTestLocalRunner builds a runner whose environment is vars plus PATH.
func newTestLocalRunner(vars map[string]string) (*LocalRunner, *bytes.Buffer, *bytes.Buffer) {
	merged := map[string]string{"PATH": os.Getenv("PATH")}
	for k, v := range vars {
		merged[k] = v
	}

	var stdout, stderr bytes.Buffer
	r := NewLocalRunner(env.FromMap(merged), logger.Noop())
	r.Stdin = nil
	r.Stdout = &stdout
	r.Stderr = &stderr
	return r, &stdout, &stderr
}

func TestLocalRunner_Run(t *testing.T) {
	r, stdout, _ := newTestLocalRunner(nil)

	err := r.Run(context.Background(), "echo 'hello world' | tr ' ' '_'")

	require.NoError(t, err)
	assert.Equal(t, "hello_world\n", stdout.String())
}

func TestLocalRunner_EnvironmentIsReplaced(t *testing.T) {
	t.Setenv("SUP_TEST_INHERITED", "yes")
	r, stdout, _ := newTestLocalRunner(map[string]string{"IMAGE": "api:1.2"})

	err := r.Run(context.Background(), `echo "$IMAGE ${SUP_TEST_INHERITED:-unset}"`)

	require.NoError(t, err)
	assert.Equal(t, "api:1.2 unset\n", stdout.String())
}

func TestLocalRunner_NonZeroExit(t *testing.T) {
	r, _, stderr := newTestLocalRunner(nil)

	err := r.Run(context.Background(), "echo broken >&2; exit 3")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrLocal))
	code, ok := errors.GetExitCode(err)
	assert.True(t, ok)
	assert.Equal(t, 3, code)
	assert.Equal(t, "broken\n", stderr.String())
}

func TestLocalRunner_RunScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "build.sh")
	require.NoError(t, os.WriteFile(script, []byte("echo \"building for $SUP_NETWORK\"\n"), 0644))

	r, stdout, _ := newTestLocalRunner(map[string]string{"SUP_NETWORK": "staging"})

	require.NoError(t, r.RunScript(context.Background(), script))
	assert.Equal(t, "building for staging\n", stdout.String())
}

func TestLocalRunner_RunScriptMissing(t *testing.T) {
	r, stdout, _ := newTestLocalRunner(nil)

	err := r.RunScript(context.Background(), filepath.Join(t.TempDir(), "missing.sh"))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrLocal))
	assert.Contains(t, err.Error(), "Script file does not exist")
	assert.Empty(t, stdout.String())
}

func TestLocalRunner_RunScriptFails(t *testing.T) {
	script := filepath.Join(t.TempDir(), "fail.sh")
	require.NoError(t, os.WriteFile(script, []byte("exit 7\n"), 0644))

	r, _, _ := newTestLocalRunner(nil)
	err := r.RunScript(context.Background(), script)

	require.Error(t, err)
	code, ok := errors.GetExitCode(err)
	assert.True(t, ok)
	assert.Equal(t, 7, code)
}
