package workflow

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireBash(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
}

func TestBashRunner(t *testing.T) {
	requireBash(t)
	runner := &BashRunner{}

	t.Run("captures stdout only", func(t *testing.T) {
		out, err := runner.Run(context.Background(), "echo out; echo err >&2")
		require.NoError(t, err)
		assert.Equal(t, "out\n", string(out))
	})

	t.Run("ignores exit status", func(t *testing.T) {
		out, err := runner.Run(context.Background(), "echo partial; exit 3")
		require.NoError(t, err)
		assert.Equal(t, "partial\n", string(out))
	})

	t.Run("working directory", func(t *testing.T) {
		dir := t.TempDir()
		out, err := (&BashRunner{Dir: dir}).Run(context.Background(), "pwd -P")
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := runner.Run(ctx, "sleep 5")
		assert.Error(t, err)
	})

	t.Run("timeout kills background children", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := runner.Run(ctx, "sleep 30 & wait")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestPosixShellRunner(t *testing.T) {
	runner := &PosixShellRunner{Dir: t.TempDir()}

	t.Run("captures stdout only", func(t *testing.T) {
		out, err := runner.Run(context.Background(), "echo out; echo err >&2")
		require.NoError(t, err)
		assert.Equal(t, "out\n", string(out))
	})

	t.Run("ignores exit status", func(t *testing.T) {
		out, err := runner.Run(context.Background(), "echo partial; exit 3")
		require.NoError(t, err)
		assert.Equal(t, "partial\n", string(out))
	})

	t.Run("variables and pipes", func(t *testing.T) {
		out, err := runner.Run(context.Background(), `x=hello; printf '%s world\n' "$x"`)
		require.NoError(t, err)
		assert.Equal(t, "hello world\n", string(out))
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := runner.Run(context.Background(), "if then fi (")
		assert.Error(t, err)
	})
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{RunnerBash}, DefaultRegistry(false).Names())
	assert.Equal(t, []string{RunnerBash, RunnerPosixShell}, DefaultRegistry(true).Names())

	reg := NewRegistry()
	_, ok := reg.Lookup("bash")
	assert.False(t, ok)

	fake := RunnerFunc(func(context.Context, string) ([]byte, error) { return []byte("x"), nil })
	reg.Register("fake", fake)
	got, ok := reg.Lookup("fake")
	require.True(t, ok)
	out, err := got.Run(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "x", string(out))
}
