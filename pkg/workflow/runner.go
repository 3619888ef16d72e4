package workflow

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/jingkaihe/genai/pkg/osutil"
)

// Runner names known to the registry
const (
	RunnerBash       = "bash"
	RunnerPosixShell = "sh"
)

// Runner executes a command string and returns what it wrote to stdout.
// stderr and the exit status are not part of the result; an error means the
// command could not be started at all.
type Runner interface {
	Run(ctx context.Context, cmd string) ([]byte, error)
}

// RunnerFunc adapts a function to the Runner interface
type RunnerFunc func(ctx context.Context, cmd string) ([]byte, error)

// Run calls f(ctx, cmd)
func (f RunnerFunc) Run(ctx context.Context, cmd string) ([]byte, error) {
	return f(ctx, cmd)
}

// BashRunner runs commands as `bash -lc <cmd>` in a child process
type BashRunner struct {
	Dir string // working directory, defaults to the current one
}

// Run implements Runner
func (r *BashRunner) Run(ctx context.Context, cmd string) ([]byte, error) {
	c := exec.CommandContext(ctx, "bash", "-lc", cmd)
	c.Dir = r.Dir
	osutil.KillTreeOnCancel(c)
	c.Stderr = io.Discard

	stdout, err := c.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, "command interrupted")
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout, nil
		}
		return nil, errors.Wrap(err, "failed to run bash")
	}
	return stdout, nil
}

// PosixShellRunner interprets commands in-process with a POSIX shell
// interpreter, so it works on hosts without bash
type PosixShellRunner struct {
	Dir string
}

// Run implements Runner
func (r *PosixShellRunner) Run(ctx context.Context, cmd string) ([]byte, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(cmd), "")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse shell command")
	}

	dir := r.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return nil, errors.Wrap(err, "failed to get working directory")
		}
	}

	var stdout bytes.Buffer
	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, &stdout, io.Discard),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create shell interpreter")
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if !errors.As(err, &status) {
			return nil, errors.Wrap(err, "shell command failed")
		}
	}
	return stdout.Bytes(), nil
}

// Registry maps runner names to implementations. It decides which runners
// exist on this host; the skill's allowed_runners decides which it may use.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]Runner
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]Runner)}
}

// DefaultRegistry returns a registry holding only the bash runner, plus the
// in-process sh runner when posixShell is true
func DefaultRegistry(posixShell bool) *Registry {
	reg := NewRegistry()
	reg.Register(RunnerBash, &BashRunner{})
	if posixShell {
		reg.Register(RunnerPosixShell, &PosixShellRunner{})
	}
	return reg
}

// Register adds or replaces the runner stored under name
func (r *Registry) Register(name string, runner Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[name] = runner
}

// Lookup returns the runner registered under name
func (r *Registry) Lookup(name string) (Runner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	runner, ok := r.runners[name]
	return runner, ok
}

// Names lists the registered runner names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
