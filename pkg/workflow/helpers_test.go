package workflow

import (
	"context"
	"sync"

	"github.com/jingkaihe/genai/pkg/skills"
	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

func guard(expr string) *string {
	return &expr
}

type generatorCall struct {
	Model  string
	Prompt string
}

// recordingGenerator returns resp for every call and remembers the calls
type recordingGenerator struct {
	mu    sync.Mutex
	resp  string
	err   error
	calls []generatorCall
}

func (g *recordingGenerator) Generate(_ context.Context, model, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, generatorCall{Model: model, Prompt: prompt})
	return g.resp, g.err
}

var _ llmtypes.Generator = (*recordingGenerator)(nil)

// fakeRunner returns a fixed stdout per command and records what it ran
type fakeRunner struct {
	mu      sync.Mutex
	outputs map[string]string
	err     error
	ran     []string
}

func (r *fakeRunner) Run(_ context.Context, cmd string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ran = append(r.ran, cmd)
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.outputs[cmd]), nil
}

func registryWith(name string, runner Runner) *Registry {
	reg := NewRegistry()
	reg.Register(name, runner)
	return reg
}

func commitSkill() *skills.Skill {
	return &skills.Skill{
		Metadata: skills.Metadata{Name: "auto-commit-msg"},
		Steps: []skills.Step{
			{ID: "diff", Type: skills.StepTypeCommand, Runner: "bash", Cmd: "git diff --cached", OutputVar: "diff"},
			{ID: "empty", Type: skills.StepTypeOutput, If: guard("{{diff}} == ''"), Template: "no changes"},
			{ID: "message", Type: skills.StepTypeOutput, If: guard("{{diff}} != ''"), Template: "{{diff}}"},
		},
	}
}
