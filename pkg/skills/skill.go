// Package skills provides the skill document model together with discovery,
// parsing, validation, and selection of skills. A skill is a directory
// containing a SKILL.md file whose YAML frontmatter describes the skill and
// whose markdown body embeds an ordered list of genai-step workflow blocks.
package skills

import (
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const skillFileName = "SKILL.md"

// Values the validator accepts for the workflow entrypoint and version
const (
	EntrypointWorkflow       = "workflow"
	SupportedWorkflowVersion = 1
)

// Skill represents a parsed SKILL.md document. A Skill is not modified after
// it has been parsed and may be shared across concurrent workflow runs.
type Skill struct {
	Metadata Metadata `json:"metadata"`
	Body     string   `json:"body"`  // Markdown body after the frontmatter, left-trimmed
	Steps    []Step   `json:"steps"` // Workflow steps in document order
	Path     string   `json:"path"`  // Source file, used for diagnostics only
}

// Name returns the skill name from its metadata
func (s *Skill) Name() string {
	return s.Metadata.Name
}

// Directory returns the directory containing the skill's SKILL.md
func (s *Skill) Directory() string {
	if s.Path == "" {
		return ""
	}
	return filepath.Dir(s.Path)
}

// Metadata represents the YAML frontmatter in SKILL.md files
type Metadata struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Version     string   `yaml:"version" json:"version"`
	Category    string   `yaml:"category" json:"category"`
	Tags        []string `yaml:"tags" json:"tags"`

	Entrypoint      string `yaml:"entrypoint" json:"entrypoint" jsonschema:"enum=workflow"`
	WorkflowVersion int    `yaml:"workflow_version" json:"workflow_version" jsonschema:"enum=1"`

	Capabilities   Capabilities   `yaml:"capabilities" json:"capabilities"`
	Permissions    Permissions    `yaml:"permissions" json:"permissions"`
	ResponseFormat ResponseFormat `yaml:"response_format" json:"response_format"`
}

// Capabilities describes what a skill needs from its environment
type Capabilities struct {
	RequiresRepo        bool `yaml:"requires_repo" json:"requires_repo"`
	SupportsInteractive bool `yaml:"supports_interactive" json:"supports_interactive"`
}

// Permissions is the skill-authored permission policy enforced by Validate.
// AllowedPaths and WriteAccess are carried but not enforced.
type Permissions struct {
	RunCommands    bool     `yaml:"run_commands" json:"run_commands"`
	AllowedRunners []string `yaml:"allowed_runners" json:"allowed_runners"`
	AllowedPaths   []string `yaml:"allowed_paths" json:"allowed_paths"`
	NetworkAccess  bool     `yaml:"network_access" json:"network_access"`
	WriteAccess    bool     `yaml:"write_access" json:"write_access"`
}

// AllowsRunner reports whether runner is listed in AllowedRunners
func (p Permissions) AllowsRunner(runner string) bool {
	for _, r := range p.AllowedRunners {
		if r == runner {
			return true
		}
	}
	return false
}

// ResponseFormat describes how the skill's final output is meant to be read
type ResponseFormat struct {
	Type  string `yaml:"type" json:"type"`
	Style string `yaml:"style,omitempty" json:"style,omitempty"`
}

// StepType discriminates the kinds of workflow step
type StepType string

const (
	StepTypeCommand StepType = "command"
	StepTypeLLM     StepType = "llm"
	StepTypeOutput  StepType = "output"
)

// StepTypes lists every known step type
var StepTypes = []StepType{StepTypeCommand, StepTypeLLM, StepTypeOutput}

// Valid reports whether t is one of the known step types
func (t StepType) Valid() bool {
	switch t {
	case StepTypeCommand, StepTypeLLM, StepTypeOutput:
		return true
	}
	return false
}

// UnmarshalYAML rejects unknown step types at parse time
func (t *StepType) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	st := StepType(raw)
	if !st.Valid() {
		return errors.Errorf("unknown step type %q (line %d), expected one of command, llm, output", raw, value.Line)
	}
	*t = st
	return nil
}

// Step is a single unit of work in a skill workflow. Which fields are
// meaningful depends on Type:
//   - command: Runner and Cmd
//   - llm: Model, Prompt and optionally InputVars
//   - output: Template and optionally Format
type Step struct {
	ID        string   `yaml:"id" json:"id"`
	Type      StepType `yaml:"type" json:"type" jsonschema:"enum=command,enum=llm,enum=output"`
	If        *string  `yaml:"if,omitempty" json:"if,omitempty"`
	OutputVar string   `yaml:"output_var,omitempty" json:"output_var,omitempty"`

	Runner string `yaml:"runner,omitempty" json:"runner,omitempty"`
	Cmd    string `yaml:"cmd,omitempty" json:"cmd,omitempty"`

	Model     string   `yaml:"model,omitempty" json:"model,omitempty"`
	InputVars []string `yaml:"input_vars,omitempty" json:"input_vars,omitempty"`
	Prompt    string   `yaml:"prompt,omitempty" json:"prompt,omitempty"`

	Format   string `yaml:"format,omitempty" json:"format,omitempty"`
	Template string `yaml:"template,omitempty" json:"template,omitempty"`

	// keys holds the keys written in the genai-step block
	keys map[string]bool
}

// HasCondition reports whether the step carries an if guard. An empty guard
// is still a guard.
func (s Step) HasCondition() bool {
	return s.If != nil
}

// Condition returns the if guard, or "" when there is none
func (s Step) Condition() string {
	if s.If == nil {
		return ""
	}
	return *s.If
}

// Has reports whether key was given for the step. A key written in the
// genai-step block counts even when its value is empty.
func (s Step) Has(key string) bool {
	if s.keys[key] {
		return true
	}
	switch key {
	case "id":
		return s.ID != ""
	case "type":
		return s.Type != ""
	case "if":
		return s.If != nil
	case "output_var":
		return s.OutputVar != ""
	case "runner":
		return s.Runner != ""
	case "cmd":
		return s.Cmd != ""
	case "model":
		return s.Model != ""
	case "input_vars":
		return s.InputVars != nil
	case "prompt":
		return s.Prompt != ""
	case "format":
		return s.Format != ""
	case "template":
		return s.Template != ""
	}
	return false
}
