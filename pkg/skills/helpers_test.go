package skills

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const autoCommitDoc = `---
name: auto-commit-msg
description: Generate a conventional commit message for staged changes
version: 1.0.0
category: git
tags: ["git", "commit"]
entrypoint: workflow
workflow_version: 1
capabilities:
  requires_repo: true
  supports_interactive: false
permissions:
  run_commands: true
  allowed_runners: ["bash"]
  allowed_paths: ["."]
  network_access: false
  write_access: false
response_format:
  type: text
  style: conventional-commit
---

# Auto commit message

` + "```genai-step" + `
id: diff
type: command
runner: bash
cmd: git diff --cached
output_var: diff
` + "```" + `

` + "```genai-step" + `
id: empty
type: output
if: "{{diff}} == ''"
template: no changes
` + "```" + `

` + "```genai-step" + `
id: message
type: llm
if: "{{diff}} != ''"
model: executor
input_vars: [diff]
prompt: "Write a commit message for: {{diff}}"
output_var: message
` + "```" + `
`

// skillDoc builds a minimal valid SKILL.md for name with the given step blocks
func skillDoc(name, description, category string, tags []string, steps ...string) string {
	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = `"` + tag + `"`
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("name: " + name + "\n")
	b.WriteString("description: " + description + "\n")
	b.WriteString("version: 0.1.0\n")
	b.WriteString("category: " + category + "\n")
	b.WriteString("tags: [" + strings.Join(quoted, ", ") + "]\n")
	b.WriteString(`entrypoint: workflow
workflow_version: 1
capabilities:
  requires_repo: false
  supports_interactive: false
permissions:
  run_commands: true
  allowed_runners: ["bash"]
  allowed_paths: []
  network_access: false
  write_access: false
response_format:
  type: text
---

# ` + name + "\n")
	for _, step := range steps {
		b.WriteString("\n```genai-step\n" + step + "\n```\n")
	}
	return b.String()
}

func writeSkill(t *testing.T, root, dir, content string) string {
	t.Helper()
	skillDir := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	path := filepath.Join(skillDir, skillFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func mustParse(t *testing.T, content string) *Skill {
	t.Helper()
	skill, err := Parse("test/SKILL.md", content)
	require.NoError(t, err)
	return skill
}
