package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/genai/pkg/config"
	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

// outputSkillDoc renders a skill with a single output step
func outputSkillDoc(name, description string, tags []string, template string) string {
	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = fmt.Sprintf("%q", tag)
	}
	return fmt.Sprintf(`---
name: %s
description: %s
version: 1.0.0
category: misc
tags: [%s]
entrypoint: workflow
workflow_version: 1
capabilities:
  requires_repo: false
  supports_interactive: false
permissions:
  run_commands: false
  allowed_runners: []
  allowed_paths: []
  network_access: false
  write_access: false
response_format:
  type: text
---

# %s

`+"```genai-step"+`
id: say
type: output
template: %q
`+"```"+`
`, name, description, strings.Join(quoted, ", "), name, template)
}

func writeSkill(t *testing.T, root, dir, content string) string {
	t.Helper()
	path := filepath.Join(root, dir, "SKILL.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newTestSkillsDir writes an echo and a shout skill
func newTestSkillsDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeSkill(t, root, "echo", outputSkillDoc("echo", "repeat the request", []string{"echo"}, "you said: {{user_input}}"))
	writeSkill(t, root, "shout", outputSkillDoc("shout", "shout the request loudly", []string{"loud"}, "YOU SAID: {{user_input}}"))
	return root
}

func newTestConfig(t *testing.T, skillsDir string) *config.Config {
	t.Helper()
	return &config.Config{
		SkillsDir: skillsDir,
		LLM:       llmtypes.Config{Provider: llmtypes.ProviderMock},
		History: config.HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(t.TempDir(), "history.db"),
		},
	}
}

// syncBuffer is a bytes.Buffer safe for one writer and concurrent readers
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
