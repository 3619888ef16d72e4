package skills

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
)

var skillNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-]*$`)

const scaffoldTemplate = `---
name: {{name}}
description: {{quoted_description}}
version: 0.1.0
category: general
tags: []
entrypoint: workflow
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

# {{name}}

{{description}}

` + "```genai-step" + `
id: collect
type: command
runner: bash
cmd: echo "{{user_input}}"
output_var: collected
` + "```" + `

` + "```genai-step" + `
id: answer
type: output
format: text
template: "{{collected}}"
` + "```" + `
`

// Scaffold writes a new skill named name under root and returns the path of
// the created SKILL.md. The generated document parses and validates as is.
// An existing skill directory is never overwritten.
func Scaffold(root, name, description string) (string, error) {
	if !skillNamePattern.MatchString(name) {
		return "", errors.Errorf("invalid skill name %q: use lowercase letters, digits, '-' and '_'", name)
	}
	if strings.TrimSpace(description) == "" {
		description = "Describe what " + name + " does"
	}

	dir := filepath.Join(root, name)
	path := filepath.Join(dir, skillFileName)
	if _, err := os.Stat(path); err == nil {
		return "", errors.Errorf("skill %s already exists at %s", name, path)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create skill directory %s", dir)
	}

	// step placeholders such as {{user_input}} are left for the workflow
	content := strings.NewReplacer(
		"{{name}}", name,
		"{{quoted_description}}", strconv.Quote(description),
		"{{description}}", description,
	).Replace(scaffoldTemplate)

	if err := lockedfile.Write(path, strings.NewReader(content), 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}

	return path, nil
}
