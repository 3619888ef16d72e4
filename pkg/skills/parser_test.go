package skills

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	skill, err := Parse("skills/auto-commit-msg/SKILL.md", autoCommitDoc)
	require.NoError(t, err)

	assert.Equal(t, "auto-commit-msg", skill.Name())
	assert.Equal(t, "git", skill.Metadata.Category)
	assert.Equal(t, []string{"git", "commit"}, skill.Metadata.Tags)
	assert.Equal(t, EntrypointWorkflow, skill.Metadata.Entrypoint)
	assert.Equal(t, 1, skill.Metadata.WorkflowVersion)
	assert.True(t, skill.Metadata.Capabilities.RequiresRepo)
	assert.True(t, skill.Metadata.Permissions.RunCommands)
	assert.Equal(t, []string{"bash"}, skill.Metadata.Permissions.AllowedRunners)
	assert.Equal(t, "text", skill.Metadata.ResponseFormat.Type)
	assert.Equal(t, "conventional-commit", skill.Metadata.ResponseFormat.Style)
	assert.Equal(t, "skills/auto-commit-msg", skill.Directory())
	assert.True(t, strings.HasPrefix(skill.Body, "# Auto commit message"))

	require.Len(t, skill.Steps, 3)

	diff := skill.Steps[0]
	assert.Equal(t, "diff", diff.ID)
	assert.Equal(t, StepTypeCommand, diff.Type)
	assert.Equal(t, "bash", diff.Runner)
	assert.Equal(t, "git diff --cached", diff.Cmd)
	assert.Equal(t, "diff", diff.OutputVar)
	assert.False(t, diff.HasCondition())

	empty := skill.Steps[1]
	assert.Equal(t, StepTypeOutput, empty.Type)
	assert.Equal(t, "{{diff}} == ''", empty.Condition())
	assert.Equal(t, "no changes", empty.Template)
	assert.True(t, empty.HasCondition())

	message := skill.Steps[2]
	assert.Equal(t, StepTypeLLM, message.Type)
	assert.Equal(t, "executor", message.Model)
	assert.Equal(t, []string{"diff"}, message.InputVars)
	assert.Equal(t, "Write a commit message for: {{diff}}", message.Prompt)
}

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "empty document",
			content: "  \n",
			wantErr: "missing YAML frontmatter",
		},
		{
			name:    "no frontmatter",
			content: "# Just markdown\n",
			wantErr: "must start with YAML frontmatter",
		},
		{
			name:    "text before frontmatter",
			content: "intro\n---\nname: x\n---\nbody",
			wantErr: "must start with YAML frontmatter",
		},
		{
			name:    "unterminated frontmatter",
			content: "---\nname: x\n",
			wantErr: "missing markdown body after frontmatter",
		},
		{
			name:    "invalid yaml",
			content: "---\nname: [unclosed\n---\nbody",
			wantErr: "failed to parse frontmatter YAML",
		},
		{
			name:    "missing required key",
			content: "---\nname: x\ndescription: y\n---\nbody",
			wantErr: `missing required field "version"`,
		},
		{
			name:    "frontmatter is not a mapping",
			content: "---\n- a\n- b\n---\nbody",
			wantErr: "expected a YAML mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseFrontmatter(tt.content)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var perr *ParseError
			assert.True(t, errors.As(err, &perr))
		})
	}
}

func TestParseFrontmatterNestedRequiredKeys(t *testing.T) {
	content := strings.Replace(autoCommitDoc, "  network_access: false\n", "", 1)

	_, err := Parse("x/SKILL.md", content)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required field "permissions.network_access"`)
	assert.Contains(t, err.Error(), "x/SKILL.md")
}

func TestParseFrontmatterTrimsBody(t *testing.T) {
	doc := skillDoc("x", "d", "c", nil)
	_, body, err := ParseFrontmatter(doc)
	require.NoError(t, err)
	assert.Equal(t, "# x\n", body)
}

func TestParseSteps(t *testing.T) {
	t.Run("no blocks", func(t *testing.T) {
		steps, err := ParseSteps("# Title\n\nplain text\n")
		require.NoError(t, err)
		assert.Empty(t, steps)
	})

	t.Run("other fenced blocks are ignored", func(t *testing.T) {
		body := "```bash\necho hi\n```\n\n```genai-step\nid: a\ntype: output\ntemplate: hi\n```\n"
		steps, err := ParseSteps(body)
		require.NoError(t, err)
		require.Len(t, steps, 1)
		assert.Equal(t, "a", steps[0].ID)
	})

	t.Run("document order", func(t *testing.T) {
		body := "```genai-step\nid: first\ntype: output\ntemplate: a\n```\ntext\n```genai-step\nid: second\ntype: output\ntemplate: b\n```"
		steps, err := ParseSteps(body)
		require.NoError(t, err)
		require.Len(t, steps, 2)
		assert.Equal(t, "first", steps[0].ID)
		assert.Equal(t, "second", steps[1].ID)
	})

	t.Run("malformed block fails whole parse", func(t *testing.T) {
		body := "```genai-step\nid: ok\ntype: output\ntemplate: a\n```\n```genai-step\nid: [broken\n```"
		_, err := ParseSteps(body)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "genai-step block #2")
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := ParseSteps("```genai-step\nid: a\n```")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing required field "type"`)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ParseSteps("```genai-step\nid: a\ntype: http\n```")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown step type "http"`)
	})

	t.Run("empty values are kept apart from absent keys", func(t *testing.T) {
		steps, err := ParseSteps("```genai-step\nid: a\ntype: llm\nif: ''\nmodel: ''\n```")
		require.NoError(t, err)
		require.Len(t, steps, 1)

		step := steps[0]
		assert.True(t, step.HasCondition())
		assert.Equal(t, "", step.Condition())
		assert.True(t, step.Has("model"))
		assert.Equal(t, "", step.Model)
		assert.False(t, step.Has("prompt"))
		assert.False(t, step.Has("output_var"))
	})
}

func TestStepHasWithoutBlock(t *testing.T) {
	step := Step{ID: "a", Type: StepTypeOutput, Template: "x"}
	assert.True(t, step.Has("template"))
	assert.False(t, step.Has("model"))
	assert.False(t, step.HasCondition())
	assert.Equal(t, "", step.Condition())
}
