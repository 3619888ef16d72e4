package templating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]string
		expected string
	}{
		{
			name:     "simple substitution",
			template: "hello {{name}}",
			vars:     map[string]string{"name": "world"},
			expected: "hello world",
		},
		{
			name:     "whitespace around key",
			template: "{{  user_input   }}!",
			vars:     map[string]string{"user_input": "hi"},
			expected: "hi!",
		},
		{
			name:     "hyphen and digits in key",
			template: "{{ diff-2 }}",
			vars:     map[string]string{"diff-2": "x"},
			expected: "x",
		},
		{
			name:     "missing key renders empty",
			template: "[{{missing}}]",
			vars:     map[string]string{},
			expected: "[]",
		},
		{
			name:     "no recursive expansion",
			template: "{{a}}",
			vars:     map[string]string{"a": "{{b}}", "b": "nope"},
			expected: "{{b}}",
		},
		{
			name:     "invalid key characters left untouched",
			template: "{{ not valid }}",
			vars:     map[string]string{"not": "x"},
			expected: "{{ not valid }}",
		},
		{
			name:     "multiple occurrences",
			template: "{{x}}-{{x}}-{{y}}",
			vars:     map[string]string{"x": "1", "y": "2"},
			expected: "1-1-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.template, tt.vars))
		})
	}
}

func TestRender_NoPlaceholdersUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"braces { } and {single}",
		"git diff --staged | head -n 50",
		"{{ unterminated",
	}

	for _, in := range inputs {
		assert.Equal(t, in, Render(in, nil))
		assert.Equal(t, in, Render(in, map[string]string{}))
	}
}

func TestRender_Idempotent(t *testing.T) {
	vars := map[string]string{"a": "alpha", "b": "beta"}
	for _, tmpl := range []string{"static text", "{{a}} and {{b}}", "{{ a }}{{c}}"} {
		once := Render(tmpl, vars)
		assert.Equal(t, once, Render(once, vars))
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "a"}, Keys("{{a}} {{ b }} {{a}}"))
	assert.Empty(t, Keys("nothing here"))
}
