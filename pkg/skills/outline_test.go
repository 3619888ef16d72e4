package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutline(t *testing.T) {
	doc := autoCommitDoc + "\n## Notes\n\n```bash\necho not a step\n```\n"

	outline := Outline(doc)

	assert.Contains(t, outline.FrontmatterKeys, "name")
	assert.Contains(t, outline.FrontmatterKeys, "permissions")
	assert.Len(t, outline.FrontmatterKeys, 10)
	assert.Equal(t, []Heading{
		{Level: 1, Text: "Auto commit message"},
		{Level: 2, Text: "Notes"},
	}, outline.Headings)
	assert.Equal(t, 3, outline.StepBlocks)
}

func TestOutlineWithoutFrontmatter(t *testing.T) {
	outline := Outline("# Title\n\ntext\n")

	assert.Empty(t, outline.FrontmatterKeys)
	assert.Equal(t, []Heading{{Level: 1, Text: "Title"}}, outline.Headings)
	assert.Zero(t, outline.StepBlocks)
}
