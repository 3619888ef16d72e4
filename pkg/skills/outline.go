package skills

import (
	"sort"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

const stepBlockLanguage = "genai-step"

// Heading is a markdown heading found in a skill document
type Heading struct {
	Level int
	Text  string
}

// DocumentOutline summarizes the markdown structure of a SKILL.md document
type DocumentOutline struct {
	FrontmatterKeys []string
	Headings        []Heading
	StepBlocks      int // fenced blocks tagged genai-step as seen by a CommonMark parser
}

// Outline parses a full SKILL.md document as CommonMark and reports its
// frontmatter keys, headings, and genai-step fenced blocks. It is used for
// display; ParseSteps remains the authority on which steps a skill has.
func Outline(content string) DocumentOutline {
	source := []byte(content)
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	pctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(source), parser.WithContext(pctx))

	var outline DocumentOutline
	for key := range meta.Get(pctx) {
		outline.FrontmatterKeys = append(outline.FrontmatterKeys, key)
	}
	sort.Strings(outline.FrontmatterKeys)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			outline.Headings = append(outline.Headings, Heading{
				Level: node.Level,
				Text:  string(node.Text(source)),
			})
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			if string(node.Language(source)) == stepBlockLanguage {
				outline.StepBlocks++
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return outline
}
