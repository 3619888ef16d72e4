package skills

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

var stepBlockPattern = regexp.MustCompile("(?s)```genai-step\\s*(.*?)\\s*```")

// requiredKeys lists the keys that must be present in a mapping nested under
// parent; an empty parent is the document root
type requiredKeys struct {
	parent string
	keys   []string
}

var requiredMetadataKeys = []requiredKeys{
	{"", []string{
		"name", "description", "version", "category", "tags",
		"entrypoint", "workflow_version", "capabilities", "permissions", "response_format",
	}},
	{"capabilities", []string{"requires_repo", "supports_interactive"}},
	{"permissions", []string{"run_commands", "allowed_runners", "allowed_paths", "network_access", "write_access"}},
	{"response_format", []string{"type"}},
}

var requiredStepKeys = []requiredKeys{
	{"", []string{"id", "type"}},
}

// Parse turns the content of a SKILL.md file into a Skill. path is recorded
// for diagnostics and attached to any returned *ParseError.
func Parse(path, content string) (*Skill, error) {
	metadata, body, err := ParseFrontmatter(content)
	if err != nil {
		return nil, withPath(err, path)
	}

	steps, err := ParseSteps(body)
	if err != nil {
		return nil, withPath(err, path)
	}

	return &Skill{
		Metadata: metadata,
		Body:     body,
		Steps:    steps,
		Path:     path,
	}, nil
}

// ParseFrontmatter splits content on the --- delimiter into an empty prefix,
// the YAML frontmatter, and the markdown body, and decodes the frontmatter.
// The returned body is left-trimmed.
func ParseFrontmatter(content string) (Metadata, string, error) {
	parts := strings.SplitN(content, frontmatterDelimiter, 3)

	if strings.TrimSpace(parts[0]) != "" {
		return Metadata{}, "", newParseError(nil, "SKILL.md must start with YAML frontmatter")
	}
	if len(parts) < 2 {
		return Metadata{}, "", newParseError(nil, "missing YAML frontmatter")
	}
	if len(parts) < 3 {
		return Metadata{}, "", newParseError(nil, "missing markdown body after frontmatter")
	}

	var metadata Metadata
	if _, err := decodeYAML(parts[1], &metadata, requiredMetadataKeys); err != nil {
		return Metadata{}, "", newParseError(err, "failed to parse frontmatter YAML")
	}

	return metadata, strings.TrimLeftFunc(parts[2], unicode.IsSpace), nil
}

// ParseSteps extracts every ```genai-step fenced block from body in document
// order and decodes each one as a Step. A single malformed block fails the
// whole parse.
func ParseSteps(body string) ([]Step, error) {
	matches := stepBlockPattern.FindAllStringSubmatch(body, -1)
	steps := make([]Step, 0, len(matches))

	for i, m := range matches {
		var step Step
		root, err := decodeYAML(m[1], &step, requiredStepKeys)
		if err != nil {
			return nil, newParseError(err, "failed parsing genai-step block #%d", i+1)
		}
		step.keys = mappingKeys(root)
		steps = append(steps, step)
	}

	return steps, nil
}

// decodeYAML decodes a single YAML mapping into out after checking that the
// keys listed in required are present, and returns the mapping node
func decodeYAML(src string, out any, required []requiredKeys) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty YAML document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Errorf("expected a YAML mapping at line %d", root.Line)
	}

	for _, req := range required {
		parent := req.parent
		node := root
		if parent != "" {
			node = mappingValue(root, parent)
			if node == nil {
				continue // reported by the top-level check
			}
			if node.Kind != yaml.MappingNode {
				return nil, errors.Errorf("field %q must be a mapping (line %d)", parent, node.Line)
			}
		}
		for _, key := range req.keys {
			if mappingValue(node, key) == nil {
				if parent != "" {
					key = parent + "." + key
				}
				return nil, errors.Errorf("missing required field %q", key)
			}
		}
	}

	return root, root.Decode(out)
}

// mappingKeys returns the set of keys of a YAML mapping
func mappingKeys(node *yaml.Node) map[string]bool {
	keys := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys[node.Content[i].Value] = true
	}
	return keys
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func withPath(err error, path string) error {
	var perr *ParseError
	if errors.As(err, &perr) && perr.Path == "" {
		perr.Path = path
	}
	return err
}
