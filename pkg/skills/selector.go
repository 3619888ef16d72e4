package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jingkaihe/genai/pkg/logger"
	"github.com/jingkaihe/genai/pkg/telemetry"
	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// SelectionMethod records how a skill was chosen
type SelectionMethod string

const (
	SelectionByModel     SelectionMethod = "model"
	SelectionByHeuristic SelectionMethod = "heuristic"
	SelectionByName      SelectionMethod = "name"
)

// Selection is the outcome of choosing a skill for a request
type Selection struct {
	Skill      *Skill
	Method     SelectionMethod
	Confidence float64 // reported by the model, informational only
	Reason     string  // reported by the model, informational only
}

// Selector chooses one skill for a free-text request. When a generator is
// configured it is consulted first; any failure falls back to the
// deterministic heuristic.
type Selector struct {
	generator llmtypes.Generator
}

// NewSelector creates a Selector. generator may be nil, in which case only
// the heuristic is used.
func NewSelector(generator llmtypes.Generator) *Selector {
	return &Selector{generator: generator}
}

// selectorResponse is the strict JSON shape the selection model must return
type selectorResponse struct {
	Skill      *string  `json:"skill"`
	Confidence *float64 `json:"confidence"`
	Reason     *string  `json:"reason"`
}

// Select picks a skill for input out of skills
func (s *Selector) Select(ctx context.Context, input string, skills []*Skill) (*Selection, error) {
	if len(skills) == 0 {
		return nil, &SelectionError{Msg: "no skills found"}
	}

	if s.generator != nil {
		if selection, ok := s.selectWithModel(ctx, input, skills); ok {
			telemetry.SetAttributes(ctx, attribute.String("skill.selection_method", string(SelectionByModel)))
			return selection, nil
		}
	}

	skill, err := SelectByHeuristic(input, skills)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(ctx, attribute.String("skill.selection_method", string(SelectionByHeuristic)))
	logger.G(ctx).WithField("skill", skill.Name()).Debug("skill selected by heuristic")

	return &Selection{Skill: skill, Method: SelectionByHeuristic}, nil
}

func (s *Selector) selectWithModel(ctx context.Context, input string, skills []*Skill) (*Selection, bool) {
	log := logger.G(ctx)

	resp, err := s.generator.Generate(ctx, llmtypes.ModelSelector, BuildSelectorPrompt(input, skills))
	if err != nil {
		log.WithError(err).Debug("selector model call failed, falling back to heuristic")
		return nil, false
	}

	parsed, err := parseSelectorResponse(resp)
	if err != nil {
		log.WithError(err).WithField("response", resp).Debug("selector response is not valid JSON, falling back to heuristic")
		return nil, false
	}

	for _, skill := range skills {
		if skill.Name() == *parsed.Skill {
			log.WithField("skill", skill.Name()).
				WithField("confidence", *parsed.Confidence).
				WithField("reason", *parsed.Reason).
				Debug("skill selected by model")
			return &Selection{
				Skill:      skill,
				Method:     SelectionByModel,
				Confidence: *parsed.Confidence,
				Reason:     *parsed.Reason,
			}, true
		}
	}

	log.WithField("skill", *parsed.Skill).Debug("selector model named an unknown skill, falling back to heuristic")
	return nil, false
}

func parseSelectorResponse(raw string) (*selectorResponse, error) {
	var parsed selectorResponse
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&parsed); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON object")
	}
	if parsed.Skill == nil || parsed.Confidence == nil || parsed.Reason == nil {
		return nil, errors.New("response must contain skill, confidence and reason")
	}
	return &parsed, nil
}

// SelectByHeuristic scores every skill against input and returns the best
// match. A skill scores 2 when the lower-cased input is a substring of its
// description, 2 more when it is a substring of its category, and 1 per tag
// that contains or is contained in the input. Ties are broken by the number
// of matching tags and then by position in skills (first wins).
func SelectByHeuristic(input string, skills []*Skill) (*Skill, error) {
	if len(skills) == 0 {
		return nil, &SelectionError{Msg: "unable to select a skill from an empty skill set"}
	}

	var (
		best           *Skill
		bestScore      = -1
		bestTagMatches = -1
	)
	for _, skill := range skills {
		score, tagMatches := scoreSkill(input, skill)
		if score > bestScore || (score == bestScore && tagMatches > bestTagMatches) {
			best, bestScore, bestTagMatches = skill, score, tagMatches
		}
	}

	return best, nil
}

func scoreSkill(input string, skill *Skill) (score, tagMatches int) {
	needle := strings.ToLower(input)

	if strings.Contains(strings.ToLower(skill.Metadata.Description), needle) {
		score += 2
	}
	if strings.Contains(strings.ToLower(skill.Metadata.Category), needle) {
		score += 2
	}
	for _, tag := range skill.Metadata.Tags {
		tag = strings.ToLower(tag)
		if strings.Contains(needle, tag) || strings.Contains(tag, needle) {
			score++
			tagMatches++
		}
	}

	return score, tagMatches
}

// BuildSelectorPrompt renders the prompt asking a model to pick a skill
func BuildSelectorPrompt(input string, skills []*Skill) string {
	var b strings.Builder
	b.WriteString("Select best skill for user request. Return strict JSON: ")
	b.WriteString(`{"skill":"...","confidence":0.0,"reason":"..."}`)
	b.WriteString("\nUser input: ")
	b.WriteString(input)
	b.WriteString("\nAvailable skills:\n")

	for i, skill := range skills {
		if i > 0 {
			b.WriteString("\n")
		}
		quoted := make([]string, len(skill.Metadata.Tags))
		for j, tag := range skill.Metadata.Tags {
			quoted[j] = fmt.Sprintf("%q", tag)
		}
		fmt.Fprintf(&b, "- name: %s\n  description: %s\n  category: %s\n  tags: [%s]",
			skill.Metadata.Name, skill.Metadata.Description, skill.Metadata.Category, strings.Join(quoted, ", "))
	}

	return b.String()
}
