package workflow

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/jingkaihe/genai/pkg/templating"
)

// ErrUnrecognizedCondition is returned by ParseCondition when a rendered
// guard matches none of the supported forms
var ErrUnrecognizedCondition = errors.New("unrecognized condition")

const (
	emptyCheckSuffix    = "== ''"
	nonEmptyCheckSuffix = "!= ''"
	equalsOperator      = "=="
)

// EvaluateCondition renders expr against the run variables and decides
// whether a guarded step should run. Three forms are understood, checked in
// this order on the trimmed rendered text:
//
//	<left> == ''        true when left is blank
//	<left> != ''        true when left is not blank
//	<left> == <right>   true when both sides match after trimming, with
//	                    single quotes stripped from the right side
//
// Anything else evaluates to false.
func EvaluateCondition(expr string, ctx *Context) bool {
	ok, _ := ParseCondition(expr, ctx)
	return ok
}

// ParseCondition is EvaluateCondition that also reports
// ErrUnrecognizedCondition for guards in none of the supported forms
func ParseCondition(expr string, ctx *Context) (bool, error) {
	resolved := strings.TrimSpace(templating.Render(expr, ctx.Vars()))

	if left, ok := strings.CutSuffix(resolved, emptyCheckSuffix); ok {
		return strings.TrimSpace(left) == "", nil
	}
	if left, ok := strings.CutSuffix(resolved, nonEmptyCheckSuffix); ok {
		return strings.TrimSpace(left) != "", nil
	}
	if left, right, ok := strings.Cut(resolved, equalsOperator); ok {
		return strings.TrimSpace(left) == strings.Trim(strings.TrimSpace(right), "'"), nil
	}

	return false, errors.Wrapf(ErrUnrecognizedCondition, "%q", resolved)
}
