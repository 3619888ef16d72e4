package skills

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/jingkaihe/genai/pkg/logger"
)

// Initialize discovers the skills under dirs, keeps those matching the
// allowed name patterns, and validates every one of them. Any parse or
// validation failure aborts initialization so that an invalid skill can
// never be selected or run.
func Initialize(ctx context.Context, dirs []string, allowed []string) ([]*Skill, error) {
	discovery, err := NewDiscovery(WithSkillDirs(dirs...))
	if err != nil {
		return nil, err
	}

	all, err := discovery.DiscoverSkills(ctx)
	if err != nil {
		return nil, err
	}

	filtered, err := FilterByAllowlist(all, allowed)
	if err != nil {
		return nil, err
	}

	for _, skill := range filtered {
		if err := Validate(skill); err != nil {
			return nil, errors.Wrapf(err, "invalid skill at %s", skill.Path)
		}
	}

	logger.G(ctx).WithField("count", len(filtered)).WithField("dirs", dirs).Debug("skills initialized")
	return filtered, nil
}

// ValidateAll validates every skill and collects one error per invalid
// skill. Each skill still reports only its first failing check.
func ValidateAll(skills []*Skill) error {
	var result *multierror.Error
	for _, skill := range skills {
		if err := Validate(skill); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "%s", skill.Path))
		}
	}
	return result.ErrorOrNil()
}
