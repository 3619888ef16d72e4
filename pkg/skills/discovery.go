package skills

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/jingkaihe/genai/pkg/logger"
)

// skillFilePattern matches SKILL.md exactly one directory below a skills root
const skillFilePattern = "*/" + skillFileName

// Discovery handles skill discovery from configured directories
type Discovery struct {
	skillDirs []string
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithSkillDirs sets the skills root directories, highest precedence first
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		d.skillDirs = dirs
		return nil
	}
}

// WithDefaultDirs uses ~/GenAI/skills as the only skills root
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.skillDirs = []string{filepath.Join(homeDir, "GenAI", "skills")}
		return nil
	}
}

// NewDiscovery creates a new skill discovery instance
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		opts = []Option{WithDefaultDirs()}
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// SkillDirs returns the configured skills roots
func (d *Discovery) SkillDirs() []string {
	return d.skillDirs
}

// DiscoverSkills parses every <root>/<dir>/SKILL.md under the configured
// roots. Files at any other depth are ignored. Skills are returned sorted by
// path within each root; when two roots define the same skill name the
// earlier root wins. The first file that fails to parse aborts discovery.
func (d *Discovery) DiscoverSkills(ctx context.Context) ([]*Skill, error) {
	var skills []*Skill
	seen := make(map[string]string)

	for _, dir := range d.skillDirs {
		found, err := discoverSkillsFromDir(dir)
		if err != nil {
			return nil, err
		}

		for _, skill := range found {
			if prev, exists := seen[skill.Name()]; exists {
				logger.G(ctx).WithField("skill", skill.Name()).
					WithField("path", skill.Path).
					WithField("shadowed_by", prev).
					Debug("skipping skill shadowed by a higher precedence directory")
				continue
			}
			seen[skill.Name()] = skill.Path
			skills = append(skills, skill)
		}
	}

	return skills, nil
}

func discoverSkillsFromDir(dir string) ([]*Skill, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "skills directory %s not found", dir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("skills path %s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), skillFilePattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan skills directory %s", dir)
	}
	sort.Strings(matches)

	skills := make([]*Skill, 0, len(matches))
	for _, rel := range matches {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		skill, err := LoadSkill(path)
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}

	return skills, nil
}

// GetSkill returns a specific skill by name
func (d *Discovery) GetSkill(ctx context.Context, name string) (*Skill, error) {
	skills, err := d.DiscoverSkills(ctx)
	if err != nil {
		return nil, err
	}

	skill := FindByName(skills, name)
	if skill == nil {
		return nil, errors.Errorf("skill not found: %s", name)
	}

	return skill, nil
}

// LoadSkill reads and parses a single SKILL.md file
func LoadSkill(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read skill file %s", path)
	}

	return Parse(path, string(content))
}

// FindByName returns the skill with the given name, or nil
func FindByName(skills []*Skill, name string) *Skill {
	for _, skill := range skills {
		if skill.Name() == name {
			return skill
		}
	}
	return nil
}

// FilterByAllowlist keeps the skills whose name matches at least one glob
// pattern in allowed. If allowed is empty, all skills are returned.
func FilterByAllowlist(skills []*Skill, allowed []string) ([]*Skill, error) {
	if len(allowed) == 0 {
		return skills, nil
	}

	patterns := make([]glob.Glob, 0, len(allowed))
	for _, pattern := range allowed {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid skill allowlist pattern %q", pattern)
		}
		patterns = append(patterns, g)
	}

	filtered := make([]*Skill, 0, len(skills))
	for _, skill := range skills {
		for _, g := range patterns {
			if g.Match(skill.Name()) {
				filtered = append(filtered, skill)
				break
			}
		}
	}
	return filtered, nil
}
