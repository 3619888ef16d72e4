package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/genai/pkg/config"
	"github.com/jingkaihe/genai/pkg/logger"
	"github.com/jingkaihe/genai/pkg/presenter"
	"github.com/jingkaihe/genai/pkg/skills"
)

// ValidateConfig holds configuration for the validate command
type ValidateConfig struct {
	Watch    bool
	Debounce time.Duration
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate every skill, reporting all problems",
	Long: `Parse and validate every SKILL.md in the skills directory. Unlike the other
commands, which stop at the first invalid skill, validate reports every
failing skill. With --watch the directory is revalidated on each change.`,
	Run: func(cmd *cobra.Command, _ []string) {
		vc := &ValidateConfig{Debounce: 300 * time.Millisecond}
		vc.Watch, _ = cmd.Flags().GetBool("watch")

		dir, err := config.ResolveSkillsDir(cfg.SkillsDir)
		if err != nil {
			presenter.Error(err, "validation failed")
			os.Exit(1)
		}

		if vc.Watch {
			if err := watchSkills(cmd.Context(), dir, cfg.Skills.Allowed, vc, os.Stdout); err != nil {
				presenter.Error(err, "watch failed")
				os.Exit(1)
			}
			return
		}

		if err := reportValidation(dir, cfg.Skills.Allowed, os.Stdout); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().BoolP("watch", "w", false, "Revalidate whenever a skill changes")
}

// validateSkillsDir parses and validates every skill under dir. It returns
// the number of skills checked and one error per failing skill.
func validateSkillsDir(dir string, allowed []string) (int, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "*/SKILL.md", doublestar.WithFilesOnly())
	if err != nil {
		return 0, errors.Wrapf(err, "failed to scan skills directory %s", dir)
	}
	sort.Strings(matches)

	var (
		result *multierror.Error
		parsed []*skills.Skill
	)
	for _, rel := range matches {
		skill, err := skills.LoadSkill(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		parsed = append(parsed, skill)
	}

	filtered, err := skills.FilterByAllowlist(parsed, allowed)
	if err != nil {
		return 0, err
	}
	if err := skills.ValidateAll(filtered); err != nil {
		result = multierror.Append(result, err)
	}

	return len(matches), result.ErrorOrNil()
}

// reportValidation validates dir and writes the outcome to out
func reportValidation(dir string, allowed []string, out io.Writer) error {
	count, err := validateSkillsDir(dir, allowed)
	p := presenter.NewWithOptions(out, out, presenter.ColorAuto)
	if err != nil {
		p.Error(err, fmt.Sprintf("invalid skills in %s", dir))
		return err
	}
	p.Success(fmt.Sprintf("%d skill(s) valid in %s", count, dir))
	return nil
}

// watchSkills revalidates dir after each burst of file changes until ctx
// is cancelled. Newly created skill directories are watched as they appear.
func watchSkills(ctx context.Context, dir string, allowed []string, vc *ValidateConfig, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", dir)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			if err := watcher.Add(filepath.Join(dir, entry.Name())); err != nil {
				logger.G(ctx).WithError(err).WithField("directory", entry.Name()).Warn("failed to watch skill directory")
			}
		}
	}

	_ = reportValidation(dir, allowed, out)
	presenter.Info("Watching for changes, press Ctrl+C to stop")

	timer := time.NewTimer(vc.Debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.G(ctx).WithError(err).WithField("directory", event.Name).Warn("failed to watch skill directory")
					}
				}
			}
			logger.G(ctx).WithField("file", event.Name).WithField("operation", event.Op.String()).Debug("skill change detected")
			timer.Reset(vc.Debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Error("error watching skills")
		case <-timer.C:
			_ = reportValidation(dir, allowed, out)
		}
	}
}
