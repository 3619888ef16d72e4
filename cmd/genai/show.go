package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/genai/pkg/config"
	"github.com/jingkaihe/genai/pkg/presenter"
	"github.com/jingkaihe/genai/pkg/skills"
)

var showCmd = &cobra.Command{
	Use:   "show <skill>",
	Short: "Show a skill's metadata, steps and document outline",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := showSkill(cmd.Context(), cfg, args[0], os.Stdout); err != nil {
			presenter.Error(err, "failed to show skill")
			os.Exit(1)
		}
	},
}

func showSkill(ctx context.Context, c *config.Config, name string, out io.Writer) error {
	skillSet, _, err := loadSkills(ctx, c)
	if err != nil {
		return err
	}

	skill := skills.FindByName(skillSet, name)
	if skill == nil {
		return &skills.SelectionError{Msg: "skill not found: " + name}
	}

	content, err := os.ReadFile(skill.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", skill.Path)
	}
	outline := skills.Outline(string(content))

	p := presenter.NewWithOptions(out, os.Stderr, presenter.ColorNever)
	meta := skill.Metadata

	p.Section(skill.Name())
	fmt.Fprintf(out, "Description: %s\n", meta.Description)
	fmt.Fprintf(out, "Version:     %s\n", meta.Version)
	if meta.Category != "" {
		fmt.Fprintf(out, "Category:    %s\n", meta.Category)
	}
	if len(meta.Tags) > 0 {
		fmt.Fprintf(out, "Tags:        %s\n", strings.Join(meta.Tags, ", "))
	}
	fmt.Fprintf(out, "Path:        %s\n", skill.Path)
	if len(meta.Permissions.AllowedRunners) > 0 {
		fmt.Fprintf(out, "Runners:     %s\n", strings.Join(meta.Permissions.AllowedRunners, ", "))
	}

	p.Section("Steps")
	rows := make([][]string, 0, len(skill.Steps))
	for _, step := range skill.Steps {
		rows = append(rows, []string{step.ID, string(step.Type), step.Condition(), step.OutputVar})
	}
	p.Table([]string{"ID", "TYPE", "IF", "OUTPUT"}, rows)

	p.Section("Outline")
	keys := append([]string(nil), outline.FrontmatterKeys...)
	sort.Strings(keys)
	fmt.Fprintf(out, "Frontmatter keys: %s\n", strings.Join(keys, ", "))
	for _, heading := range outline.Headings {
		fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", heading.Level-1), heading.Text)
	}
	if outline.StepBlocks != len(skill.Steps) {
		p.Warning(fmt.Sprintf("document has %d genai-step blocks but %d steps were parsed", outline.StepBlocks, len(skill.Steps)))
	}
	return nil
}
