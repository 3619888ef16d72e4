package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/genai/pkg/config"
	"github.com/jingkaihe/genai/pkg/presenter"
	"github.com/jingkaihe/genai/pkg/skills"
)

// ListConfig holds configuration for the list command
type ListConfig struct {
	Long bool
	JSON bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available skills",
	Run: func(cmd *cobra.Command, _ []string) {
		lc := &ListConfig{}
		lc.Long, _ = cmd.Flags().GetBool("long")
		lc.JSON, _ = cmd.Flags().GetBool("json")

		if err := listSkills(cmd.Context(), cfg, lc, os.Stdout); err != nil {
			presenter.Error(err, "failed to list skills")
			os.Exit(1)
		}
	},
}

func init() {
	listCmd.Flags().BoolP("long", "l", false, "Show a table with version, category, tags and step count")
	listCmd.Flags().Bool("json", false, "Output skills as JSON")
}

type skillListing struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Steps       int      `json:"steps"`
	Path        string   `json:"path"`
}

func listSkills(ctx context.Context, c *config.Config, lc *ListConfig, out io.Writer) error {
	skillSet, _, err := loadSkills(ctx, c)
	if err != nil {
		return err
	}

	switch {
	case lc.JSON:
		listing := make([]skillListing, 0, len(skillSet))
		for _, skill := range skillSet {
			listing = append(listing, skillListing{
				Name:        skill.Name(),
				Version:     skill.Metadata.Version,
				Description: skill.Metadata.Description,
				Category:    skill.Metadata.Category,
				Tags:        skill.Metadata.Tags,
				Steps:       len(skill.Steps),
				Path:        skill.Path,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	case lc.Long:
		rows := make([][]string, 0, len(skillSet))
		for _, skill := range skillSet {
			rows = append(rows, []string{
				skill.Name(),
				skill.Metadata.Version,
				skill.Metadata.Category,
				strings.Join(skill.Metadata.Tags, ","),
				strconv.Itoa(len(skill.Steps)),
				skill.Metadata.Description,
			})
		}
		presenter.NewWithOptions(out, os.Stderr, presenter.ColorNever).
			Table([]string{"NAME", "VERSION", "CATEGORY", "TAGS", "STEPS", "DESCRIPTION"}, rows)
		return nil
	default:
		for _, skill := range skillSet {
			fmt.Fprintln(out, formatSkillLine(skill))
		}
		return nil
	}
}

// formatSkillLine renders a skill as "name (version) - description"
func formatSkillLine(skill *skills.Skill) string {
	return fmt.Sprintf("%s (%s) - %s", skill.Name(), skill.Metadata.Version, skill.Metadata.Description)
}
