package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/genai/pkg/config"
	"github.com/jingkaihe/genai/pkg/presenter"
	"github.com/jingkaihe/genai/pkg/skills"
)

var newCmd = &cobra.Command{
	Use:   "new <skill>",
	Short: "Create a new skill from a template",
	Long: `Create <skills-dir>/<skill>/SKILL.md from a minimal template that parses and
validates as is. An existing skill is never overwritten.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		description, _ := cmd.Flags().GetString("description")
		if description == "" {
			if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
				description = presenter.Prompt("Describe what the skill does")
			}
		}

		path, err := createSkill(cfg, args[0], description)
		if err != nil {
			presenter.Error(err, "failed to create skill")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Created %s", path))
	},
}

func init() {
	newCmd.Flags().StringP("description", "d", "", "Skill description")
	newCmd.Flags().BoolP("interactive", "i", false, "Prompt for the description when it is not given")
}

// createSkill scaffolds name under the configured skills directory, or
// under $HOME/GenAI/skills when none exists yet
func createSkill(c *config.Config, name, description string) (string, error) {
	root, err := config.ResolveSkillsDir(c.SkillsDir)
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", err
		}
		root = filepath.Join(home, "GenAI", "skills")
	}
	return skills.Scaffold(root, name, description)
}
