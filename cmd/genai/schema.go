package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/genai/pkg/presenter"
	"github.com/jingkaihe/genai/pkg/skills"
)

var schemaCmd = &cobra.Command{
	Use:       "schema [metadata|step]",
	Short:     "Print the JSON schema for skill frontmatter or workflow steps",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"metadata", "step"},
	Run: func(_ *cobra.Command, args []string) {
		kind := "metadata"
		if len(args) == 1 {
			kind = args[0]
		}
		if err := printSchema(kind, os.Stdout); err != nil {
			presenter.Error(err, "failed to generate schema")
			os.Exit(1)
		}
	},
}

func printSchema(kind string, out io.Writer) error {
	schema, err := skills.Schema(kind)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}
