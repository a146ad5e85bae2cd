package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shop-assist/internal/cli"
	"github.com/Veraticus/shop-assist/internal/symptom"
)

func matchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "match <concern...>",
		Short: "Pick diagnostic questions for a customer concern",
		Long: `Match a free-text customer concern against the symptom catalog and print the
questions to ask. Concerns that match nothing get the general question list.`,
		Example: `  shopassist match "my check engine light is flashing"
  shopassist match --json squeal when I brake`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			concern := strings.Join(args, " ")
			result := symptom.NewDefaultMatcher().Evaluate(concern)

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, result)
			}

			if result.Matched {
				fmt.Fprintln(out, cli.FormatTitle(result.Category.Name))
				fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("score %d", result.Score)))
			} else {
				fmt.Fprintln(out, cli.FormatInfo("No specific category matched; using general questions"))
			}
			for i, q := range result.Questions {
				fmt.Fprintf(out, "%d. %s\n", i+1, q)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
