package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Veraticus/shop-assist/internal/cli"
	"github.com/Veraticus/shop-assist/internal/symptom"
)

func intakeCmd() *cobra.Command {
	var (
		plain  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "intake <concern...>",
		Short: "Walk through the intake questions for a concern",
		Long: `Run an interactive intake conversation: the concern picks a question set,
then each question is asked in turn and the answers are printed as a transcript.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			concern := strings.Join(args, " ")
			result := symptom.NewDefaultMatcher().Evaluate(concern)
			out := cmd.OutOrStdout()

			interactive := !plain && isatty.IsTerminal(os.Stdin.Fd())

			var (
				transcript cli.Transcript
				err        error
			)
			if interactive {
				transcript, err = cli.RunIntake(ctx, cli.NewIntakeModel(concern, result), nil, out)
			} else {
				transcript, err = cli.RunPlainIntake(ctx, concern, result, cmd.InOrStdin(), out)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(out, transcript)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, cli.RenderBox("Intake", transcript.Render()))
			if !transcript.Complete {
				fmt.Fprintln(out, cli.FormatWarning("Intake was not completed"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "ask questions line by line instead of the full-screen UI")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the transcript as JSON")
	return cmd
}
