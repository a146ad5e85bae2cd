package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shop-assist/internal/cli"
	"github.com/Veraticus/shop-assist/internal/jobsync"
	"github.com/Veraticus/shop-assist/internal/service"
)

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Search past jobs and send one to the browser extension",
	}

	cmd.AddCommand(searchJobsCmd())
	cmd.AddCommand(sendJobCmd())

	return cmd
}

func searchJobsCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search [text...]",
		Short: "Search synced jobs by name, note, or vehicle",
		Example: `  shopassist jobs search brake pads civic
  shopassist jobs search --limit 5 timing belt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			jobs, err := store.SearchJobs(ctx, service.JobFilter{
				Query: strings.Join(args, " "),
				Limit: limit,
			})
			if err != nil {
				return fmt.Errorf("failed to search jobs: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, jobs)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No jobs found. Run 'shopassist sync' to pull job history."))
				return nil
			}

			rows := make([][]string, 0, len(jobs))
			for _, j := range jobs {
				rows = append(rows, []string{
					strconv.FormatInt(j.ID, 10),
					j.CreatedAt.Format("2006-01-02"),
					j.Name,
					j.Vehicle,
					strconv.FormatFloat(j.LaborHours, 'f', 1, 64),
				})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Date", "Job", "Vehicle", "Hours"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func sendJobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <job-id>",
		Short: "Stage a job for the browser extension to fill in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			pending, err := jobsync.SendJob(ctx, store, id)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Sent %q to the extension", pending.Job.Name)))
			return nil
		},
	}
}
