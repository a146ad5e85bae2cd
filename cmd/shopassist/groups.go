package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shop-assist/internal/cli"
	"github.com/Veraticus/shop-assist/internal/model"
)

func groupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage labor rate groups",
		Long: `List, add, and delete the vehicle-make groups that decide each repair order's
labor rate. The first group containing a vehicle's make wins.`,
	}

	cmd.AddCommand(listGroupsCmd())
	cmd.AddCommand(addGroupCmd())
	cmd.AddCommand(deleteGroupCmd())

	return cmd
}

func listGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List labor rate groups in match order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			groups, err := store.LaborRateGroups(ctx)
			if err != nil {
				return fmt.Errorf("failed to get labor rate groups: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No labor rate groups. Use 'shopassist groups add' to create one."))
				return nil
			}

			rows := make([][]string, 0, len(groups))
			for _, g := range groups {
				rows = append(rows, []string{g.Name, cli.FormatRate(g.LaborRate), strings.Join(g.Makes, ", ")})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"Name", "Rate", "Makes"}, rows))
			return nil
		},
	}
}

func addGroupCmd() *cobra.Command {
	var (
		makes string
		rate  string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or replace a labor rate group",
		Example: `  shopassist groups add Asian --makes Honda,Toyota,Nissan --rate 160
  shopassist groups add European --makes BMW,Audi --rate 189.50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cents, err := parseRate(rate)
			if err != nil {
				return err
			}
			group := model.LaborRateGroup{
				Name:      strings.TrimSpace(args[0]),
				Makes:     splitMakes(makes),
				LaborRate: cents,
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.AddLaborRateGroup(ctx, group); err != nil {
				return fmt.Errorf("failed to save labor rate group: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved group %q at %s", group.Name, cli.FormatRate(cents))))
			return nil
		},
	}

	cmd.Flags().StringVar(&makes, "makes", "", "comma-separated vehicle makes (required)")
	cmd.Flags().StringVar(&rate, "rate", "", "labor rate in dollars per hour (required)")
	_ = cmd.MarkFlagRequired("makes")
	_ = cmd.MarkFlagRequired("rate")

	return cmd
}

func deleteGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a labor rate group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteLaborRateGroup(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete labor rate group: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted group %q", args[0])))
			return nil
		},
	}
}
