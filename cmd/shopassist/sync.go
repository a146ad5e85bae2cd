package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/shop-assist/internal/cli"
	"github.com/Veraticus/shop-assist/internal/config"
	"github.com/Veraticus/shop-assist/internal/jobsync"
	"github.com/Veraticus/shop-assist/internal/tekmetric"
)

func syncCmd() *cobra.Command {
	var (
		pageSize int
		maxPages int
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull job history from Tekmetric",
		Long: `Page through the Tekmetric public API job listing and store every job locally
for 'shopassist jobs search'. Requires tekmetric.client_id, tekmetric.client_secret
and tekmetric.shop_id (or TEKMETRIC_* environment variables).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			handler := cli.NewInterruptHandler(out, "Job sync")
			ctx := handler.HandleInterrupts(cmd.Context(), "Run 'shopassist sync' again; saved pages are kept.")

			tm := config.LoadTekmetric()
			if err := tm.ValidateForSync(); err != nil {
				return err
			}

			source, err := tekmetric.NewPublicClient(ctx, tekmetric.PublicConfig{
				BaseURL:      tm.BaseURL,
				ClientID:     tm.ClientID,
				ClientSecret: tm.ClientSecret,
				ShopID:       tm.ShopID,
			})
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var bar *progressbar.ProgressBar
			onProgress := func(p jobsync.Progress) {
				if bar == nil {
					total := p.TotalPages
					if maxPages > 0 && (total == 0 || maxPages < total) {
						total = maxPages
					}
					if total <= 0 {
						total = -1
					}
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetWriter(out),
						progressbar.OptionEnableColorCodes(true),
						progressbar.OptionShowCount(),
						progressbar.OptionShowElapsedTimeOnFinish(),
						progressbar.OptionSetWidth(40),
						progressbar.OptionSetDescription("[cyan][bold]Syncing job pages...[reset]"),
						progressbar.OptionSetTheme(progressbar.Theme{
							Saucer:        "[green]=[reset]",
							SaucerHead:    "[green]>[reset]",
							SaucerPadding: " ",
							BarStart:      "[",
							BarEnd:        "]",
						}),
					)
				}
				if err := bar.Add(1); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			}

			syncer := jobsync.NewWithConfig(source, store, jobsync.Config{PageSize: pageSize, MaxPages: maxPages})
			result, err := syncer.Sync(ctx, onProgress)
			if bar != nil {
				_ = bar.Finish()
				fmt.Fprintln(out)
			}
			if err != nil {
				if handler.WasInterrupted() {
					return nil
				}
				return fmt.Errorf("job sync failed: %w", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Synced %d jobs from %d pages (%d skipped) in %s",
				result.Saved, result.Pages, result.Skipped, result.Duration.Round(time.Millisecond))))
			return nil
		},
	}

	cmd.Flags().IntVar(&pageSize, "page-size", jobsync.DefaultConfig().PageSize, "jobs per API page")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many pages (0 = all)")
	return cmd
}
