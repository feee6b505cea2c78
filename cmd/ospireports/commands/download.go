package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"ospireports/internal/browser"
	"ospireports/internal/orchestrator"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(downloadCmd)
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Downloads every configured report into the output root.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		ctx := cmd.Context()

		downloadTimeout, _ := s.cfg.DownloadTimeoutDuration()
		fetcher, err := browser.NewFetcher(ctx, browser.FetcherOptions{
			DownloadURL: s.client.Endpoints().Download,
			Headless:    s.cfg.IsHeadless(),
			RemoteUrl:   s.cfg.Browser.RemoteUrl,
			UserAgent:   s.cfg.Browser.UserAgent,
			Referer:     s.cfg.Browser.Referer,

			DownloadTimeout: downloadTimeout,
		}, s.tel)
		if err != nil {
			return fmt.Errorf("start browser: %w", err)
		}
		defer fetcher.Close()

		o := orchestrator.New(s.client, s.client, fetcher, orchestrator.Options{
			OutputRoot:          s.cfg.OutputRoot,
			Progress:            os.Stdout,
			SkipFailedDocuments: s.cfg.SkipFailedDocuments,
		}, s.tel)

		start := time.Now()
		summary, err := o.Run(ctx, orchestrator.Plan{
			Years:          s.cfg.Years.Years(),
			ReportCategory: s.cfg.ReportCategory,
			OrgTypeID:      s.cfg.OrgTypeID,
			Slugs:          s.cfg.ReportSlugs,
		})
		if err != nil {
			return err
		}

		slog.Info(
			"download finished",
			"documents", summary.Documents,
			"failed", summary.Failed,
			"organizations", summary.Organizations,
			"years", summary.Years,
			"seconds", time.Since(start).Seconds(),
		)
		return nil
	},
}
