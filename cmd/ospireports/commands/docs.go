package commands

import (
	"fmt"

	"ospireports/internal/orchestrator"
	"ospireports/internal/reports"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(docsCmd)
}

var docsCmd = &cobra.Command{
	Use:   "docs <year> <organization id> [slug]",
	Short: "Lists the documents of an organization, for every configured slug unless one is given.",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := parseIntArg("year", args[0])
		if err != nil {
			return err
		}
		orgID, err := parseIntArg("organization id", args[1])
		if err != nil {
			return err
		}
		s := newSession()

		slugs := s.cfg.ReportSlugs
		if len(args) == 3 {
			slugs = []string{args[2]}
		}

		t := newTable()
		t.AppendHeader(table.Row{"Slug", "Document ID", "Title", "File name"})
		count := 0
		for _, slug := range slugs {
			docs, err := s.client.ListDocuments(cmd.Context(), reports.DocumentQuery{
				Year:           year,
				OrganizationID: orgID,
				OrgTypeID:      s.cfg.OrgTypeID,
				ReportCategory: s.cfg.ReportCategory,
				Slug:           slug,
			})
			if err != nil {
				return err
			}
			for _, doc := range docs {
				t.AppendRow(table.Row{slug, doc.DocumentID, doc.Title, orchestrator.FileName(doc.Title)})
			}
			count += len(docs)
		}
		if count == 0 {
			return fmt.Errorf("no documents for organization %d in %d", orgID, year)
		}
		t.Render()
		return nil
	},
}
