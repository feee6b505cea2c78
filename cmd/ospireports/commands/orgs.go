package commands

import (
	"fmt"
	"strings"

	"ospireports/internal/reports"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(orgsCmd)
}

var orgsCmd = &cobra.Command{
	Use:   "orgs <year> [query]",
	Short: "Lists the organizations that have reports for a year, optionally ranked by similarity to a name.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := parseIntArg("year", args[0])
		if err != nil {
			return err
		}
		s := newSession()

		orgs, err := s.client.ResolveOrganizations(cmd.Context(), year, s.cfg.ReportCategory)
		if err != nil {
			return err
		}
		orgs = reports.FilterByType(orgs, s.cfg.OrgTypeID)
		if len(orgs) == 0 {
			return fmt.Errorf("no organizations of type %d for %d", s.cfg.OrgTypeID, year)
		}

		t := newTable()
		if len(args) < 2 {
			t.AppendHeader(table.Row{"ID", "Name", "Type"})
			for _, org := range orgs {
				t.AppendRow(table.Row{org.OrganizationID, org.Name, org.TypeID})
			}
			t.Render()
			return nil
		}

		query := strings.TrimSpace(args[1])
		t.AppendHeader(table.Row{"ID", "Name", "Type", "Similarity"})
		for _, ranked := range reports.RankByName(orgs, query) {
			t.AppendRow(table.Row{
				ranked.OrganizationID,
				ranked.Name,
				ranked.TypeID,
				fmt.Sprintf("%.3f", ranked.Similarity),
			})
		}
		t.Render()
		return nil
	},
}
