package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ospireports",
	Short: "ospireports downloads the financial reports published on the OSPI reporting portal.",
	Long: `ospireports downloads the financial reports published on the OSPI reporting portal.

It is configured through config.json5 (and config.local.json5) in the
working directory, every setting has a default.`,
	SilenceUsage: true,
}

func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}
