package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// exportCmd pushes already-pending changes downstream without reconciling.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export pending changes to the downstream catalog",
	Long: `Exports every mirror record currently marked NOT_SYNCED or
PENDING_UPDATE and executes pending deletions, without contacting the source
catalog first. Useful to retry after a downstream outage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, logg, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer logg.Sync()

		svc, err := buildService(ctx, cfg, logg)
		if err != nil {
			return err
		}

		report := svc.Export(ctx)
		printRunReport(logg, report)

		if !report.Success {
			return fmt.Errorf("export run %s finished with failures: %s", report.RunID, report.Message)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)
}
