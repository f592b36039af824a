package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	reconcileScope string
	reconcileType  string
)

// reconcileCmd runs the reconciliation stage only, without exporting.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the mirror against the source catalog (no export)",
	Long: `Fetches full inventories from the source catalog and updates the local
mirror: fingerprints, lifecycle statuses and propagation markers. Nothing is
pushed downstream; a later export picks up whatever this pass marked pending.

Examples:
  # Reconcile everything
  reconcile

  # Reconcile one scope
  reconcile --scope prod

  # Reconcile a single kind in one scope
  reconcile --scope prod --type table`,
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

		report := svc.Reconcile(ctx, reconcileScope, reconcileType)

		for _, stats := range report.Reconcile {
			logg.Info("Reconciled",
				zap.String("type", stats.EntityType),
				zap.String("scope", stats.Scope),
				zap.Int("seen", stats.Seen),
				zap.Int("new", stats.New),
				zap.Int("unchanged", stats.Unchanged),
				zap.Int("updated", stats.Updated),
				zap.Int("deleted", stats.Deleted),
			)
		}
		for _, problem := range report.Problems {
			logg.Warn("Run problem", zap.String("problem", problem))
		}

		if !report.Success {
			return fmt.Errorf("reconciliation %s finished with failures", report.RunID)
		}
		return nil
	},
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileScope, "scope", "", "Restrict to one scope (default: all configured scopes)")
	reconcileCmd.Flags().StringVar(&reconcileType, "type", "", "Restrict to one asset kind (default: all kinds)")
	RootCmd.AddCommand(reconcileCmd)
}
