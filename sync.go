package main

import (
	"fmt"

	"github.com/lentakristina/finance-backend/internal/models"
	"github.com/lentakristina/finance-backend/internal/savings"
	"github.com/lentakristina/finance-backend/internal/util"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// syncGoalsCmd is the administrative resync: it recomputes every goal's
// current amount from the savings ledger and reports what changed.
func syncGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-goals",
		Short: "Recalculate every goal's current amount from the savings ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}

			var goalCount int64
			if err := db.Model(&models.Goal{}).Count(&goalCount).Error; err != nil {
				return fmt.Errorf("count goals: %w", err)
			}
			if goalCount == 0 {
				fmt.Println("no goals found, nothing to sync")
				return nil
			}

			bar := progressbar.NewOptions(int(goalCount),
				progressbar.OptionSetWriter(cmd.OutOrStdout()),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Syncing goals..."),
			)

			var drifted []savings.SyncResult
			updated, unchanged, err := savings.SyncAll(db, func(res savings.SyncResult) {
				if res.Changed() {
					drifted = append(drifted, res)
				}
				_ = bar.Add(1)
			})
			_ = bar.Finish()
			fmt.Println()
			if err != nil {
				return err
			}

			for _, res := range drifted {
				diff := res.New - res.Old
				sign := "+"
				if diff < 0 {
					sign = "-"
					diff = -diff
				}
				fmt.Printf("goal %q: %s -> %s (%s%s)\n",
					res.Name, util.FormatAmount(res.Old), util.FormatAmount(res.New),
					sign, util.FormatAmount(diff))
			}

			fmt.Printf("sync complete: %d goals, %d updated, %d unchanged\n",
				updated+unchanged, updated, unchanged)
			return nil
		},
	}
}
