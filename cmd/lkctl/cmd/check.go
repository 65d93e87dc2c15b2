package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	var (
		checkItemID int64
		checkUserID int64
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Trigger availability checks",
		Long: "Trigger a check for one item, or a batch over all active items.\n" +
			"A batch already running for the same scope is rejected by the server.",
		Example: `  # Check everything now
  lkctl check

  # Check one item
  lkctl check --item 12

  # Check one owner's items
  lkctl check --user 7`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()

			if checkItemID != 0 {
				res, err := c.CheckItem(context.Background(), checkItemID)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(res)
				}
				return printCheckResult(res)
			}

			var userID *int64
			if checkUserID != 0 {
				userID = &checkUserID
			}

			report, err := c.RunBatch(context.Background(), userID)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(report)
			}
			fmt.Printf("Checked %d items: %d ok, %d failed\n",
				report.Checked(), report.OK, report.Failed)
			return nil
		},
	}
	cmd.Flags().Int64Var(&checkItemID, "item", 0, "check a single item by id")
	cmd.Flags().Int64Var(&checkUserID, "user", 0, "limit the batch to one owner's items")

	return cmd
}

func statusCmd() *cobra.Command {
	var statusUserID int64

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show batch check status",
		Example: `  lkctl status
  lkctl status --user 7`,
		RunE: func(_ *cobra.Command, _ []string) error {
			var userID *int64
			if statusUserID != 0 {
				userID = &statusUserID
			}

			c := newClient()
			st, err := c.GetBatchStatus(context.Background(), userID)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(st)
			}
			if !st.Running {
				fmt.Println("No batch running.")
				return nil
			}
			if st.Since != nil {
				fmt.Printf("Batch running since %s.\n", st.Since.Format("2006-01-02 15:04:05"))
			} else {
				fmt.Println("Batch running.")
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&statusUserID, "user", 0, "show status for one owner's scope")

	return cmd
}

func historyCmd() *cobra.Command {
	var historyLimit int

	cmd := &cobra.Command{
		Use:   "history <item-id>",
		Short: "Show an item's snapshot history",
		Example: `  lkctl history 12
  lkctl history 12 --limit 20 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			c := newClient()
			h, err := c.GetHistory(context.Background(), id, historyLimit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(h)
			}
			if len(h.Snapshots) == 0 {
				fmt.Println("No snapshots yet.")
				return nil
			}
			if err := printSnapshotTable(h.Snapshots); err != nil {
				return err
			}
			fmt.Printf("%d of %d snapshots.\n", len(h.Snapshots), h.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&historyLimit, "limit", 20, "number of snapshots to show")

	return cmd
}
