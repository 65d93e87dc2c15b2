package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	var dashUserID int64

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show aggregate item counts",
		Example: `  lkctl dashboard
  lkctl dashboard --user 7`,
		RunE: func(_ *cobra.Command, _ []string) error {
			var userID *int64
			if dashUserID != 0 {
				userID = &dashUserID
			}

			c := newClient()
			s, err := c.GetDashboardSummary(context.Background(), userID)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(s)
			}
			return printDashboard(s)
		},
	}
	cmd.Flags().Int64Var(&dashUserID, "user", 0, "scope counts to one owner")

	return cmd
}
