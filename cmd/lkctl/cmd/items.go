package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	apiclient "github.com/jockelind/lagerkoll/internal/api/client"
	domain "github.com/jockelind/lagerkoll/pkg/types"
)

func itemsCmd() *cobra.Command {
	itemsRoot := &cobra.Command{
		Use:   "items",
		Short: "Manage tracked items",
		Long: "Manage tracked items that define a product id, region, optional\n" +
			"store filter, and threshold alert settings.",
	}

	itemsRoot.AddCommand(
		itemListCmd(),
		itemGetCmd(),
		itemAddCmd(),
		itemActivateCmd(),
		itemDeactivateCmd(),
		itemDeleteCmd(),
	)

	return itemsRoot
}

func itemListCmd() *cobra.Command {
	var (
		listUserID int64
		listActive bool
		listSearch string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked items",
		Example: `  lkctl items list
  lkctl items list --active --search lamp
  lkctl items list --user 7 --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			f := &apiclient.ItemFilter{
				ActiveOnly: listActive,
				Search:     listSearch,
			}
			if listUserID != 0 {
				f.UserID = &listUserID
			}

			c := newClient()
			items, err := c.ListItems(context.Background(), f)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(items)
			}
			if len(items) == 0 {
				fmt.Println("No items found.")
				return nil
			}
			return printItemTable(items)
		},
	}
	cmd.Flags().Int64Var(&listUserID, "user", 0, "filter by owner id")
	cmd.Flags().BoolVar(&listActive, "active", false, "only active items")
	cmd.Flags().StringVar(&listSearch, "search", "", "filter by name or product id")

	return cmd
}

func itemGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show item details",
		Example: `  lkctl items get 12
  lkctl items get 12 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c := newClient()
			it, err := c.GetItem(context.Background(), id)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(it)
			}
			return printItemDetail(it)
		},
	}
}

func itemAddCmd() *cobra.Command {
	var (
		addName    string
		addProduct string
		addRegion  string
		addStores  string
		addUserID  int64
		addAbove   int
		addBelow   int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a tracked item",
		Long: "Add a new tracked item. The item is active immediately and will be\n" +
			"checked on the next batch run. Threshold alerts are optional and can\n" +
			"be set independently for stock rising above and falling below a value.",
		Example: `  # Track a product across all stores in a region
  lkctl items add --name "Desk lamp" --product 80213074 --region se

  # Track two specific stores and alert when stock reaches 5
  lkctl items add --name "Desk lamp" --product 80213074 --region se \
    --stores 088,121 --above 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addName == "" || addProduct == "" || addRegion == "" {
				return fmt.Errorf("--name, --product and --region are required")
			}

			it := &domain.Item{
				Name:       addName,
				ProductID:  addProduct,
				RegionCode: addRegion,
				StoreIDs:   addStores,
				Active:     true,
				UserID:     addUserID,
			}
			if cmd.Flags().Changed("above") {
				it.NotifyAboveEnabled = true
				it.NotifyAboveThreshold = &addAbove
			}
			if cmd.Flags().Changed("below") {
				it.NotifyBelowEnabled = true
				it.NotifyBelowThreshold = &addBelow
			}

			c := newClient()
			created, err := c.CreateItem(context.Background(), it)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			fmt.Printf("Item created: %s (%d)\n", created.Name, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&addName, "name", "", "display name")
	cmd.Flags().StringVar(&addProduct, "product", "", "external product id")
	cmd.Flags().StringVar(&addRegion, "region", "", "region code (e.g. se, de)")
	cmd.Flags().StringVar(&addStores, "stores", "", "comma-separated store ids (empty: all)")
	cmd.Flags().Int64Var(&addUserID, "user", 0, "owner user id")
	cmd.Flags().IntVar(&addAbove, "above", 0, "alert when stock rises to this value")
	cmd.Flags().IntVar(&addBelow, "below", 0, "alert when stock falls below this value")

	return cmd
}

func itemActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "activate <id>",
		Short:   "Activate an item",
		Example: `  lkctl items activate 12`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runItemSetActive(args[0], true)
		},
	}
}

func itemDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "deactivate <id>",
		Short:   "Deactivate an item",
		Example: `  lkctl items deactivate 12`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runItemSetActive(args[0], false)
		},
	}
}

func itemDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete an item and its history",
		Example: `  lkctl items delete 12`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c := newClient()
			if err := c.DeleteItem(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("Item %d deleted.\n", id)
			return nil
		},
	}
}

func runItemSetActive(arg string, active bool) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	c := newClient()
	if err := c.SetItemActive(context.Background(), id, active); err != nil {
		return err
	}

	action := "activated"
	if !active {
		action = "deactivated"
	}
	fmt.Printf("Item %d %s.\n", id, action)
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}
