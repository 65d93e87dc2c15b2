package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/jockelind/lagerkoll/pkg/types"
)

func usersCmd() *cobra.Command {
	usersRoot := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
		Long: "Manage accounts that own tracked items. Admins with an email\n" +
			"address receive every threshold alert.",
	}

	usersRoot.AddCommand(
		userListCmd(),
		userAddCmd(),
	)

	return usersRoot
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Example: `  lkctl users list
  lkctl users list --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			users, err := c.ListUsers(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(users)
			}
			if len(users) == 0 {
				fmt.Println("No users found.")
				return nil
			}
			return printUserTable(users)
		},
	}
}

func userAddCmd() *cobra.Command {
	var (
		userName  string
		userEmail string
		userRole  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		Example: `  lkctl users add --username jocke --email jocke@example.com
  lkctl users add --username ops --role admin`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if userName == "" {
				return fmt.Errorf("--username is required")
			}

			u := &domain.User{
				Username: userName,
				Role:     domain.Role(userRole),
			}
			if userEmail != "" {
				u.Email = &userEmail
			}

			c := newClient()
			created, err := c.CreateUser(context.Background(), u)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			fmt.Printf("User created: %s (%d)\n", created.Username, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&userName, "username", "", "unique username")
	cmd.Flags().StringVar(&userEmail, "email", "", "email address for alerts")
	cmd.Flags().StringVar(&userRole, "role", "user", "role (user, admin)")

	return cmd
}
