// Package cli provides admin catalog commands.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/evermediavault/vault-admin/internal/models"
)

// newCategoriesCmd creates the 'categories' command.
func newCategoriesCmd() *cobra.Command {
	var query models.ListQuery

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List media categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, sess, err := newAPIClient()
			if err != nil {
				return err
			}
			if err := requireSession(sess); err != nil {
				return err
			}

			categories, meta, err := client.ListCategories(GetContext(), query)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println("No categories found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUID\tNAME\tFILES")
			for _, category := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n",
					category.ID, category.UID, category.Name, category.FileCount)
			}
			w.Flush()

			printPageMeta(meta)
			return nil
		},
	}

	listFlags(cmd, &query)

	return cmd
}

// newUsersCmd creates the 'users' command. The endpoint is admin-only;
// the backend rejects non-admin sessions.
func newUsersCmd() *cobra.Command {
	var query models.ListQuery

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List console users (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, sess, err := newAPIClient()
			if err != nil {
				return err
			}
			if err := requireSession(sess); err != nil {
				return err
			}
			if !sess.IsAdmin() {
				return fmt.Errorf("the users list requires an admin session")
			}

			users, meta, err := client.ListUsers(GetContext(), query)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tCREATED")
			for _, user := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					user.ID, user.Username, user.Role, user.CreatedAt)
			}
			w.Flush()

			printPageMeta(meta)
			return nil
		},
	}

	listFlags(cmd, &query)

	return cmd
}

// newStatsCmd creates the 'stats' command.
func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, sess, err := newAPIClient()
			if err != nil {
				return err
			}
			if err := requireSession(sess); err != nil {
				return err
			}

			stats, err := client.Stats(GetContext())
			if err != nil {
				return fmt.Errorf("failed to fetch stats: %w", err)
			}

			fmt.Printf("Files:      %d\n", stats.FileCount)
			fmt.Printf("Categories: %d\n", stats.CategoryCount)
			fmt.Printf("Users:      %d\n", stats.UserCount)
			return nil
		},
	}
}
