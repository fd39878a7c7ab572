// Package cli provides media catalog commands.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/evermediavault/vault-admin/internal/api"
	"github.com/evermediavault/vault-admin/internal/constants"
	"github.com/evermediavault/vault-admin/internal/models"
)

// listFlags binds the shared pagination flags.
func listFlags(cmd *cobra.Command, q *models.ListQuery) {
	cmd.Flags().IntVar(&q.Page, "page", constants.DefaultPage, "Page number")
	cmd.Flags().IntVar(&q.PageSize, "page-size", constants.DefaultPageSize,
		fmt.Sprintf("Rows per page (max %d)", constants.MaxPageSize))
	cmd.Flags().StringVar(&q.SortBy, "sort", "", "Sort column")
	cmd.Flags().StringVar(&q.Order, "order", "", "Sort order (asc or desc)")
}

// printPageMeta prints the pagination footer when the backend sent one.
func printPageMeta(meta *models.PageMeta) {
	if meta == nil {
		return
	}
	fmt.Printf("\nPage %d of %d (%d total)\n", meta.Page, meta.TotalPages, meta.Total)
}

// newFilesCmd creates the 'files' command group.
func newFilesCmd() *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "Browse the file catalog",
	}

	filesCmd.AddCommand(newFilesListCmd())

	return filesCmd
}

// newFilesListCmd creates the 'files list' command.
func newFilesListCmd() *cobra.Command {
	var query models.ListQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded files",
		Long: `List uploaded files, newest first by default.

Examples:
  vault-admin files list
  vault-admin files list --page 3 --page-size 50
  vault-admin files list --sort name --order asc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAPIClient()
			if err != nil {
				return err
			}

			records, meta, err := client.ListFiles(GetContext(), query)
			if err != nil {
				return fmt.Errorf("failed to list files: %w", err)
			}

			if len(records) == 0 {
				fmt.Println("No files found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTORAGE\tUPLOADED")
			for _, record := range records {
				storageName := "-"
				if record.StorageInfo != nil {
					storageName = record.StorageInfo.Name
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					record.ID, record.Name, record.FileType, storageName, record.UploadedAt)
			}
			w.Flush()

			printPageMeta(meta)
			return nil
		},
	}

	listFlags(cmd, &query)

	return cmd
}

// newProvidersCmd creates the 'providers' command.
func newProvidersCmd() *cobra.Command {
	var includeInactive bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List storage providers",
		Long: `List the storage providers available for uploads.

Only active providers accept new uploads; --all includes inactive
ones for reference.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, sess, err := newAPIClient()
			if err != nil {
				return err
			}
			if err := requireSession(sess); err != nil {
				return err
			}

			providers, err := client.StorageProviders(GetContext())
			if err != nil {
				return fmt.Errorf("failed to list providers: %w", err)
			}
			if !includeInactive {
				providers = api.ActiveProviders(providers)
			}

			if len(providers) == 0 {
				fmt.Println("No storage providers found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tACTIVE\tENDPOINT")
			for _, provider := range providers {
				fmt.Fprintf(w, "%d\t%s\t%v\t%s\n",
					provider.ID, provider.Name, provider.IsActive, provider.ServiceEndpoint)
			}
			w.Flush()

			return nil
		},
	}

	cmd.Flags().BoolVar(&includeInactive, "all", false, "Include inactive providers")

	return cmd
}
