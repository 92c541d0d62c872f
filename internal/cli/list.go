package cli

import (
	"github.com/spf13/cobra"

	cliadapter "github.com/example/patta/internal/adapters/cli"
)

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	var filters cliadapter.ListFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List land records",
		Long: `List land records in receipt order, optionally filtered by status or custodian.

Filters read the status and custodian indexes when query.use_indexes is on.
If results look incomplete, run 'patta index check' and 'patta index rebuild'.

Examples:
  patta list
  patta list --status with_vro
  patta list --custodian vro-1
  patta list --unassigned`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := currentApp().RecordAdapter(cmd.OutOrStdout()).List(NewContext(), filters)
			return err
		},
	}
	cmd.Flags().StringVar(&filters.Status, "status", "", "Only records with this status")
	cmd.Flags().StringVar(&filters.Custodian, "custodian", "", "Only records currently with this user")
	cmd.Flags().BoolVar(&filters.ByCustodian, "unassigned", false, "Only records with no custodian")
	cmd.MarkFlagsMutuallyExclusive("status", "custodian", "unassigned")
	return cmd
}
