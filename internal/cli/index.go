package cli

import (
	"github.com/spf13/cobra"
)

// IndexCmd returns the index command
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Maintain the status, custodian and certificate indexes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rebuild",
		Short: "Drop and recompute every index entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := currentApp().VerificationAdapter(cmd.OutOrStdout()).RebuildIndexes(NewContext())
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Report missing and stale index entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := currentApp().VerificationAdapter(cmd.OutOrStdout()).CheckIndexes(NewContext())
			if err != nil {
				return err
			}
			if !report.Consistent() {
				return errIndexesInconsistent
			}
			return nil
		},
	})

	return cmd
}
