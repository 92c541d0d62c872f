package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/patta/internal/ports/primary"
)

// RecordCmd returns the record command
func RecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage land records",
		Long:  `Create land records, move them through the approval chain and inspect their audit trail.`,
	}

	cmd.AddCommand(recordCreateCmd())
	cmd.AddCommand(recordShowCmd())
	cmd.AddCommand(recordAdvanceCmd())
	cmd.AddCommand(recordActionCmd())
	cmd.AddCommand(recordHistoryCmd())

	return cmd
}

func recordCreateCmd() *cobra.Command {
	var data, file string

	cmd := &cobra.Command{
		Use:   "create [receipt-number]",
		Short: "Create a land record",
		Long: `Create a land record under its receipt number.

Examples:
  patta record create RC-001 --data '{"ownerName":"Asha","surveyNumber":"SY-7"}'
  patta record create RC-002 --file request.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, data, file)
			if err != nil {
				return err
			}
			_, err = currentApp().RecordAdapter(cmd.OutOrStdout()).Create(NewContext(), primary.CreateRecordRequest{
				ReceiptNumber: args[0],
				Payload:       payload,
			})
			return err
		},
	}
	payloadFlags(cmd, &data, &file)
	return cmd
}

func recordShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [receipt-number]",
		Short: "Show a land record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := currentApp().RecordAdapter(cmd.OutOrStdout()).Show(NewContext(), args[0])
			return err
		},
	}
}

func recordAdvanceCmd() *cobra.Command {
	var assignedTo, remarks, fromUser, timestamp, role string

	cmd := &cobra.Command{
		Use:   "advance [receipt-number] [new-status]",
		Short: "Move a land record to a new status",
		Long: `Move a land record to a new status and hand it to the next custodian.

from_user defaults to --as, then to the current custodian.

Examples:
  patta record advance RC-001 with_vro --to vro-1 --as clerk-1
  patta record advance RC-001 approved --to clerk-1 --from mro-1 --remarks ok`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := currentApp().RecordAdapter(cmd.OutOrStdout()).Advance(NewContext(), primary.AdvanceStatusRequest{
				ReceiptNumber: args[0],
				NewStatus:     args[1],
				AssignedTo:    assignedTo,
				Remarks:       remarks,
				FromUser:      fromUser,
				Timestamp:     timestamp,
				ActorRole:     role,
			})
			return err
		},
	}
	cmd.Flags().StringVar(&assignedTo, "to", "", "Next custodian")
	cmd.Flags().StringVar(&remarks, "remarks", "", "Remarks for the history entry")
	cmd.Flags().StringVar(&fromUser, "from", "", "Handing-over user (default --as, then current custodian)")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "Timestamp for the change (default now)")
	cmd.Flags().StringVar(&role, "role", "", "Role checked against the transition table (default derived from the user id)")
	return cmd
}

func recordActionCmd() *cobra.Command {
	var data, file string

	cmd := &cobra.Command{
		Use:   "action [receipt-number]",
		Short: "Append a free-form action to a record's history",
		Long: `Append a free-form action to a record's history.

Examples:
  patta record action RC-001 --data '{"action":"site_inspection","from_user":"surveyor-1"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, data, file)
			if err != nil {
				return err
			}
			_, err = currentApp().RecordAdapter(cmd.OutOrStdout()).AppendAction(NewContext(), primary.AppendActionRequest{
				ReceiptNumber: args[0],
				Payload:       payload,
			})
			return err
		},
	}
	payloadFlags(cmd, &data, &file)
	return cmd
}

func recordHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [receipt-number]",
		Short: "Show a record's audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := currentApp().RecordAdapter(cmd.OutOrStdout()).History(NewContext(), args[0])
			return err
		},
	}
}
