package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/patta/internal/ports/primary"
)

// DocCmd returns the doc command
func DocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Register and verify document hashes",
	}

	cmd.AddCommand(docRegisterCmd())
	cmd.AddCommand(docVerifyCmd())

	return cmd
}

func docRegisterCmd() *cobra.Command {
	var uploadedBy, timestamp string

	cmd := &cobra.Command{
		Use:   "register [receipt-number] [document-type] [ipfs-hash]",
		Short: "Attach a document hash to a land record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if uploadedBy == "" {
				uploadedBy = GetActorID()
			}
			_, err := currentApp().VerificationAdapter(cmd.OutOrStdout()).RegisterDocument(NewContext(), primary.RegisterDocumentRequest{
				ReceiptNumber: args[0],
				DocumentType:  args[1],
				IPFSHash:      args[2],
				UploadedBy:    uploadedBy,
				Timestamp:     timestamp,
			})
			return err
		},
	}
	cmd.Flags().StringVar(&uploadedBy, "uploaded-by", "", "Uploader (default --as)")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "Upload timestamp (default now)")
	return cmd
}

func docVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [receipt-number] [document-type] [ipfs-hash]",
		Short: "Check a document hash against a land record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := currentApp().VerificationAdapter(cmd.OutOrStdout()).VerifyDocument(NewContext(), primary.VerifyDocumentRequest{
				ReceiptNumber: args[0],
				DocumentType:  args[1],
				IPFSHash:      args[2],
			})
			return err
		},
	}
}
