package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/patta/internal/ports/primary"
)

// CertCmd returns the cert command
func CertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cert",
		Short: "Issue and verify patta certificates",
	}

	cmd.AddCommand(certIssueCmd())
	cmd.AddCommand(certVerifyCmd())

	return cmd
}

func certIssueCmd() *cobra.Command {
	var data, file string

	cmd := &cobra.Command{
		Use:   "issue [receipt-number]",
		Short: "Issue a patta certificate and complete the record",
		Long: `Issue a patta certificate. certificateNumber is required; owner, survey,
area and address default to the land record.

Examples:
  patta cert issue RC-001 --data '{"certificateNumber":"CERT-9"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, data, file)
			if err != nil {
				return err
			}
			_, err = currentApp().VerificationAdapter(cmd.OutOrStdout()).IssueCertificate(NewContext(), primary.IssueCertificateRequest{
				ReceiptNumber: args[0],
				Payload:       payload,
			})
			return err
		},
	}
	payloadFlags(cmd, &data, &file)
	return cmd
}

func certVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [certificate-number]",
		Short: "Look up a patta certificate",
		Long: `Look up a patta certificate by number.

With query.use_indexes on the certificate index is consulted first. Run
'patta index check' if a known certificate is reported as not verified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := currentApp().VerificationAdapter(cmd.OutOrStdout()).VerifyCertificate(NewContext(), args[0])
			return err
		},
	}
}
