package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// RegisterGlobalFlags binds the flags shared by every command.
func RegisterGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&globalActorID, "as", "", "Acting user id, e.g. mro-1 (default $"+EnvActor+")")
	root.PersistentFlags().StringVar(&globalIdempotencyKey, "idempotency-key", "", "Retry token; a repeated write with the same token is not applied twice")
}

// payloadFlags binds --data and --file on cmd.
func payloadFlags(cmd *cobra.Command, data, file *string) {
	cmd.Flags().StringVarP(data, "data", "d", "", "JSON payload")
	cmd.Flags().StringVarP(file, "file", "f", "", "Read the JSON payload from a file (- for stdin)")
}

// readPayload returns the JSON payload given by --data or --file. With
// neither, the payload is an empty object.
func readPayload(cmd *cobra.Command, data, file string) ([]byte, error) {
	switch {
	case data != "" && file != "":
		return nil, fmt.Errorf("use either --data or --file, not both")
	case data != "":
		return []byte(data), nil
	case file == "-":
		return io.ReadAll(cmd.InOrStdin())
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
		return b, nil
	default:
		return []byte("{}"), nil
	}
}
