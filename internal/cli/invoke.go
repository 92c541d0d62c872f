package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errIndexesInconsistent = errors.New("indexes are inconsistent")

// InvokeCmd returns the invoke command
func InvokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke [operation] [args...]",
		Short: "Run a named operation and print its JSON result",
		Long: `Run a named operation with positional string arguments, the same way
POST /invoke/{operation} does, and print the JSON result.

Examples:
  patta invoke CreateRecord RC-001 '{"ownerName":"Asha"}'
  patta invoke AdvanceStatus RC-001 approved clerk-1 ok mro-1
  patta invoke VerifyCertificate CERT-9
  patta invoke --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcher := currentApp().Dispatcher
			out := cmd.OutOrStdout()

			if list, _ := cmd.Flags().GetBool("list"); list {
				for _, op := range dispatcher.Operations() {
					usage, _ := dispatcher.Usage(op)
					fmt.Fprintf(out, "%-18s %s\n", op, usage)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("operation required (one of %s)", strings.Join(dispatcher.Operations(), ", "))
			}

			result, err := dispatcher.Invoke(NewContext(), args[0], args[1:])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, result)
			return nil
		},
	}
	cmd.Flags().Bool("list", false, "List the supported operations")
	return cmd
}
