// Package post contains the post command
package post

import (
	"fmt"
	"strings"

	"ari/moneyworks-cli/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the post command
var Cmd = &cobra.Command{
	Use:   "post SEQNUM",
	Short: "Post an unposted transaction",
	Long: `Post the transaction with the given sequence number to the ledger.

Posting cannot be undone from this tool.

Example:
  mwcli post 1001`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		resp, err := c.GetClient().PostTransaction(root.Context(cmd), strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		if resp = strings.TrimSpace(resp); resp != "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp)
		}
		return err
	},
}
