// Package info contains the read-only server commands: version, forms and
// email.
package info

import (
	"fmt"
	"strings"

	"ari/moneyworks-cli/cmd/root"

	"github.com/spf13/cobra"
)

// VersionCmd prints the server version
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the MoneyWorks server version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		v, err := c.GetClient().Version(root.Context(cmd))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(v))
		return err
	},
}

// FormsCmd lists the forms available for printing
var FormsCmd = &cobra.Command{
	Use:   "forms",
	Short: "List the forms available to the print command",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		forms, err := c.GetClient().ListForms(root.Context(cmd))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), forms)
		return err
	},
}

// EmailCmd prints the email address of a Name record
var EmailCmd = &cobra.Command{
	Use:   "email CODE",
	Short: "Show the email address of a customer or supplier",
	Long: `Show the email address stored on the Name record with the given code.

Example:
  mwcli email ISHTEST`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		email, err := c.GetClient().GetCompanyEmail(root.Context(cmd), args[0])
		if err != nil {
			return err
		}
		email = strings.TrimSpace(email)
		if email == "" {
			return fmt.Errorf("no email address for %s", args[0])
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), email)
		return err
	},
}
