// Package importdraft contains the import command
package importdraft

import (
	"fmt"
	"strings"

	"ari/moneyworks-cli/cmd/root"
	"ari/moneyworks-cli/internal/dateutils"
	"ari/moneyworks-cli/internal/mwerror"
	"ari/moneyworks-cli/internal/transaction"

	"github.com/spf13/cobra"
)

var (
	postAfter bool
	dryRun    bool
	overrides []string
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import FILE.yaml",
	Short: "Create a transaction from a YAML draft",
	Long: `Create a transaction from a YAML draft and print the sequence number
the server assigned to it.

The draft has a fields mapping and an optional list of detail lines:

  fields:
    type: DI
    transdate: 2024-01-31
    namecode: ISHTEST
  lines:
    - account: "4000"
      net: !decimal 12.50

A field set to ~ is left for MoneyWorks to work out. --set overrides header
fields; values of fields ending in "date" accept YYYY-MM-DD or YYYYMMDD.

Examples:
  mwcli import invoice.yaml
  mwcli import invoice.yaml --set transdate=2024-02-29 --set duedate=~ --post
  mwcli import invoice.yaml --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().BoolVar(&postAfter, "post", false, "Post the transaction after creating it")
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the import document instead of sending it")
	Cmd.Flags().StringArrayVar(&overrides, "set", nil, "Override a header field (key=value, ~ for work-it-out)")
}

func run(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	tx, err := c.GetDraftStore().Load(args[0])
	if err != nil {
		return err
	}
	if err := applyOverrides(tx, overrides); err != nil {
		return err
	}

	if dryRun {
		doc, err := tx.ToXML()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), doc)
		return err
	}

	ctx := root.Context(cmd)
	seqnum, err := c.GetClient().Submit(ctx, tx)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), seqnum); err != nil {
		return err
	}

	if !postAfter {
		return nil
	}
	resp, err := c.GetClient().PostTransaction(ctx, seqnum)
	if err != nil {
		return err
	}
	if resp = strings.TrimSpace(resp); resp != "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), resp)
	}
	return err
}

func applyOverrides(tx *transaction.Transaction, sets []string) error {
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return &mwerror.InvalidArgumentError{Key: "set", Reason: fmt.Sprintf("expected key=value, got %q", s)}
		}

		switch {
		case value == "~":
			tx.AddNull(key)
		case dateutils.IsDateField(key):
			d, err := dateutils.ParseUserDate(value)
			if err != nil {
				return &mwerror.InvalidArgumentError{Key: key, Reason: err.Error()}
			}
			tx.Add(key, transaction.Date(d))
		default:
			tx.Add(key, transaction.String(value))
		}
	}
	return nil
}
