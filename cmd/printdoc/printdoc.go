// Package printdoc contains the print command
package printdoc

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"ari/moneyworks-cli/cmd/root"
	"ari/moneyworks-cli/internal/fileutils"
	"ari/moneyworks-cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	output      string
	mailTo      []string
	mailCompany string
	subject     string
	body        string
)

// Cmd represents the print command
var Cmd = &cobra.Command{
	Use:   "print SEARCH FORM",
	Short: "Print transactions with a form and save or email the document",
	Long: `Render the transactions matching SEARCH with the named form.

The document is written to --output, emailed with --mail-to, or both.
--mail-company looks up the recipient from a Name record.

Examples:
  mwcli print "sequencenumber=` + "`1001`" + `" "My Invoice" -o invoice-1001.pdf
  mwcli print "sequencenumber=` + "`1001`" + `" "My Invoice" --mail-company ISHTEST --subject "Invoice 1001"`,
	Args: cobra.ExactArgs(2),
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to this file")
	Cmd.Flags().StringSliceVar(&mailTo, "mail-to", nil, "Email the document to these addresses")
	Cmd.Flags().StringVar(&mailCompany, "mail-company", "", "Email the document to the address on this Name record")
	Cmd.Flags().StringVar(&subject, "subject", "Your document", "Email subject")
	Cmd.Flags().StringVar(&body, "body", "Please find the document attached.", "Email body")
}

func run(cmd *cobra.Command, args []string) error {
	if output == "" && len(mailTo) == 0 && mailCompany == "" {
		return errors.New("nothing to do: give --output, --mail-to or --mail-company")
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	ctx := root.Context(cmd)
	mw := c.GetClient()
	search, form := args[0], args[1]

	recipients := append([]string(nil), mailTo...)
	if mailCompany != "" {
		email, err := mw.GetCompanyEmail(ctx, mailCompany)
		if err != nil {
			return err
		}
		email = strings.TrimSpace(email)
		if email == "" {
			return fmt.Errorf("no email address for %s", mailCompany)
		}
		recipients = append(recipients, email)
	}

	doc, err := mw.PrintTransaction(ctx, search, form)
	if err != nil {
		return err
	}

	if output != "" {
		if err := fileutils.WriteFile(output, doc, 0600); err != nil {
			return fmt.Errorf("error writing document: %w", err)
		}
		c.GetLogger().Info("Document saved",
			logging.F(logging.FieldFile, output),
			logging.F(logging.FieldBytes, len(doc)))
	}

	if len(recipients) == 0 {
		return nil
	}

	m, err := c.GetMailer()
	if err != nil {
		return err
	}
	name := ""
	if output != "" {
		name = filepath.Base(output)
	}
	return m.Send(recipients, subject, body, doc, name)
}
