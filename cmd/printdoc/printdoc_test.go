package printdoc

import (
	"context"
	"net/smtp"
	"os"
	"path/filepath"
	"testing"

	"ari/moneyworks-cli/cmd/root"
	"ari/moneyworks-cli/internal/container"
	"ari/moneyworks-cli/internal/mailer"
	"ari/moneyworks-cli/internal/mwtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	to  []string
	msg string
}

func setup(t *testing.T, routes ...mwtest.Route) (*mwtest.Server, *[]sent) {
	t.Helper()
	srv := mwtest.NewServer(t, routes...)

	var mails []sent
	capture := mailer.WithSendFunc(func(_ string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		mails = append(mails, sent{to: to, msg: string(msg)})
		return nil
	})

	orig := root.AppContainer
	root.AppContainer, _ = srv.Container(t, container.WithMailerOptions(capture))

	reset := func() {
		output, mailTo, mailCompany = "", nil, ""
		subject, body = "Your document", "Please find the document attached."
	}
	reset()
	t.Cleanup(func() {
		root.AppContainer = orig
		reset()
	})
	return srv, &mails
}

func execute(args ...string) error {
	Cmd.SetContext(context.Background())
	return run(Cmd, args)
}

func TestPrint_ToFile(t *testing.T) {
	srv, mails := setup(t, mwtest.Route{Match: "doform/", Body: "%PDF-1.4"})
	output = filepath.Join(t.TempDir(), "invoice.pdf")

	require.NoError(t, execute("sequencenumber=`1001`", "My Invoice"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Empty(t, *mails)
	assert.Equal(t,
		"/REST/Acme+Widgets.moneyworks/doform/form=My+Invoice&search=sequencenumber%3D%601001%60",
		srv.Requests()[0].RequestURI)
}

func TestPrint_MailCompany(t *testing.T) {
	srv, mails := setup(t,
		mwtest.Route{Match: "export/table=name", Body: "accounts@customer\n"},
		mwtest.Route{Match: "doform/", Body: "%PDF-1.4"})
	mailCompany = "ISHTEST"
	mailTo = []string{"copy@acme"}
	subject = "Invoice 1001"

	require.NoError(t, execute("sequencenumber=`1001`", "My Invoice"))

	require.Len(t, *mails, 1)
	m := (*mails)[0]
	assert.Equal(t, []string{"copy@acme", "accounts@customer"}, m.to)
	assert.Contains(t, m.msg, "Subject: Invoice 1001\r\n")
	assert.Contains(t, m.msg, `filename="document.pdf"`)
	assert.Len(t, srv.Requests(), 2)
}

func TestPrint_AttachmentNamedAfterOutput(t *testing.T) {
	_, mails := setup(t, mwtest.Route{Match: "doform/", Body: "%PDF-1.4"})
	output = filepath.Join(t.TempDir(), "inv-7.pdf")
	mailTo = []string{"a@x"}

	require.NoError(t, execute("sequencenumber=`7`", "Invoice"))
	require.Len(t, *mails, 1)
	assert.Contains(t, (*mails)[0].msg, `filename="inv-7.pdf"`)
}

func TestPrint_NothingToDo(t *testing.T) {
	srv, _ := setup(t)
	err := execute("1", "Invoice")
	assert.ErrorContains(t, err, "nothing to do")
	assert.Empty(t, srv.Requests())
}

func TestPrint_UnknownCompany(t *testing.T) {
	srv, mails := setup(t, mwtest.Route{Match: "export/table=name", Body: ""})
	mailCompany = "NOPE"

	err := execute("1", "Invoice")
	assert.EqualError(t, err, "no email address for NOPE")
	assert.Empty(t, *mails)
	assert.Len(t, srv.Requests(), 1)
}
