package info_test

import (
	"bytes"
	"context"
	"testing"

	"ari/moneyworks-cli/cmd/info"
	"ari/moneyworks-cli/cmd/root"
	"ari/moneyworks-cli/internal/mwtest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useServer(t *testing.T, routes ...mwtest.Route) *mwtest.Server {
	t.Helper()
	srv := mwtest.NewServer(t, routes...)
	orig := root.AppContainer
	t.Cleanup(func() { root.AppContainer = orig })
	root.AppContainer, _ = srv.Container(t)
	return srv
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	useServer(t, mwtest.Route{Match: "/REST/version", Body: "9.1.5\n"})

	out, err := run(t, info.VersionCmd)
	require.NoError(t, err)
	assert.Equal(t, "9.1.5\n", out)
}

func TestFormsCmd(t *testing.T) {
	srv := useServer(t, mwtest.Route{Match: "list/folder=forms", Body: "Invoice\nStatement\n"})

	out, err := run(t, info.FormsCmd)
	require.NoError(t, err)
	assert.Equal(t, "Invoice\nStatement\n", out)
	assert.Len(t, srv.Requests(), 1)
}

func TestEmailCmd(t *testing.T) {
	srv := useServer(t, mwtest.Route{Match: "export/table=name", Body: "accounts@acme.com.au"})

	out, err := run(t, info.EmailCmd, "ISHTEST")
	require.NoError(t, err)
	assert.Equal(t, "accounts@acme.com.au\n", out)
	assert.Contains(t, srv.Requests()[0].RequestURI, "search=code%3D%60ISHTEST%60")
}

func TestEmailCmd_NoAddress(t *testing.T) {
	useServer(t, mwtest.Route{Match: "export/table=name", Body: ""})

	_, err := run(t, info.EmailCmd, "NOPE")
	assert.EqualError(t, err, "no email address for NOPE")
}

func TestEmailCmd_ServerError(t *testing.T) {
	useServer(t, mwtest.Route{Match: "export", Status: 500, Body: "boom"})

	_, err := run(t, info.EmailCmd, "X")
	assert.Error(t, err)
}

func TestCommands_Metadata(t *testing.T) {
	assert.Equal(t, "version", info.VersionCmd.Use)
	assert.Equal(t, "forms", info.FormsCmd.Use)
	assert.Equal(t, "email CODE", info.EmailCmd.Use)
	assert.Error(t, info.EmailCmd.Args(info.EmailCmd, nil))
}
