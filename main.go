package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ari/moneyworks-cli/cmd/batchpost"
	"ari/moneyworks-cli/cmd/export"
	"ari/moneyworks-cli/cmd/importdraft"
	"ari/moneyworks-cli/cmd/info"
	"ari/moneyworks-cli/cmd/post"
	"ari/moneyworks-cli/cmd/printdoc"
	"ari/moneyworks-cli/cmd/root"
)

func init() {
	root.Cmd.AddCommand(info.VersionCmd)
	root.Cmd.AddCommand(info.FormsCmd)
	root.Cmd.AddCommand(info.EmailCmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(printdoc.Cmd)
	root.Cmd.AddCommand(post.Cmd)
	root.Cmd.AddCommand(importdraft.Cmd)
	root.Cmd.AddCommand(batchpost.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
