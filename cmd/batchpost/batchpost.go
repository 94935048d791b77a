// Package batchpost contains the batch-post command
package batchpost

import (
	"fmt"

	"ari/moneyworks-cli/cmd/root"
	"ari/moneyworks-cli/internal/batch"
	"ari/moneyworks-cli/internal/fileutils"

	"github.com/spf13/cobra"
)

var report string

// Cmd represents the batch-post command
var Cmd = &cobra.Command{
	Use:   "batch-post FILE.csv",
	Short: "Post every transaction listed in a CSV file",
	Long: `Post the transactions whose sequence numbers are listed in the seqnum
column of a CSV file. Every row is attempted; failures are reported at the end
and make the command exit non-zero.

Example:
  mwcli batch-post to-post.csv --report results.csv`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&report, "report", "", "Write a CSV report of the results to this file")
}

func run(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	seqnums, err := batch.ReadSeqNumsFile(args[0])
	if err != nil {
		return err
	}

	results := c.GetPoster().PostAll(root.Context(cmd), seqnums)
	summary := batch.Summarize(results)

	if report != "" {
		if err := writeReport(report, results); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		if !r.OK() {
			if _, err := fmt.Fprintf(out, "%s: %v\n", r.SeqNum, r.Err); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintf(out, "posted %d, failed %d\n", summary.Posted, summary.Failed); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d transactions failed to post", summary.Failed, len(results))
	}
	return nil
}

func writeReport(path string, results []batch.Result) (err error) {
	f, err := fileutils.CreateFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return batch.WriteResultsCSV(f, results)
}
