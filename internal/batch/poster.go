// Package batch posts lists of MoneyWorks transactions and flattens exported
// records to CSV.
package batch

import (
	"context"
	"strings"
	"time"

	"ari/moneyworks-cli/internal/logging"
)

// TransactionPoster is the part of the MoneyWorks client the Poster needs.
type TransactionPoster interface {
	PostTransaction(ctx context.Context, seqnum string) (string, error)
}

// Result is the outcome of posting one transaction.
type Result struct {
	SeqNum   string
	Response string
	Err      error
	Duration time.Duration
}

// OK reports whether the transaction was posted.
func (r Result) OK() bool {
	return r.Err == nil
}

// Summary counts posted and failed transactions.
type Summary struct {
	Posted int
	Failed int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.OK() {
			s.Posted++
		} else {
			s.Failed++
		}
	}
	return s
}

// Poster posts transactions one at a time.
type Poster struct {
	client TransactionPoster
	logger logging.Logger
}

// NewPoster creates a Poster backed by client.
func NewPoster(client TransactionPoster, logger logging.Logger) *Poster {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Poster{client: client, logger: logger}
}

// PostAll posts every sequence number in order and returns one Result per
// input. A failure does not stop the batch. Once ctx is done the remaining
// sequence numbers fail with the context error without being sent.
func (p *Poster) PostAll(ctx context.Context, seqnums []string) []Result {
	results := make([]Result, 0, len(seqnums))

	p.logger.Info("Posting batch", logging.F(logging.FieldCount, len(seqnums)))

	for _, seqnum := range seqnums {
		seqnum = strings.TrimSpace(seqnum)
		if err := ctx.Err(); err != nil {
			results = append(results, Result{SeqNum: seqnum, Err: err})
			continue
		}

		start := time.Now()
		resp, err := p.client.PostTransaction(ctx, seqnum)
		r := Result{SeqNum: seqnum, Response: resp, Err: err, Duration: time.Since(start)}
		results = append(results, r)

		if err != nil {
			p.logger.WithError(err).Error("Failed to post transaction",
				logging.F(logging.FieldSeqNum, seqnum))
			continue
		}
		p.logger.Debug("Posted transaction",
			logging.F(logging.FieldSeqNum, seqnum),
			logging.F(logging.FieldDuration, r.Duration.Milliseconds()))
	}

	s := Summarize(results)
	p.logger.Info("Batch finished",
		logging.F("posted", s.Posted),
		logging.F("failed", s.Failed))

	return results
}
