package batch

import (
	"context"
	"errors"
	"testing"

	"ari/moneyworks-cli/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	calls []string
	fail  map[string]error
	after func(seqnum string)
}

func (f *fakePoster) PostTransaction(_ context.Context, seqnum string) (string, error) {
	f.calls = append(f.calls, seqnum)
	if f.after != nil {
		defer f.after(seqnum)
	}
	if err, ok := f.fail[seqnum]; ok {
		return "", err
	}
	return "posted " + seqnum, nil
}

func TestPostAll_ContinuesAfterFailure(t *testing.T) {
	boom := errors.New("already posted")
	fp := &fakePoster{fail: map[string]error{"12": boom}}
	logger := logging.NewMockLogger()

	results := NewPoster(fp, logger).PostAll(context.Background(), []string{"11", " 12 ", "13"})

	assert.Equal(t, []string{"11", "12", "13"}, fp.calls)
	require.Len(t, results, 3)
	assert.True(t, results[0].OK())
	assert.Equal(t, "posted 11", results[0].Response)
	assert.False(t, results[1].OK())
	assert.ErrorIs(t, results[1].Err, boom)
	assert.True(t, results[2].OK())

	assert.Equal(t, Summary{Posted: 2, Failed: 1}, Summarize(results))

	errs := logger.GetEntriesByLevel("ERROR")
	require.Len(t, errs, 1)
	seq, ok := errs[0].FieldValue(logging.FieldSeqNum)
	require.True(t, ok)
	assert.Equal(t, "12", seq)
	assert.True(t, logger.HasEntry("INFO", "Batch finished"))
}

func TestPostAll_LogsDurationInMilliseconds(t *testing.T) {
	logger := logging.NewMockLogger()
	NewPoster(&fakePoster{}, logger).PostAll(context.Background(), []string{"11"})

	debug := logger.GetEntriesByLevel("DEBUG")
	require.Len(t, debug, 1)
	d, ok := debug[0].FieldValue(logging.FieldDuration)
	require.True(t, ok)
	assert.IsType(t, int64(0), d)
}

func TestPostAll_Empty(t *testing.T) {
	fp := &fakePoster{}
	results := NewPoster(fp, nil).PostAll(context.Background(), nil)
	assert.Empty(t, results)
	assert.Empty(t, fp.calls)
	assert.Equal(t, Summary{}, Summarize(results))
}

func TestPostAll_StopsSendingWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fp := &fakePoster{after: func(string) { cancel() }}

	results := NewPoster(fp, nil).PostAll(ctx, []string{"1", "2", "3"})

	assert.Equal(t, []string{"1"}, fp.calls)
	require.Len(t, results, 3)
	assert.True(t, results[0].OK())
	assert.ErrorIs(t, results[1].Err, context.Canceled)
	assert.ErrorIs(t, results[2].Err, context.Canceled)
	assert.Equal(t, Summary{Posted: 1, Failed: 2}, Summarize(results))
}
