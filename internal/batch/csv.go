package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"ari/moneyworks-cli/internal/dateutils"
	"ari/moneyworks-cli/internal/decoder"
	"ari/moneyworks-cli/internal/mwerror"

	"github.com/gocarina/gocsv"
)

// SeqNumRow is one row of a post list. Columns other than seqnum are ignored.
type SeqNumRow struct {
	SeqNum string `csv:"seqnum"`
	Note   string `csv:"note,omitempty"`
}

type resultRow struct {
	SeqNum   string `csv:"seqnum"`
	Status   string `csv:"status"`
	Response string `csv:"response"`
	Error    string `csv:"error"`
}

// ReadSeqNums reads the seqnum column of a CSV post list. Blank cells are
// skipped. An empty file yields no sequence numbers.
func ReadSeqNums(r io.Reader) ([]string, error) {
	var rows []SeqNumRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("error parsing post list: %w", err)
	}

	seqnums := make([]string, 0, len(rows))
	for _, row := range rows {
		if s := strings.TrimSpace(row.SeqNum); s != "" {
			seqnums = append(seqnums, s)
		}
	}
	if len(rows) > 0 && len(seqnums) == 0 {
		return nil, &mwerror.InvalidArgumentError{Key: "seqnum", Reason: "post list has no seqnum values"}
	}
	return seqnums, nil
}

// ReadSeqNumsFile opens path and reads it with ReadSeqNums.
func ReadSeqNumsFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening post list: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	return ReadSeqNums(file)
}

// WriteResultsCSV writes one row per result with its status.
func WriteResultsCSV(w io.Writer, results []Result) error {
	rows := make([]resultRow, 0, len(results))
	for _, r := range results {
		row := resultRow{SeqNum: r.SeqNum, Status: "posted", Response: strings.TrimSpace(r.Response)}
		if r.Err != nil {
			row.Status = "failed"
			row.Error = r.Err.Error()
		}
		rows = append(rows, row)
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// Columns returns the sorted union of scalar field names across records.
// Sub-collections are left out.
func Columns(records []decoder.Record) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for k, v := range rec {
			if _, ok := v.([]decoder.Record); ok {
				continue
			}
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// WriteRecordsCSV writes a header row and one row per record. With no
// columns given, Columns(records) is used. Missing fields are written empty.
func WriteRecordsCSV(w io.Writer, records []decoder.Record, columns []string) error {
	if len(columns) == 0 {
		columns = Columns(records)
	}

	cw := gocsv.DefaultCSVWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = formatCell(rec[col])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return dateutils.FormatDate(x)
		}
		return dateutils.FormatTimestamp(x)
	case []decoder.Record:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
