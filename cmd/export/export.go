// Package export contains the export command
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"ari/moneyworks-cli/cmd/root"
	"ari/moneyworks-cli/internal/batch"
	"ari/moneyworks-cli/internal/client"
	"ari/moneyworks-cli/internal/container"
	"ari/moneyworks-cli/internal/decoder"
	"ari/moneyworks-cli/internal/fileutils"
	"ari/moneyworks-cli/internal/logging"
	"ari/moneyworks-cli/internal/validation"

	"github.com/spf13/cobra"
)

var (
	format    string
	sortBy    string
	direction string
	one       bool
	asCSV     bool
	columns   []string
	output    string
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export TABLE SEARCH",
	Short: "Export records from a MoneyWorks table",
	Long: `Export records matching a MoneyWorks search expression.

Without --format the records are decoded and printed as JSON, or as CSV with
--csv. With --format the server's formatted text is printed unchanged.

Examples:
  mwcli export name "left(code, 3)=` + "`ISH`" + `"
  mwcli export transaction "type=` + "`DI`" + `" --sort transdate --direction descending --csv
  mwcli export name "code=` + "`ISHTEST`" + `" --format "[email]"`,
	Args: cobra.ExactArgs(2),
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&format, "format", "", "MoneyWorks format string; output is the server's text")
	Cmd.Flags().StringVar(&sortBy, "sort", "", "Field to sort by")
	Cmd.Flags().StringVar(&direction, "direction", "", "Sort direction (ascending or descending)")
	Cmd.Flags().BoolVar(&one, "one", false, "Print only the first matching record")
	Cmd.Flags().BoolVar(&asCSV, "csv", false, "Write decoded records as CSV")
	Cmd.Flags().StringSliceVar(&columns, "columns", nil, "CSV columns (default: all scalar fields)")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
}

func run(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidDirection(direction); err != nil {
		return err
	}
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	opts := client.ExportOptions{
		Format:    format,
		Sort:      sortBy,
		Direction: client.Direction(strings.ToLower(direction)),
	}

	var buf bytes.Buffer
	if err := export(cmd, c, args[0], args[1], opts, &buf); err != nil {
		return err
	}

	if output == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	// The file is only touched once the export succeeded.
	return fileutils.WriteFile(output, buf.Bytes(), 0600)
}

func export(cmd *cobra.Command, c *container.Container, table, search string, opts client.ExportOptions, w io.Writer) error {
	ctx := root.Context(cmd)
	mw := c.GetClient()

	if format != "" {
		text, err := mw.ExportFormatted(ctx, table, search, format, opts)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	}

	var records []decoder.Record
	if one {
		r, err := mw.ExportOne(ctx, table, search, opts)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("no %s record matches %s", table, search)
		}
		records = []decoder.Record{r}
	} else {
		var err error
		records, err = mw.ExportRecords(ctx, table, search, opts)
		if err != nil {
			return err
		}
	}

	c.GetLogger().Debug("Exported records",
		logging.F(logging.FieldTable, table),
		logging.F(logging.FieldCount, len(records)))

	if asCSV {
		return batch.WriteRecordsCSV(w, records, columns)
	}
	return writeJSON(w, records, one)
}

func writeJSON(w io.Writer, records []decoder.Record, single bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if single {
		return enc.Encode(jsonRecord(records[0]))
	}
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		out = append(out, jsonRecord(r))
	}
	return enc.Encode(out)
}

// jsonRecord renders dates as YYYY-MM-DD and timestamps as RFC 3339. NaN and
// infinities, which JSON cannot hold, are rendered as text.
func jsonRecord(r decoder.Record) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		switch x := v.(type) {
		case time.Time:
			if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
				out[k] = x.Format(time.DateOnly)
			} else {
				out[k] = x.Format(time.RFC3339)
			}
		case float64:
			if math.IsNaN(x) || math.IsInf(x, 0) {
				out[k] = strconv.FormatFloat(x, 'g', -1, 64)
			} else {
				out[k] = x
			}
		case []decoder.Record:
			sub := make([]map[string]any, 0, len(x))
			for _, s := range x {
				sub = append(sub, jsonRecord(s))
			}
			out[k] = sub
		default:
			out[k] = v
		}
	}
	return out
}
