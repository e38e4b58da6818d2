package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	if output != "" && output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// view renders one entity type as table rows.
type view[T any] struct {
	headers []string
	row     func(T) []string
}

// render writes items as JSON or as a table, depending on --output.
func (v view[T]) render(cmd *cobra.Command, items []T) error {
	if getOutputFormat(cmd) == "json" {
		if items == nil {
			items = []T{}
		}
		return printJSON(cmd.OutOrStdout(), items)
	}
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = v.row(item)
	}
	return printTable(cmd.OutOrStdout(), v.headers, rows)
}

// renderOne writes a single item as a JSON object or a one-row table.
func (v view[T]) renderOne(cmd *cobra.Command, item T) error {
	if getOutputFormat(cmd) == "json" {
		return printJSON(cmd.OutOrStdout(), item)
	}
	return printTable(cmd.OutOrStdout(), v.headers, [][]string{v.row(item)})
}

// printMessage writes a short confirmation, or {"<key>": value} in JSON mode.
func printMessage(cmd *cobra.Command, key string, value any, format string, args ...any) error {
	if getOutputFormat(cmd) == "json" {
		return printJSON(cmd.OutOrStdout(), map[string]any{key: value})
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	return err
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func formatMoney(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
