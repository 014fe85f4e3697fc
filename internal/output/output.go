package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// PrintJSON writes v as pretty-printed JSON to w.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Field is a label/value row for PrintFields.
type Field struct {
	Label string
	Value any
}

// PrintFields prints label/value pairs with aligned values.
func PrintFields(w io.Writer, fields []Field) error {
	tw := NewTabWriter(w)
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%v\n", f.Label, f.Value)
	}
	return tw.Flush()
}

// NewTabWriter creates a new tabwriter with standard formatting settings.
func NewTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
