package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// newTable returns a tabwriter laid out like the other list commands.
// Callers must Flush it.
func newTable(out io.Writer, header, underline string) *tabwriter.Writer {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, underline)
	return w
}
