package root

import (
	"fmt"
	"os"

	"github.com/alexrudd2/midas/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// RunFaults prints the fault-code reference table, optionally filtered
// to the codes named on the command line.
func RunFaults(cmd *cobra.Command, args []string) {
	var entries []models.FaultEntry
	if len(args) == 0 {
		entries = models.AllFaults()
	} else {
		for _, code := range args {
			entry, ok := models.LookupFault(code)
			if !ok {
				fmt.Fprintf(os.Stderr, "unknown fault code %q\n", code)
				continue
			}
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Code", "Description", "Condition", "Recovery"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Code, e.Description, e.Condition, e.Recovery})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
