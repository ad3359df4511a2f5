package models

import (
	"embed"
	"encoding/csv"
	"fmt"
	"sort"
)

//go:embed faults.csv
var faultsFile embed.FS

// FaultEntry is one row of the bundled fault table: a detector fault
// code with its description, trigger condition, and recovery action.
type FaultEntry struct {
	Code        string
	Description string
	Condition   string
	Recovery    string
}

var faultTable = mustLoadFaults()

func mustLoadFaults() map[string]FaultEntry {
	f, err := faultsFile.Open("faults.csv")
	if err != nil {
		panic(fmt.Sprintf("faults.csv missing from build: %v", err))
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		panic(fmt.Sprintf("faults.csv unreadable: %v", err))
	}

	table := make(map[string]FaultEntry, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 4 {
			panic(fmt.Sprintf("faults.csv row %d has %d columns, want 4", i+1, len(row)))
		}
		table[row[0]] = FaultEntry{
			Code:        row[0],
			Description: row[1],
			Condition:   row[2],
			Recovery:    row[3],
		}
	}
	return table
}

// LookupFault returns the table entry for a fault code such as "m12" or "F40".
func LookupFault(code string) (FaultEntry, bool) {
	entry, ok := faultTable[code]
	return entry, ok
}

// AllFaults returns every fault-table entry, maintenance codes first,
// each group in code order.
func AllFaults() []FaultEntry {
	entries := make([]FaultEntry, 0, len(faultTable))
	for _, e := range faultTable {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Code, entries[j].Code
		if a[0] != b[0] {
			return a[0] > b[0] // 'm' sorts after 'F'; maintenance first
		}
		return a < b
	})
	return entries
}
