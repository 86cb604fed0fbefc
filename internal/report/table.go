package report

import (
	"sort"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/settled-dev/settled/internal/engine"
)

// RenderTable prints a snapshot as a terminal table, sorted by client ID.
// Locked accounts are highlighted in red.
func RenderTable(snaps []engine.Snapshot, scale int32) error {
	sorted := make([]engine.Snapshot, len(snaps))
	copy(sorted, snaps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ClientID < sorted[j].ClientID })

	tableData := pterm.TableData{{"Client", "Available", "Held", "Total", "Locked"}}

	for _, snap := range sorted {
		row := []string{
			strconv.FormatUint(uint64(snap.ClientID), 10),
			snap.Available.StringFixed(scale),
			snap.Held.StringFixed(scale),
			snap.Total.StringFixed(scale),
			strconv.FormatBool(snap.Locked),
		}
		if snap.Locked {
			for i, cell := range row {
				row[i] = pterm.Red(cell)
			}
		}
		tableData = append(tableData, row)
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d accounts\n", len(sorted))
	return nil
}
