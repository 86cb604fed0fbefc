package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/settled-dev/settled/internal/engine"
)

// Header is the CSV header for the snapshot output.
const Header = "client,available,held,total,locked"

const (
	numFields    = 5
	colClient    = 0
	colAvailable = 1
	colHeld      = 2
	colTotal     = 3
	colLocked    = 4
)

// DefaultScale is the number of fractional digits in monetary output.
const DefaultScale int32 = 4

// WriteCSV renders a snapshot as CSV with monetary fields fixed at scale
// fractional digits. Rows are sorted by client ID.
func WriteCSV(w io.Writer, snaps []engine.Snapshot, scale int32) error {
	sorted := make([]engine.Snapshot, len(snaps))
	copy(sorted, snaps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ClientID < sorted[j].ClientID })

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, snap := range sorted {
		if err := cw.Write(marshalSnapshot(snap, scale)); err != nil {
			return fmt.Errorf("writing client %d: %w", snap.ClientID, err)
		}
	}
	return cw.Error()
}

func marshalSnapshot(snap engine.Snapshot, scale int32) []string {
	row := make([]string, numFields)
	row[colClient] = strconv.FormatUint(uint64(snap.ClientID), 10)
	row[colAvailable] = snap.Available.StringFixed(scale)
	row[colHeld] = snap.Held.StringFixed(scale)
	row[colTotal] = snap.Total.StringFixed(scale)
	row[colLocked] = strconv.FormatBool(snap.Locked)
	return row
}
