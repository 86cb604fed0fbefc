// Package rejectlog appends rejected transactions to a CSV audit log so each
// failed operation stays observable after the run.
package rejectlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the reject log.
type Entry struct {
	Timestamp time.Time
	RunID     string // one UUID per process run
	Kind      string
	ClientID  uint16
	TxID      uint32
	Reason    string
}

// Header is the CSV header for the reject log.
const Header = "timestamp,run_id,kind,client,tx,reason"

const (
	numFields    = 6
	colTimestamp = 0
	colRunID     = 1
	colKind      = 2
	colClient    = 3
	colTx        = 4
	colReason    = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colKind] = e.Kind
	row[colClient] = strconv.FormatUint(uint64(e.ClientID), 10)
	row[colTx] = strconv.FormatUint(uint64(e.TxID), 10)
	row[colReason] = e.Reason
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	client, err := strconv.ParseUint(record[colClient], 10, 16)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing client %q: %w", record[colClient], err)
	}

	tx, err := strconv.ParseUint(record[colTx], 10, 32)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing tx %q: %w", record[colTx], err)
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Kind:      record[colKind],
		ClientID:  uint16(client),
		TxID:      uint32(tx),
		Reason:    record[colReason],
	}, nil
}

// Append writes entries to path, creating the file and header if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening reject log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from the reject log at path. Returns an empty
// slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening reject log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading reject log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
