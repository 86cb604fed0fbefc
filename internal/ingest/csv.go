package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/model"
)

// CSVSource parses the transaction CSV format:
//
//	type,client,tx,amount
//	deposit,1,1,5.0
//	dispute,1,1,
//
// Fields are trimmed of surrounding whitespace. The amount column is empty
// for dispute, resolve, and chargeback rows.
type CSVSource struct{}

const (
	numFields = 4
	colType   = 0
	colClient = 1
	colTx     = 2
	colAmount = 3
)

// Format returns the source name.
func (s *CSVSource) Format() string { return "csv" }

// Parse streams transactions out of r one row at a time. Rows that fail to
// parse or validate go to reject and are skipped.
func (s *CSVSource) Parse(r io.Reader, handle func(model.Transaction), reject func(RowError)) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row width checked per record, with a better error
	cr.TrimLeadingSpace = true

	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		row++
		if err != nil {
			reject(RowError{Row: row, Err: fmt.Errorf("%w: %v", model.ErrMalformedRecord, err)})
			continue
		}
		if row == 1 && isHeader(rec) {
			continue
		}

		tx, err := parseRow(rec)
		if err != nil {
			reject(RowError{Row: row, Err: err})
			continue
		}
		handle(tx)
	}
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[colType]), "type")
}

func parseRow(rec []string) (model.Transaction, error) {
	if len(rec) != numFields {
		return model.Transaction{}, fmt.Errorf("%w: expected %d fields, got %d", model.ErrMalformedRecord, numFields, len(rec))
	}

	kind := model.TxKind(strings.ToLower(strings.TrimSpace(rec[colType])))

	client, err := strconv.ParseUint(strings.TrimSpace(rec[colClient]), 10, 16)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: parsing client %q: %v", model.ErrMalformedRecord, rec[colClient], err)
	}

	txID, err := strconv.ParseUint(strings.TrimSpace(rec[colTx]), 10, 32)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: parsing tx %q: %v", model.ErrMalformedRecord, rec[colTx], err)
	}

	var amount *decimal.Decimal
	if raw := strings.TrimSpace(rec[colAmount]); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("%w: parsing amount %q: %v", model.ErrMalformedRecord, raw, err)
		}
		amount = &d
	}

	return model.NewTransaction(kind, uint16(client), uint32(txID), amount)
}
