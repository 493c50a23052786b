package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Irina-Kostina/business-search-tool/internal/model"
)

// CSVLedger appends leads to a local CSV file. Useful for runs without
// Google credentials.
type CSVLedger struct {
	path string
}

// csvRow mirrors model.Header; csvutil derives the header row from the tags.
type csvRow struct {
	Timestamp    string `csv:"timestamp"`
	SearchQuery  string `csv:"search_query"`
	BusinessName string `csv:"business_name"`
	Website      string `csv:"website"`
	Title        string `csv:"title"`
	Description  string `csv:"description"`
	Emails       string `csv:"emails"`
	Phones       string `csv:"phones"`
	Instagram    string `csv:"instagram"`
	Facebook     string `csv:"facebook"`
}

func newCSVRow(lead model.Lead) csvRow {
	r := lead.Row()
	return csvRow{
		Timestamp:    r[0],
		SearchQuery:  r[1],
		BusinessName: r[2],
		Website:      r[3],
		Title:        r[4],
		Description:  r[5],
		Emails:       r[6],
		Phones:       r[7],
		Instagram:    r[8],
		Facebook:     r[9],
	}
}

func (r csvRow) strings() []string {
	return []string{
		r.Timestamp, r.SearchQuery, r.BusinessName, r.Website, r.Title,
		r.Description, r.Emails, r.Phones, r.Instagram, r.Facebook,
	}
}

// NewCSV creates a CSVLedger writing to path.
func NewCSV(path string) (*CSVLedger, error) {
	if path == "" {
		return nil, eris.New("csv: ledger path is required")
	}
	return &CSVLedger{path: path}, nil
}

func (l *CSVLedger) EnsureSchema(ctx context.Context) error {
	if info, err := os.Stat(l.path); err == nil && info.Size() > 0 {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return eris.Wrapf(err, "csv: create %s", l.path)
	}
	defer func() { _ = f.Close() }()

	header, err := csvutil.Header(csvRow{}, "csv")
	if err != nil {
		return eris.Wrap(err, "csv: derive header")
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	w.Flush()
	return eris.Wrap(w.Error(), "csv: flush header")
}

func (l *CSVLedger) ExistingKeys(ctx context.Context) map[string]struct{} {
	keys := make(map[string]struct{})

	rows, err := l.readAll()
	if err != nil {
		zap.L().Warn("csv: read existing keys failed, assuming empty",
			zap.String("path", l.path), zap.Error(err))
		return keys
	}
	for _, row := range rows {
		if row.Website != "" {
			keys[row.Website] = struct{}{}
		}
	}
	return keys
}

func (l *CSVLedger) Append(ctx context.Context, lead model.Lead) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return eris.Wrapf(err, "csv: open %s", l.path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)
	enc.AutoHeader = false // header is EnsureSchema's job

	if err := enc.Encode(newCSVRow(lead)); err != nil {
		return eris.Wrapf(err, "csv: append %s", lead.Website)
	}
	w.Flush()
	return eris.Wrap(w.Error(), "csv: flush row")
}

func (l *CSVLedger) Rows(ctx context.Context, limit int) ([][]string, error) {
	rows, err := l.readAll()
	if err != nil {
		return nil, eris.Wrapf(err, "csv: read %s", l.path)
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = row.strings()
	}
	return tail(out, limit), nil
}

func (l *CSVLedger) Close() error { return nil }

func (l *CSVLedger) readAll() ([]csvRow, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	dec, err := csvutil.NewDecoder(csv.NewReader(f))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil // empty file, no header yet
		}
		return nil, err
	}

	var rows []csvRow
	for {
		var row csvRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
