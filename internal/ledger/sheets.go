package ledger

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Irina-Kostina/business-search-tool/internal/model"
)

// SheetsLedger appends leads to a Google Sheets spreadsheet using a service
// account.
type SheetsLedger struct {
	svc   *sheets.Service
	id    string
	sheet string
}

// NewSheets creates a SheetsLedger. The spreadsheet ID is required; missing
// credentials surface when the service is built or on first call. Extra
// options are for tests (endpoint override, no auth).
func NewSheets(ctx context.Context, spreadsheetID, credentialsFile, sheet string, opts ...option.ClientOption) (*SheetsLedger, error) {
	if spreadsheetID == "" {
		return nil, eris.New("sheets: spreadsheet ID is required (set LEADS_LEDGER_SPREADSHEET_ID)")
	}
	if sheet == "" {
		sheet = "Sheet1"
	}

	clientOpts := make([]option.ClientOption, 0, len(opts)+2)
	if credentialsFile != "" {
		clientOpts = append(clientOpts,
			option.WithCredentialsFile(credentialsFile),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: create service")
	}

	return &SheetsLedger{svc: svc, id: spreadsheetID, sheet: sheet}, nil
}

func (s *SheetsLedger) EnsureSchema(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.id, s.rangeRef("A1:J1")).
		Context(ctx).Do()
	if err != nil {
		return eris.Wrapf(err, "sheets: read header of %s", s.id)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	header := make([]interface{}, len(model.Header))
	for i, h := range model.Header {
		header[i] = h
	}
	return s.appendRow(ctx, header)
}

func (s *SheetsLedger) ExistingKeys(ctx context.Context) map[string]struct{} {
	keys := make(map[string]struct{})

	resp, err := s.svc.Spreadsheets.Values.
		Get(s.id, s.rangeRef("D2:D")).
		Context(ctx).Do()
	if err != nil {
		zap.L().Warn("sheets: read existing keys failed, assuming empty", zap.Error(err))
		return keys
	}

	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if v := fmt.Sprint(row[0]); v != "" {
			keys[v] = struct{}{}
		}
	}
	return keys
}

func (s *SheetsLedger) Append(ctx context.Context, lead model.Lead) error {
	row := lead.Row()
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	if err := s.appendRow(ctx, cells); err != nil {
		return eris.Wrapf(err, "sheets: append %s", lead.Website)
	}
	return nil
}

func (s *SheetsLedger) Rows(ctx context.Context, limit int) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.id, s.rangeRef("A2:J")).
		Context(ctx).Do()
	if err != nil {
		return nil, eris.Wrapf(err, "sheets: read rows of %s", s.id)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(model.Header))
		for i := range row {
			if i < len(raw) {
				row[i] = fmt.Sprint(raw[i])
			}
		}
		rows = append(rows, row)
	}
	return tail(rows, limit), nil
}

func (s *SheetsLedger) Close() error { return nil }

func (s *SheetsLedger) appendRow(ctx context.Context, cells []interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.id, s.rangeRef("A1"), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	return err
}

func (s *SheetsLedger) rangeRef(cells string) string {
	return s.sheet + "!" + cells
}

// tail returns the last limit rows, oldest first. limit <= 0 means all.
func tail(rows [][]string, limit int) [][]string {
	if limit <= 0 || len(rows) <= limit {
		return rows
	}
	return rows[len(rows)-limit:]
}
