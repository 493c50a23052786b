package ledger

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/Irina-Kostina/business-search-tool/internal/model"
)

const xlsxSheetName = "Leads"

// XLSXLedger appends leads to a local Excel workbook. The whole file is
// rewritten on every append; xlsx has no append mode. Fine at lead-list
// scale.
type XLSXLedger struct {
	path string
}

// NewXLSX creates an XLSXLedger writing to path.
func NewXLSX(path string) (*XLSXLedger, error) {
	if path == "" {
		return nil, eris.New("xlsx: ledger path is required")
	}
	return &XLSXLedger{path: path}, nil
}

func (l *XLSXLedger) EnsureSchema(ctx context.Context) error {
	f, sheet, err := l.open()
	if err != nil {
		return err
	}
	if len(sheet.Rows) > 0 {
		return nil
	}

	row := sheet.AddRow()
	for _, h := range model.Header {
		row.AddCell().SetString(h)
	}
	return eris.Wrapf(f.Save(l.path), "xlsx: save %s", l.path)
}

func (l *XLSXLedger) ExistingKeys(ctx context.Context) map[string]struct{} {
	keys := make(map[string]struct{})

	_, sheet, err := l.open()
	if err != nil {
		zap.L().Warn("xlsx: read existing keys failed, assuming empty",
			zap.String("path", l.path), zap.Error(err))
		return keys
	}

	for i, row := range sheet.Rows {
		if i == 0 {
			continue // header
		}
		if len(row.Cells) > model.WebsiteColumn {
			if v := row.Cells[model.WebsiteColumn].String(); v != "" {
				keys[v] = struct{}{}
			}
		}
	}
	return keys
}

func (l *XLSXLedger) Append(ctx context.Context, lead model.Lead) error {
	f, sheet, err := l.open()
	if err != nil {
		return err
	}

	row := sheet.AddRow()
	for _, v := range lead.Row() {
		row.AddCell().SetString(v)
	}
	return eris.Wrapf(f.Save(l.path), "xlsx: append %s", lead.Website)
}

func (l *XLSXLedger) Rows(ctx context.Context, limit int) ([][]string, error) {
	_, sheet, err := l.open()
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for i, r := range sheet.Rows {
		if i == 0 {
			continue // header
		}
		row := make([]string, len(model.Header))
		for j := range row {
			if j < len(r.Cells) {
				row[j] = r.Cells[j].String()
			}
		}
		rows = append(rows, row)
	}
	return tail(rows, limit), nil
}

func (l *XLSXLedger) Close() error { return nil }

// open loads the workbook, creating it with the Leads sheet when absent.
func (l *XLSXLedger) open() (*xlsx.File, *xlsx.Sheet, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		f := xlsx.NewFile()
		sheet, err := f.AddSheet(xlsxSheetName)
		if err != nil {
			return nil, nil, eris.Wrap(err, "xlsx: add sheet")
		}
		return f, sheet, nil
	}

	f, err := xlsx.OpenFile(l.path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "xlsx: open %s", l.path)
	}
	sheet, ok := f.Sheet[xlsxSheetName]
	if !ok {
		if len(f.Sheets) == 0 {
			return nil, nil, eris.Errorf("xlsx: %s has no sheets", l.path)
		}
		sheet = f.Sheets[0]
	}
	return f, sheet, nil
}
