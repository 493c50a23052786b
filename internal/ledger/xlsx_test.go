package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/Irina-Kostina/business-search-tool/internal/model"
)

func newTestXLSX(t *testing.T) *XLSXLedger {
	t.Helper()
	l, err := NewXLSX(filepath.Join(t.TempDir(), "leads.xlsx"))
	require.NoError(t, err)
	return l
}

func TestXLSX_EnsureSchemaWritesHeaderOnce(t *testing.T) {
	ctx := context.Background()
	l := newTestXLSX(t)

	require.NoError(t, l.EnsureSchema(ctx))
	require.NoError(t, l.Append(ctx, testLead("https://joescafe.co.nz")))
	require.NoError(t, l.EnsureSchema(ctx))

	f, err := xlsx.OpenFile(l.path)
	require.NoError(t, err)
	sheet := f.Sheet[xlsxSheetName]
	require.NotNil(t, sheet)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "timestamp", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "https://joescafe.co.nz", sheet.Rows[1].Cells[model.WebsiteColumn].String())
}

func TestXLSX_ExistingKeysAndRows(t *testing.T) {
	ctx := context.Background()
	l := newTestXLSX(t)
	require.NoError(t, l.EnsureSchema(ctx))
	require.NoError(t, l.Append(ctx, testLead("https://a.co.nz")))
	require.NoError(t, l.Append(ctx, testLead("https://b.co.nz")))

	keys := l.ExistingKeys(ctx)
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "https://a.co.nz")

	rows, err := l.Rows(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "https://b.co.nz", rows[0][model.WebsiteColumn])
}

func TestXLSX_ExistingKeysMissingFileAssumesEmpty(t *testing.T) {
	// Missing workbook reads as empty, not fatal.
	l := newTestXLSX(t)
	assert.Empty(t, l.ExistingKeys(context.Background()))
}

func TestNewXLSX_RequiresPath(t *testing.T) {
	_, err := NewXLSX("")
	require.Error(t, err)
}
