package ledger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Irina-Kostina/business-search-tool/internal/model"
)

func newTestCSV(t *testing.T) *CSVLedger {
	t.Helper()
	l, err := NewCSV(filepath.Join(t.TempDir(), "leads.csv"))
	require.NoError(t, err)
	return l
}

func TestCSV_EnsureSchemaWritesHeaderOnce(t *testing.T) {
	ctx := context.Background()
	l := newTestCSV(t)

	require.NoError(t, l.EnsureSchema(ctx))
	require.NoError(t, l.Append(ctx, testLead("https://joescafe.co.nz")))
	require.NoError(t, l.EnsureSchema(ctx)) // second call must not truncate

	data, err := os.ReadFile(l.path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(model.Header, ","), lines[0])
	assert.Contains(t, lines[1], "https://joescafe.co.nz")
}

func TestCSV_ExistingKeys(t *testing.T) {
	ctx := context.Background()
	l := newTestCSV(t)
	require.NoError(t, l.EnsureSchema(ctx))
	require.NoError(t, l.Append(ctx, testLead("https://a.co.nz")))
	require.NoError(t, l.Append(ctx, testLead("https://b.co.nz")))

	keys := l.ExistingKeys(ctx)
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "https://a.co.nz")
	assert.Contains(t, keys, "https://b.co.nz")
}

func TestCSV_ExistingKeysMissingFileAssumesEmpty(t *testing.T) {
	l := newTestCSV(t)
	assert.Empty(t, l.ExistingKeys(context.Background()))
}

func TestCSV_Rows(t *testing.T) {
	ctx := context.Background()
	l := newTestCSV(t)
	require.NoError(t, l.EnsureSchema(ctx))
	require.NoError(t, l.Append(ctx, testLead("https://a.co.nz")))
	require.NoError(t, l.Append(ctx, testLead("https://b.co.nz")))
	require.NoError(t, l.Append(ctx, testLead("https://c.co.nz")))

	rows, err := l.Rows(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "https://b.co.nz", rows[0][model.WebsiteColumn])
	assert.Equal(t, "https://c.co.nz", rows[1][model.WebsiteColumn])
	assert.Equal(t, "contact@joescafe.co.nz", rows[0][6])
}

func TestCSV_CommaInCellSurvivesRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := newTestCSV(t)
	require.NoError(t, l.EnsureSchema(ctx))

	lead := testLead("https://two.co.nz")
	lead.Emails = []string{"a@two.co.nz", "b@two.co.nz"}
	require.NoError(t, l.Append(ctx, lead))

	rows, err := l.Rows(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a@two.co.nz, b@two.co.nz", rows[0][6])
}

func TestNewCSV_RequiresPath(t *testing.T) {
	_, err := NewCSV("")
	require.Error(t, err)
}
