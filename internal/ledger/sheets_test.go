package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Irina-Kostina/business-search-tool/internal/model"
)

// fakeSheets emulates the two Sheets API calls the ledger makes:
// values.get and values.append.
type fakeSheets struct {
	header   [][]interface{}
	keys     [][]interface{}
	rows     [][]interface{}
	appends  [][]interface{}
	failGets bool
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, err := url.PathUnescape(r.URL.Path)
	if err != nil {
		http.Error(w, "bad path", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(p, ":append"):
		var vr sheets.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.appends = append(f.appends, vr.Values...)
		_ = json.NewEncoder(w).Encode(&sheets.AppendValuesResponse{})

	case r.Method == http.MethodGet:
		if f.failGets {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		var values [][]interface{}
		switch {
		case strings.HasSuffix(p, "A1:J1"):
			values = f.header
		case strings.HasSuffix(p, "D2:D"):
			values = f.keys
		case strings.HasSuffix(p, "A2:J"):
			values = f.rows
		}
		_ = json.NewEncoder(w).Encode(&sheets.ValueRange{Values: values})

	default:
		http.Error(w, "unexpected call", http.StatusNotFound)
	}
}

func newTestSheets(t *testing.T, fake *fakeSheets) *SheetsLedger {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	l, err := NewSheets(context.Background(), "sheet-id", "", "Sheet1",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return l
}

func TestSheets_EnsureSchemaWritesHeaderWhenEmpty(t *testing.T) {
	fake := &fakeSheets{}
	l := newTestSheets(t, fake)

	require.NoError(t, l.EnsureSchema(context.Background()))
	require.Len(t, fake.appends, 1)
	assert.Equal(t, "timestamp", fake.appends[0][0])
	assert.Len(t, fake.appends[0], len(model.Header))
}

func TestSheets_EnsureSchemaNoOpWhenHeaderExists(t *testing.T) {
	fake := &fakeSheets{header: [][]interface{}{{"timestamp", "search_query"}}}
	l := newTestSheets(t, fake)

	require.NoError(t, l.EnsureSchema(context.Background()))
	assert.Empty(t, fake.appends)
}

func TestSheets_EnsureSchemaReadFailureIsFatal(t *testing.T) {
	l := newTestSheets(t, &fakeSheets{failGets: true})
	require.Error(t, l.EnsureSchema(context.Background()))
}

func TestSheets_ExistingKeys(t *testing.T) {
	fake := &fakeSheets{keys: [][]interface{}{
		{"https://a.co.nz"},
		{"https://b.co.nz"},
		{},
	}}
	l := newTestSheets(t, fake)

	keys := l.ExistingKeys(context.Background())
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "https://a.co.nz")
	assert.Contains(t, keys, "https://b.co.nz")
}

func TestSheets_ExistingKeys_ReadFailureAssumesEmpty(t *testing.T) {
	l := newTestSheets(t, &fakeSheets{failGets: true})
	assert.Empty(t, l.ExistingKeys(context.Background()))
}

func TestSheets_AppendWritesRowInColumnOrder(t *testing.T) {
	fake := &fakeSheets{}
	l := newTestSheets(t, fake)

	require.NoError(t, l.Append(context.Background(), testLead("https://joescafe.co.nz")))
	require.Len(t, fake.appends, 1)
	row := fake.appends[0]
	require.Len(t, row, len(model.Header))
	assert.Equal(t, "2025-03-14T09:26:53", row[0])
	assert.Equal(t, "https://joescafe.co.nz", row[model.WebsiteColumn])
	assert.Equal(t, "contact@joescafe.co.nz", row[6])
}

func TestSheets_Rows(t *testing.T) {
	fake := &fakeSheets{rows: [][]interface{}{
		{"2025-03-14T09:26:53", "q", "A", "https://a.co.nz"},
		{"2025-03-14T09:27:12", "q", "B", "https://b.co.nz"},
	}}
	l := newTestSheets(t, fake)

	rows, err := l.Rows(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "https://b.co.nz", rows[0][model.WebsiteColumn])
	// Short API rows are padded to the full schema width.
	assert.Len(t, rows[0], len(model.Header))
}
