package backend

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"txquery/internal/config"
	applog "txquery/internal/log"
	"txquery/internal/storage"
)

func testFactory() Factory {
	return NewFactory(applog.New(applog.Config{Output: &bytes.Buffer{}}))
}

func TestCreateJSONSource(t *testing.T) {
	res, err := testFactory().CreateSource(context.Background(), Config{
		Type:      JSONSource,
		JSONPaths: []string{"../sources/jsonfile/testdata/transactions.json"},
	})
	require.NoError(t, err)
	require.Nil(t, res.Cleanup)
	require.NoError(t, res.Close())

	recs, err := res.Source.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 13)
}

func TestCreateSQLiteSource(t *testing.T) {
	res, err := testFactory().CreateSource(context.Background(), Config{
		Type:         SQLiteSource,
		SQLiteDBPath: filepath.Join(t.TempDir(), "tx.db"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Cleanup)
	defer res.Close()

	_, ok := res.Source.(*storage.SQLiteRepository)
	require.True(t, ok)

	recs, err := res.Source.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestCreateSourceRejectsInvalidConfig(t *testing.T) {
	cases := []Config{
		{Type: "memory"},
		{Type: JSONSource},
		{Type: SQLiteSource},
		{Type: SheetsSource},
	}
	for _, cfg := range cases {
		_, err := testFactory().CreateSource(context.Background(), cfg)
		require.Error(t, err, "type %s", cfg.Type)
	}
}

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	require.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataSource: "memory"})
	require.Error(t, err)

	app := &config.Config{
		DataSource:          "sheets",
		JSONPaths:           []string{"a.json"},
		SQLiteDBPath:        "tx.db",
		GoogleSpreadsheetID: "sheet-id",
		GoogleSheetRange:    "Transactions!A:I",
	}
	cfg, err := FromAppConfig(app)
	require.NoError(t, err)
	require.Equal(t, SheetsSource, cfg.Type)
	require.Equal(t, "sheet-id", cfg.GoogleSpreadsheetID)
	require.Equal(t, "Transactions!A:I", cfg.GoogleSheetRange)

	app.JSONPaths[0] = "changed.json"
	require.Equal(t, []string{"a.json"}, cfg.JSONPaths)
}

func TestSourceTypes(t *testing.T) {
	require.Equal(t, []string{"json", "sqlite", "sheets"}, GetSourceTypeStrings())
	for _, st := range GetSourceTypes() {
		require.True(t, st.IsValid())
	}
	require.False(t, SourceType("memory").IsValid())
}
