package catalog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEmbeddedSource_LoadsValidCatalog(t *testing.T) {
	c, err := Load(context.Background(), EmbeddedSource{})
	require.NoError(t, err)
	require.Positive(t, c.Len())

	all := c.All()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID, "embedded table is stored by ascending id")
	}
}

func TestFileSource_JSON(t *testing.T) {
	path := writeFile(t, "products.json", `[
		{"id": 1, "name": "Widget", "category": "Tools", "price": 9.99},
		{"id": 2, "name": "Gadget", "category": "Electronics"}
	]`)

	c, err := Load(context.Background(), FileSource{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(c.All()))
	assert.Equal(t, 9.99, c.All()[0].Price)
}

func TestFileSource_YAML(t *testing.T) {
	path := writeFile(t, "products.yaml", `
- id: 5
  name: Lamp
  category: Home
  price: 27.25
- id: 3
  name: Mug
  category: Home
`)

	c, err := Load(context.Background(), FileSource{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 3}, ids(c.All()), "file order is stored order")
}

func TestFileSource_Failures(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			wantErr: ErrSourceUnavailable,
		},
		{
			name:    "not json",
			path:    func(t *testing.T) string { return writeFile(t, "p.json", `{{`) },
			wantErr: ErrMalformedSource,
		},
		{
			name:    "object instead of array",
			path:    func(t *testing.T) string { return writeFile(t, "p.json", `{"id": 1}`) },
			wantErr: ErrMalformedSource,
		},
		{
			name:    "unknown field",
			path:    func(t *testing.T) string { return writeFile(t, "p.json", `[{"id": 1, "name": "a", "colour": "red"}]`) },
			wantErr: ErrMalformedSource,
		},
		{
			name:    "trailing data",
			path:    func(t *testing.T) string { return writeFile(t, "p.json", `[] []`) },
			wantErr: ErrMalformedSource,
		},
		{
			name:    "empty yaml",
			path:    func(t *testing.T) string { return writeFile(t, "p.yml", ``) },
			wantErr: ErrMalformedSource,
		},
		{
			name:    "duplicate ids",
			path:    func(t *testing.T) string { return writeFile(t, "p.json", `[{"id": 1, "name": "a"}, {"id": 1, "name": "b"}]`) },
			wantErr: ErrInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), FileSource{Path: tt.path(t)})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open(DriverSQLite, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLSource_SQLite(t *testing.T) {
	db := newSQLiteDB(t)

	_, err := db.Exec(`CREATE TABLE products (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		price REAL NOT NULL DEFAULT 0
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO products (id, name, category, price) VALUES
		(2, 'Gadget', 'Electronics', 19.5),
		(1, 'Widget', 'Tools', 9.99)`)
	require.NoError(t, err)

	c, err := Load(context.Background(), NewSQLSource(db))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(c.All()))

	p, ok := c.FindByID(2)
	require.True(t, ok)
	assert.Equal(t, Product{ID: 2, Name: "Gadget", Category: "Electronics", Price: 19.5}, p)
}

func TestSQLSource_MissingTable(t *testing.T) {
	db := newSQLiteDB(t)

	_, err := Load(context.Background(), NewSQLSource(db))
	require.ErrorIs(t, err, ErrMalformedSource)
}

func TestOpenSQLSource_UnknownDriver(t *testing.T) {
	_, err := OpenSQLSource("no-such-driver", "x")
	require.ErrorIs(t, err, ErrSourceUnavailable)
}
