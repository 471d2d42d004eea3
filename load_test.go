package main

import (
	"context"
	"database/sql"
	"io"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YLivay/delimited/reader"
)

func openTestReader(t *testing.T, contents string) *reader.Reader {
	f, err := os.Open(createTestFile(t, "in.csv", contents))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	r, err := reader.NewReader(f, reader.CSV())
	require.NoError(t, err)
	return r
}

func queryRows(t *testing.T, dbPath, query string) [][]sql.NullString {
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(query)
	require.NoError(t, err)
	defer rows.Close()

	cols, err := rows.Columns()
	require.NoError(t, err)

	var out [][]sql.NullString
	for rows.Next() {
		row := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range row {
			dest[i] = &row[i]
		}
		require.NoError(t, rows.Scan(dest...))
		out = append(out, row)
	}
	require.NoError(t, rows.Err())
	return out
}

func str(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestLoadRecords_WithHeader(t *testing.T) {
	dbPath := path.Join(t.TempDir(), "out.db")
	r := openTestReader(t, "name,age\nann,30\nbob\n\"cid, jr\",40,extra\n")

	n, err := loadRecords(context.Background(), dbPath, "people", r, true)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows := queryRows(t, dbPath, `SELECT name, age FROM people ORDER BY rowid`)
	assert.Equal(t, [][]sql.NullString{
		{str("ann"), str("30")},
		{str("bob"), {}},
		{str("cid, jr"), str("40")},
	}, rows)
}

func TestLoadRecords_WithoutHeader(t *testing.T) {
	dbPath := path.Join(t.TempDir(), "out.db")
	r := openTestReader(t, "a,b,c\nd,e,f\n")

	n, err := loadRecords(context.Background(), dbPath, "records", r, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows := queryRows(t, dbPath, `SELECT c1, c2, c3 FROM records ORDER BY rowid`)
	assert.Equal(t, [][]sql.NullString{
		{str("a"), str("b"), str("c")},
		{str("d"), str("e"), str("f")},
	}, rows)
}

func TestLoadRecords_AppendsToExistingTable(t *testing.T) {
	dbPath := path.Join(t.TempDir(), "out.db")

	for i := 0; i < 2; i++ {
		r := openTestReader(t, "x,y\n")
		_, err := loadRecords(context.Background(), dbPath, `odd "name"`, r, false)
		require.NoError(t, err)
	}

	rows := queryRows(t, dbPath, `SELECT c1, c2 FROM "odd ""name"""`)
	assert.Len(t, rows, 2)
}

func TestLoadRecords_NotSeekable(t *testing.T) {
	r, err := reader.NewReader(struct{ io.Reader }{strings.NewReader("a,b\n")}, reader.CSV())
	require.NoError(t, err)

	_, err = loadRecords(context.Background(), path.Join(t.TempDir(), "out.db"), "t", r, false)
	assert.ErrorIs(t, err, reader.ErrNotSeekable)
}
